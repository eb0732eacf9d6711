package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/driftword/go-server/internal/httpserver"
	"github.com/driftword/go-server/internal/store"
	"github.com/driftword/go-server/internal/vocab"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	// Embedding table: configured payload or the embedded default.
	var table *vocab.Table
	var err error
	dataFile := os.Getenv("PUZZLE_DATA_FILE")
	if dataFile != "" {
		table, err = vocab.Load(dataFile)
	} else {
		table, err = vocab.Default()
	}
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load puzzle data")
	}
	log.Info().Int("words", table.Len()).Int("dim", table.Dim()).Msg("puzzle data loaded")

	// Game state store: durable badger when a directory is configured,
	// otherwise in-memory (dev).
	var st store.Store
	if dir := os.Getenv("BADGER_DIR"); dir != "" {
		st, err = store.OpenBadger(dir)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open badger store")
		}
	} else {
		log.Warn().Msg("BADGER_DIR unset, using in-memory store")
		st = store.NewMemoryStore()
	}
	defer st.Close()

	db, err := openDB(getEnv("DB_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	srv := httpserver.New(st, db, httpserver.NewPuzzle(table))

	// Hot reload the table when the payload file changes.
	if dataFile != "" {
		go func() {
			if err := vocab.Watch(context.Background(), dataFile, func(t *vocab.Table) {
				srv.SwapPuzzle(httpserver.NewPuzzle(t))
			}); err != nil {
				log.Warn().Err(err).Msg("puzzle data watcher stopped")
			}
		}()
	}

	port := getEnv("PORT", "5175")
	log.Info().Str("port", port).Msg("starting driftword server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
