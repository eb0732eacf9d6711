// internal/httpserver/server.go
//
// HTTP wiring for the driftword backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/metrics", "/debug/vocab".
//   - Game endpoints (optional auth): POST /game/state, POST /game/guess,
//     GET /game/leaderboard.
//   - Webview variant mounted under /embed (see routes_embed.go).
//   - Auth + profile/stat endpoints (require auth): /auth/*, /stats/me.
//
// Notes:
//   - The puzzle bundle (table + rotation + engine) is swapped atomically
//     on hot reload; each request works against the bundle it loaded.
//   - CORS is origin-aware and credentials-enabled (so cookies work).

package httpserver

import (
	"database/sql"
	"hash/fnv"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/driftword/go-server/internal/engine"
	"github.com/driftword/go-server/internal/metrics"
	"github.com/driftword/go-server/internal/results"
	"github.com/driftword/go-server/internal/rotation"
	"github.com/driftword/go-server/internal/store"
	"github.com/driftword/go-server/internal/vocab"
)

// Puzzle bundles the immutable pieces derived from one embedding table.
type Puzzle struct {
	Table    *vocab.Table
	Rotation *rotation.Rotation
	Engine   *engine.Engine
}

// NewPuzzle derives the rotation and engine from a loaded table.
func NewPuzzle(t *vocab.Table) *Puzzle {
	metrics.VocabularySize.Set(float64(t.Len()))
	return &Puzzle{
		Table:    t,
		Rotation: rotation.New(t.Words()),
		Engine:   engine.New(t),
	}
}

// Server bundles router, KV store, results DB and the active puzzle.
type Server struct {
	r      *chi.Mux
	st     store.Store
	db     *sql.DB
	res    *results.Store
	puzzle atomic.Pointer[Puzzle]

	// Separate stripe sets: target creation and guess submission never
	// nest within the same set, so they cannot deadlock.
	targetLocks  stripedLock
	sessionLocks stripedLock
}

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, db *sql.DB, p *Puzzle) *Server {
	s := &Server{r: chi.NewRouter(), st: st, db: db, res: results.NewStore(db)}
	s.puzzle.Store(p)

	// --- middleware ---
	s.r.Use(chimw.RequestID)                 // add X-Request-ID
	s.r.Use(chimw.RealIP)                    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer)                 // recover from panics
	s.r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
	s.r.Use(jsonContentType)                 // default JSON responses
	s.r.Use(corsFromEnv)                     // credentials-friendly CORS

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"driftword-go","endpoints":["/health","POST /game/state","POST /game/guess","GET /game/leaderboard","POST /embed/guess","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Handle("/metrics", promhttp.Handler())
	s.r.Get("/debug/vocab", func(w http.ResponseWriter, r *http.Request) {
		p := s.puzzle.Load()
		_ = json.NewEncoder(w).Encode(map[string]int{"words": p.Table.Len(), "dim": p.Table.Dim()})
	})

	// Game endpoints — OPTIONAL AUTH (guests play via anon cookie)
	s.r.With(s.withOptionalAuth()).Post("/game/state", s.handleState)
	s.r.With(s.withOptionalAuth()).Post("/game/guess", s.handleGuess)
	s.r.Get("/game/leaderboard", s.handleLeaderboard)

	// Webview variant — no cookies, explicit player IDs
	s.mountEmbed(s.r)

	// Auth + profile/stats (require auth)
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// SwapPuzzle replaces the active puzzle bundle; in-flight requests keep
// the bundle they started with.
func (s *Server) SwapPuzzle(p *Puzzle) { s.puzzle.Store(p) }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ---------------------------- keyed locking ---------------------------------

// stripedLock serializes work per key with a fixed set of mutexes.
// Concurrent guesses for the same (post, player) must not interleave
// between session read and write-back, or history updates get lost.
type stripedLock struct {
	mu [64]sync.Mutex
}

func (l *stripedLock) lock(key string) func() {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	m := &l.mu[h.Sum32()%uint32(len(l.mu))]
	m.Lock()
	return m.Unlock
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
