package httpserver

import (
	"bytes"
	"database/sql"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driftword/go-server/internal/engine"
	"github.com/driftword/go-server/internal/rotation"
	"github.com/driftword/go-server/internal/store"
	"github.com/driftword/go-server/internal/vocab"
)

func testDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
	CREATE TABLE users (
		id TEXT PRIMARY KEY, username TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL, created_at TEXT NOT NULL,
		games_played INTEGER NOT NULL DEFAULT 0,
		wins INTEGER NOT NULL DEFAULT 0,
		streak INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE results (
		post_id TEXT NOT NULL, player_id TEXT NOT NULL,
		won INTEGER NOT NULL, attempts INTEGER NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		PRIMARY KEY (post_id, player_id)
	);`)
	require.NoError(t, err)
	return db
}

// newTestEnv spins up the full router on a fresh memory store. firstTarget
// is the word the rotation assigns to the first-touched post (counter 0).
func newTestEnv(t *testing.T) (*httptest.Server, *http.Client, string) {
	t.Helper()
	tab, err := vocab.Default()
	require.NoError(t, err)

	s := New(store.NewMemoryStore(), testDB(t), NewPuzzle(tab))
	ts := httptest.NewServer(s.Router())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{Jar: jar}

	firstTarget := rotation.New(tab.Words()).Word(0)
	return ts, client, firstTarget
}

func postJSON(t *testing.T, client *http.Client, url string, body any, out any) *http.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(b))
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil && resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestHealth(t *testing.T) {
	ts, client, _ := newTestEnv(t)
	resp, err := client.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGuessRejectsUnknownWord(t *testing.T) {
	ts, client, _ := newTestEnv(t)
	resp := postJSON(t, client, ts.URL+"/game/guess", map[string]string{"postId": "p1", "guess": "zzzzz"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStateDoesNotRevealActiveTarget(t *testing.T) {
	ts, client, _ := newTestEnv(t)
	var st stateRes
	resp := postJSON(t, client, ts.URL+"/game/state", stateReq{PostID: "p1"}, &st)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, st.Target)
	assert.False(t, st.GameOver)
	assert.Equal(t, engine.MaxAttempts, st.GuessesRemaining)
}

func TestWinFlowAndAlreadyCompleted(t *testing.T) {
	ts, client, target := newTestEnv(t)

	var res guessRes
	resp := postJSON(t, client, ts.URL+"/game/guess", guessReq{PostID: "p1", Guess: target}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, engine.OutcomeWon, res.Result)
	assert.True(t, res.Correct)
	assert.True(t, res.GameOver)
	assert.Equal(t, target, res.Target)

	// Terminal session: further guesses are rejected, target stays shown.
	resp = postJSON(t, client, ts.URL+"/game/guess", guessReq{PostID: "p1", Guess: target}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, engine.OutcomeAlreadyCompleted, res.Result)
	assert.Equal(t, target, res.Target)

	// Win shows up on the leaderboard.
	lr, err := client.Get(ts.URL + "/game/leaderboard?postId=p1")
	require.NoError(t, err)
	defer lr.Body.Close()
	var lb lbRes
	require.NoError(t, json.NewDecoder(lr.Body).Decode(&lb))
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Attempts)
}

func TestWrongGuessReturnsHint(t *testing.T) {
	ts, client, target := newTestEnv(t)

	// Guess any vocabulary word that is not the target.
	tab, _ := vocab.Default()
	wrong := ""
	for _, w := range tab.Words() {
		if w != target {
			wrong = w
			break
		}
	}
	require.NotEmpty(t, wrong)

	var res guessRes
	resp := postJSON(t, client, ts.URL+"/game/guess", guessReq{PostID: "p1", Guess: wrong}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, engine.OutcomeHint, res.Result)
	assert.False(t, res.GameOver)
	assert.NotEmpty(t, res.Hint)
	assert.NotEqual(t, target, res.Hint)
	assert.NotEqual(t, wrong, res.Hint)
	assert.Equal(t, engine.MaxAttempts-1, res.GuessesRemaining)

	// The hint is reflected in the session state.
	var st stateRes
	postJSON(t, client, ts.URL+"/game/state", stateReq{PostID: "p1"}, &st)
	assert.Equal(t, []string{wrong}, st.Guesses)
	assert.Equal(t, []string{res.Hint}, st.Hints)
}

func TestTargetStableAcrossPlayers(t *testing.T) {
	ts, _, target := newTestEnv(t)

	// Two independent players (separate cookie jars) share the post's
	// target: both win with the same word.
	for i := 0; i < 2; i++ {
		jar, _ := cookiejar.New(nil)
		client := &http.Client{Jar: jar}
		var res guessRes
		resp := postJSON(t, client, ts.URL+"/game/guess", guessReq{PostID: "shared", Guess: target}, &res)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, engine.OutcomeWon, res.Result, "player %d", i)
	}
}

func TestEmbedVariantSharesEngine(t *testing.T) {
	ts, client, target := newTestEnv(t)

	var res embedGuessRes
	resp := postJSON(t, client, ts.URL+"/embed/guess",
		embedGuessReq{PostID: "p1", PlayerID: "platform-user-1", Guess: target}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.Correct)
	assert.True(t, res.GameOver)
	assert.Equal(t, target, res.Target)

	resp = postJSON(t, client, ts.URL+"/embed/guess",
		embedGuessReq{PostID: "p1", PlayerID: "platform-user-1", Guess: target}, &res)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, res.GameOver, "terminal session stays terminal")
}

func TestSignupWinBumpsStats(t *testing.T) {
	ts, client, target := newTestEnv(t)

	resp := postJSON(t, client, ts.URL+"/auth/signup",
		map[string]string{"Username": "alice_01", "Password": "longenoughpw"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Authenticated win bumps account stats.
	var res guessRes
	postJSON(t, client, ts.URL+"/game/guess", guessReq{PostID: "p1", Guess: target}, &res)
	require.Equal(t, engine.OutcomeWon, res.Result)

	sr, err := client.Get(ts.URL + "/stats/me")
	require.NoError(t, err)
	defer sr.Body.Close()
	require.Equal(t, http.StatusOK, sr.StatusCode)
	var stats map[string]any
	require.NoError(t, json.NewDecoder(sr.Body).Decode(&stats))
	assert.Equal(t, float64(1), stats["gamesPlayed"])
	assert.Equal(t, float64(1), stats["wins"])

	// Logout drops the gated route.
	postJSON(t, client, ts.URL+"/auth/logout", nil, nil)
	sr2, err := client.Get(ts.URL + "/stats/me")
	require.NoError(t, err)
	defer sr2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, sr2.StatusCode)
}

func TestSignupRejectsWeakInput(t *testing.T) {
	ts, client, _ := newTestEnv(t)
	resp := postJSON(t, client, ts.URL+"/auth/signup",
		map[string]string{"Username": "x", "Password": "longenoughpw"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postJSON(t, client, ts.URL+"/auth/signup",
		map[string]string{"Username": "valid_name", "Password": "short"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
