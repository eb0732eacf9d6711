// internal/httpserver/routes_game.go
//
// Game endpoints for the web client, plus the shared get-or-create and
// guess-submission plumbing that every transport variant calls into.
// Handlers stay thin: validation and persistence here, game decisions in
// the engine.

package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/driftword/go-server/internal/engine"
	"github.com/driftword/go-server/internal/results"
	"github.com/driftword/go-server/internal/store"
)

// getOrCreateTarget returns the post's target assignment, creating it on
// first touch: the rotation counter advances once and the selected word
// is resolved against the embedding table.
func (s *Server) getOrCreateTarget(ctx context.Context, p *Puzzle, postID string) (engine.TargetAssignment, error) {
	if t, err := s.st.GetTarget(ctx, postID); err == nil {
		return t, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return engine.TargetAssignment{}, err
	}

	unlock := s.targetLocks.lock(postID)
	defer unlock()

	// Re-check under the lock: another request may have created it.
	if t, err := s.st.GetTarget(ctx, postID); err == nil {
		return t, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return engine.TargetAssignment{}, err
	}

	n, err := s.st.Next(ctx)
	if err != nil {
		return engine.TargetAssignment{}, fmt.Errorf("advance rotation counter: %w", err)
	}
	t, err := p.Engine.NewTarget(p.Rotation.Word(n))
	if err != nil {
		// Data integrity failure for this post's setup; surfaced, never
		// silently defaulted to some other word.
		return engine.TargetAssignment{}, err
	}
	if err := s.st.PutTarget(ctx, postID, t); err != nil {
		return engine.TargetAssignment{}, err
	}
	log.Info().Str("postId", postID).Uint64("counter", n).Msg("target assigned")
	return t, nil
}

// getOrCreateSession returns the (post, player) session, creating a fresh
// one on first interaction.
func (s *Server) getOrCreateSession(ctx context.Context, postID, playerID string) (*engine.PlayerSession, error) {
	sess, err := s.st.GetSession(ctx, postID, playerID)
	if err == nil {
		return sess, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	sess = &engine.PlayerSession{StartedAt: time.Now().UTC()}
	if err := s.st.PutSession(ctx, postID, playerID, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// play runs one guess through the engine as a single logical unit:
// read session, apply, write back. isUser toggles account stat updates.
func (s *Server) play(ctx context.Context, postID, playerID, guess string, isUser bool) (engine.Outcome, error) {
	p := s.puzzle.Load()

	target, err := s.getOrCreateTarget(ctx, p, postID)
	if err != nil {
		return engine.Outcome{}, err
	}

	unlock := s.sessionLocks.lock(postID + "|" + playerID)
	defer unlock()

	sess, err := s.st.GetSession(ctx, postID, playerID)
	if errors.Is(err, store.ErrNotFound) {
		// A recorded result with no session means the KV store was wiped
		// after completion; stay terminal rather than granting a replay.
		if done, derr := s.res.AlreadyFinished(ctx, postID, playerID); derr == nil && done {
			return engine.Outcome{
				Kind:     engine.OutcomeAlreadyCompleted,
				GameOver: true,
				Target:   target.Word,
			}, nil
		}
		sess = &engine.PlayerSession{StartedAt: time.Now().UTC()}
	} else if err != nil {
		return engine.Outcome{}, err
	}

	out := p.Engine.SubmitGuess(sess, target, guess)

	if out.Kind != engine.OutcomeAlreadyCompleted {
		if err := s.st.PutSession(ctx, postID, playerID, sess); err != nil {
			return engine.Outcome{}, err
		}
	}

	if out.GameOver && out.Kind != engine.OutcomeAlreadyCompleted {
		s.recordCompletion(ctx, postID, playerID, sess, out, isUser)
	}
	return out, nil
}

// recordCompletion persists the finished game and bumps account stats.
// Best effort: reporting failures never fail the guess.
func (s *Server) recordCompletion(ctx context.Context, postID, playerID string, sess *engine.PlayerSession, out engine.Outcome, isUser bool) {
	elapsed := int(time.Since(sess.StartedAt).Milliseconds())
	if err := s.res.InsertResult(ctx, results.Result{
		PostID:    postID,
		PlayerID:  playerID,
		Won:       out.Kind == engine.OutcomeWon,
		Attempts:  out.AttemptsUsed,
		ElapsedMs: elapsed,
	}); err != nil {
		log.Warn().Err(err).Str("postId", postID).Msg("insert result")
	}
	if isUser {
		if err := s.bumpStats(playerID, out.Kind == engine.OutcomeWon); err != nil {
			log.Warn().Err(err).Str("user", playerID).Msg("bump stats")
		}
	}
}

// ------------------------------ handlers ------------------------------------

// stateReq/Res payloads for POST /game/state.
type stateReq struct {
	PostID string `json:"postId"`
}
type stateRes struct {
	PostID           string   `json:"postId"`
	Guesses          []string `json:"guesses"`
	Hints            []string `json:"hints"`
	AttemptsUsed     int      `json:"attemptsUsed"`
	GuessesRemaining int      `json:"guessesRemaining"`
	GameOver         bool     `json:"gameOver"`
	Won              bool     `json:"won"`
	Target           string   `json:"target,omitempty"` // revealed once over
}

// handleState lazily creates the post's target and the player's session,
// then reports progress. The target is only revealed on terminal sessions.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	var req stateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PostID == "" {
		http.Error(w, `{"error":"bad_request"}`, http.StatusBadRequest)
		return
	}
	playerID, _ := s.playerID(w, r)

	p := s.puzzle.Load()
	target, err := s.getOrCreateTarget(r.Context(), p, req.PostID)
	if err != nil {
		log.Error().Err(err).Str("postId", req.PostID).Msg("target setup failed")
		http.Error(w, `{"error":"target_setup_failed"}`, http.StatusInternalServerError)
		return
	}
	sess, err := s.getOrCreateSession(r.Context(), req.PostID, playerID)
	if err != nil {
		http.Error(w, `{"error":"session_load_failed"}`, http.StatusInternalServerError)
		return
	}

	res := stateRes{
		PostID:           req.PostID,
		Guesses:          sess.Guesses,
		Hints:            sess.Hints,
		AttemptsUsed:     len(sess.Guesses),
		GuessesRemaining: engine.MaxAttempts - len(sess.Guesses),
		GameOver:         sess.Solved,
		Won:              sess.Won(target.Word),
	}
	if sess.Solved {
		res.Target = target.Word
		res.GuessesRemaining = 0
	}
	_ = json.NewEncoder(w).Encode(res)
}

// guessReq/Res payloads for POST /game/guess.
type guessReq struct {
	PostID string `json:"postId"`
	Guess  string `json:"guess"`
}
type guessRes struct {
	Result           engine.OutcomeKind `json:"result"`
	Correct          bool               `json:"correct"`
	GameOver         bool               `json:"gameOver"`
	Hint             string             `json:"hint,omitempty"`
	Target           string             `json:"target,omitempty"`
	AttemptsUsed     int                `json:"attemptsUsed"`
	GuessesRemaining int                `json:"guessesRemaining"`
}

// handleGuess validates the guess against the vocabulary and runs it
// through the engine.
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	req.Guess = strings.ToLower(strings.TrimSpace(req.Guess))
	if req.PostID == "" || req.Guess == "" {
		http.Error(w, `{"error":"invalid_guess"}`, http.StatusBadRequest)
		return
	}
	if !s.puzzle.Load().Table.Contains(req.Guess) {
		http.Error(w, `{"error":"not_in_word_list"}`, http.StatusBadRequest)
		return
	}

	playerID, isUser := s.playerID(w, r)
	out, err := s.play(r.Context(), req.PostID, playerID, req.Guess, isUser)
	if err != nil {
		log.Error().Err(err).Str("postId", req.PostID).Msg("guess failed")
		http.Error(w, `{"error":"guess_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(outcomeRes(out))
}

func outcomeRes(out engine.Outcome) guessRes {
	return guessRes{
		Result:           out.Kind,
		Correct:          out.Correct,
		GameOver:         out.GameOver,
		Hint:             out.Hint,
		Target:           out.Target,
		AttemptsUsed:     out.AttemptsUsed,
		GuessesRemaining: out.GuessesRemaining,
	}
}

// lbRes is returned by GET /game/leaderboard.
type lbRes struct {
	PostID string          `json:"postId"`
	Top    []results.LBRow `json:"top"`
}

// handleLeaderboard returns the top winners for a post.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	postID := r.URL.Query().Get("postId")
	if postID == "" {
		http.Error(w, `{"error":"missing_post_id"}`, http.StatusBadRequest)
		return
	}
	rows, err := s.res.Leaderboard(r.Context(), postID, 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(lbRes{PostID: postID, Top: rows})
}
