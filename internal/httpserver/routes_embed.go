// internal/httpserver/routes_embed.go
//
// Webview variant of the guess endpoint. The embedded client runs inside
// the host platform's webview: no cookies, the platform supplies a stable
// player ID with every call. Same engine, thinner surface, compact
// response.

package httpserver

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

type embedGuessReq struct {
	PostID   string `json:"postId"`
	PlayerID string `json:"playerId"`
	Guess    string `json:"guess"`
}

type embedGuessRes struct {
	Correct   bool   `json:"correct"`
	GameOver  bool   `json:"gameOver"`
	Hint      string `json:"hint,omitempty"`
	Target    string `json:"target,omitempty"`
	Remaining int    `json:"remaining"`
}

// mountEmbed registers the /embed routes.
func (s *Server) mountEmbed(r chi.Router) {
	r.Route("/embed", func(r chi.Router) {
		r.Post("/guess", s.handleEmbedGuess)
	})
}

func (s *Server) handleEmbedGuess(w http.ResponseWriter, r *http.Request) {
	var req embedGuessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	req.Guess = strings.ToLower(strings.TrimSpace(req.Guess))
	if req.PostID == "" || req.PlayerID == "" || req.Guess == "" {
		http.Error(w, `{"error":"invalid_request"}`, http.StatusBadRequest)
		return
	}
	if !s.puzzle.Load().Table.Contains(req.Guess) {
		http.Error(w, `{"error":"not_in_word_list"}`, http.StatusBadRequest)
		return
	}

	// Platform-supplied IDs are namespaced away from account/anon IDs.
	out, err := s.play(r.Context(), req.PostID, "embed:"+req.PlayerID, req.Guess, false)
	if err != nil {
		log.Error().Err(err).Str("postId", req.PostID).Msg("embed guess failed")
		http.Error(w, `{"error":"guess_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(embedGuessRes{
		Correct:   out.Correct,
		GameOver:  out.GameOver,
		Hint:      out.Hint,
		Target:    out.Target,
		Remaining: out.GuessesRemaining,
	})
}
