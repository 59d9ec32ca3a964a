package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fialovy/redditpersona/internal/character"
	"github.com/fialovy/redditpersona/internal/persona"
	"github.com/fialovy/redditpersona/internal/reddit"
	"github.com/fialovy/redditpersona/internal/store"
	"go.uber.org/zap"
)

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Limit    int    `json:"limit"`
		MaxChars int    `json:"max_chars"`
		Offline  bool   `json:"offline"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	username := strings.TrimPrefix(strings.TrimSpace(req.Username), "u/")
	if username == "" {
		writeError(w, http.StatusBadRequest, "username required")
		return
	}

	def, err := s.svc.Generate(r.Context(), persona.Request{
		Username: username,
		Limit:    req.Limit,
		MaxChars: req.MaxChars,
		Offline:  req.Offline,
	})
	switch {
	case errors.Is(err, reddit.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "user not found: u/"+username)
		return
	case errors.Is(err, character.ErrCeilingTooSmall):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		s.log.Error("generate failed", zap.String("username", username), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"username":   username,
		"definition": def.Text,
		"length":     len(def.Text),
		"included":   def.Included,
		"skipped":    def.Skipped,
		"truncated":  def.Truncated,
		"warnings":   def.Warnings,
	})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	runs, err := s.db.RecentRuns(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []store.Run{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}
