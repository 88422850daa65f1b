// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/tablescout/internal/models"
	"github.com/tomtom215/tablescout/internal/session"
)

// SessionView is the GET /api/v1/sessions/{id} payload.
type SessionView struct {
	SessionID string               `json:"session_id"`
	Turns     []models.SessionTurn `json:"turns"`
}

// GetSession returns the retained turns of a session. Unknown or expired
// sessions are 404.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	turns, err := h.sessions.GetHistory(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	if len(turns) == 0 {
		NewResponseWriter(w, r).NotFound("session not found")
		return
	}
	WriteSuccess(w, r, SessionView{SessionID: id, Turns: turns})
}

// DeleteSession forgets a session. Deleting an unknown session succeeds.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.sessions.Reset(r.Context(), id); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	NewResponseWriter(w, r).NoContent()
}

func (h *Handler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, session.ErrInvalidID) {
		NewResponseWriter(w, r).ValidationError("invalid session id", map[string]interface{}{"field": "id"})
		return
	}
	h.logger.Error().Err(err).Msg("Session store failed")
	NewResponseWriter(w, r).InternalError("session store failed")
}
