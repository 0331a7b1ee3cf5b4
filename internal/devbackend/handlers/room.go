package handlers

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/service"
	"github.com/go-chi/chi/v5"
)

type roomFunc func(ctx context.Context, u service.User, roomID string) (*client.Room, error)

func (h *Handler) room(fn roomFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := fn(r.Context(), userFrom(r.Context()), chi.URLParam(r, "roomID"))
		h.respond(w, r, resp, err)
	}
}

func (h *Handler) GetRoom(w http.ResponseWriter, r *http.Request) {
	h.room(h.backend.GetRoom)(w, r)
}

func (h *Handler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	h.room(h.backend.JoinRoom)(w, r)
}

func (h *Handler) CompleteParticipant(w http.ResponseWriter, r *http.Request) {
	h.room(h.backend.CompleteParticipant)(w, r)
}

func (h *Handler) FinalizeRoom(w http.ResponseWriter, r *http.Request) {
	h.room(h.backend.FinalizeRoom)(w, r)
}
