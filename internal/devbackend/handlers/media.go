package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/go-chi/chi/v5"
)

type MediaURLResponse struct {
	URL string `json:"url"`
}

func (h *Handler) Presign(w http.ResponseWriter, r *http.Request) {
	var req client.PresignRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.Presign(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}

func (h *Handler) CompleteUpload(w http.ResponseWriter, r *http.Request) {
	var req client.CompleteRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.CompleteUpload(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}

func (h *Handler) MediaURL(w http.ResponseWriter, r *http.Request) {
	url, err := h.backend.MediaURL(r.Context(), userFrom(r.Context()), chi.URLParam(r, "mediaID"))
	h.respond(w, r, MediaURLResponse{URL: url}, err)
}
