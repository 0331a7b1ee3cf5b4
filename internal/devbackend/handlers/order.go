package handlers

import (
	"net/http"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
)

func (h *Handler) CreateCapsule(w http.ResponseWriter, r *http.Request) {
	var req client.CapsuleRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.CreateCapsule(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req client.OrderRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.CreateOrder(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}

func (h *Handler) KakaoReady(w http.ResponseWriter, r *http.Request) {
	var req client.KakaoReadyRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.KakaoReady(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}

func (h *Handler) KakaoApprove(w http.ResponseWriter, r *http.Request) {
	var req client.KakaoApproveRequest
	if err := decode(r, &req); err != nil {
		h.respond(w, r, nil, err)
		return
	}
	resp, err := h.backend.KakaoApprove(r.Context(), userFrom(r.Context()), req)
	h.respond(w, r, resp, err)
}
