package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/devbackend/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type TokenRequest struct {
	UserID   string `json:"user_id"`
	Nickname string `json:"nickname"`
}

type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// IssueToken hands out an access token for any user. There is no login in
// the dev backend; an empty user_id gets a fresh one.
func (h *Handler) IssueToken(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if r.ContentLength != 0 {
		if err := decode(r, &req); err != nil {
			h.respond(w, r, nil, err)
			return
		}
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		req.UserID = uuid.NewString()
	}

	expiresAt := time.Now().Add(h.tokenTTL)
	token, err := auth.GenerateToken(req.UserID, strings.TrimSpace(req.Nickname), h.secret, h.tokenTTL)
	h.respond(w, r, TokenResponse{AccessToken: token, UserID: req.UserID, ExpiresAt: expiresAt}, err)
}

// PaymentPage plays the payment provider: it shows the pg_token that the
// client passes to approve.
func (h *Handler) PaymentPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.backend.PaymentPage(r.Context(), chi.URLParam(r, "tid"))
	if err != nil {
		h.respond(w, r, nil, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "order:    %s\namount:   %d KRW\npg_token: %s\n", page.OrderID, page.Amount, page.PGToken)
}
