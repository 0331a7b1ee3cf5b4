package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/client/client"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/service"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/go-chi/chi/v5"
)

// Backend is the service the handlers delegate to.
type Backend interface {
	Presign(ctx context.Context, u service.User, req client.PresignRequest) (*client.PresignResponse, error)
	CompleteUpload(ctx context.Context, u service.User, req client.CompleteRequest) (*client.CompleteResponse, error)
	MediaURL(ctx context.Context, u service.User, mediaID string) (string, error)
	CreateCapsule(ctx context.Context, u service.User, req client.CapsuleRequest) (*client.CapsuleResponse, error)
	CreateOrder(ctx context.Context, u service.User, req client.OrderRequest) (*client.OrderResponse, error)
	KakaoReady(ctx context.Context, u service.User, req client.KakaoReadyRequest) (*client.KakaoReadyResponse, error)
	KakaoApprove(ctx context.Context, u service.User, req client.KakaoApproveRequest) (*client.KakaoApproveResponse, error)
	PaymentPage(ctx context.Context, tid string) (*service.PaymentPage, error)
	GetRoom(ctx context.Context, u service.User, roomID string) (*client.Room, error)
	JoinRoom(ctx context.Context, u service.User, roomID string) (*client.Room, error)
	CompleteParticipant(ctx context.Context, u service.User, roomID string) (*client.Room, error)
	FinalizeRoom(ctx context.Context, u service.User, roomID string) (*client.Room, error)
}

type Handler struct {
	backend  Backend
	logger   logging.Logger
	secret   []byte
	tokenTTL time.Duration
}

func NewHandler(backend Backend, logger logging.Logger, secret []byte, tokenTTL time.Duration) *Handler {
	return &Handler{backend: backend, logger: logger, secret: secret, tokenTTL: tokenTTL}
}

// Routes exposes the authenticated API routes.
func (h *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/media/presign", h.Presign)
	router.Post("/media/complete", h.CompleteUpload)
	router.Get("/media/{mediaID}/url", h.MediaURL)

	router.Post("/capsule", h.CreateCapsule)
	router.Post("/order", h.CreateOrder)

	router.Post("/payments/kakao/ready", h.KakaoReady)
	router.Post("/payments/kakao/approve", h.KakaoApprove)

	router.Get("/rooms/{roomID}", h.GetRoom)
	router.Post("/rooms/{roomID}/join", h.JoinRoom)
	router.Post("/rooms/{roomID}/complete", h.CompleteParticipant)
	router.Post("/rooms/{roomID}/finalize", h.FinalizeRoom)

	return router
}

type ErrorResponse struct {
	Message string `json:"message"`
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &service.ValidationError{Message: "invalid request body"}
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Message: msg})
}

// respond writes v on success or maps err onto a status code.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, v any, err error) {
	var ve *service.ValidationError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, v)
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "not found")
	case errors.Is(err, service.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, service.ErrNoSlots):
		writeMessage(w, http.StatusConflict, "no slots remaining")
	default:
		h.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeMessage(w, http.StatusInternalServerError, "internal error")
	}
}
