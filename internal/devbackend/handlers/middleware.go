package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/timecapsule/internal/common"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/auth"
	"github.com/dmitrijs2005/timecapsule/internal/devbackend/service"
	"github.com/dmitrijs2005/timecapsule/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
)

type ctxKey string

const userKey ctxKey = "user"

// LoggerMiddleware logs one line per request, health checks excluded.
func LoggerMiddleware(l logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				if r.URL.Path != "/health" {
					l.Info(r.Context(), "http_request",
						"request_id", middleware.GetReqID(r.Context()),
						"method", r.Method,
						"path", r.URL.Path,
						"status", ww.Status(),
						"duration", time.Since(start),
					)
				}
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Authenticate requires a valid Bearer token and stores the caller in the
// request context.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get(common.AuthorizationHeaderName)
			token, ok := strings.CutPrefix(header, common.BearerPrefix)
			if !ok || strings.TrimSpace(token) == "" {
				writeMessage(w, http.StatusUnauthorized, common.ErrNoToken.Error())
				return
			}

			claims, err := auth.ParseToken(strings.TrimSpace(token), secret)
			if err != nil {
				writeMessage(w, http.StatusUnauthorized, err.Error())
				return
			}

			u := service.User{ID: claims.UserID, Nickname: claims.Nickname}
			if u.Nickname == "" {
				u.Nickname = u.ID
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, u)))
		})
	}
}

func userFrom(ctx context.Context) service.User {
	u, _ := ctx.Value(userKey).(service.User)
	return u
}
