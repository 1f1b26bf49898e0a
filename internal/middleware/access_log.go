package middleware

import (
	"context"
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"medication-adherence/internal/platform/logger"
)

const loggedUserKey ctxKey = "logged_user"

// loggedUser lo deja AccessLog en el contexto y lo completa WithClaims más
// adentro de la cadena, porque AccessLog no ve el request con claims.
type loggedUser struct {
	id string
}

func noteLoggedUser(ctx context.Context, uid string) {
	if u, ok := ctx.Value(loggedUserKey).(*loggedUser); ok {
		u.id = uid
	}
}

// AccessLog escribe una línea por request. Debe ir después de chi RequestID.
func AccessLog(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			user := &loggedUser{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), loggedUserKey, user)))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := map[string]any{
				"request_id":  chimw.GetReqID(r.Context()),
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      status,
				"bytes":       ww.BytesWritten(),
				"duration_ms": time.Since(start).Milliseconds(),
			}
			if user.id != "" {
				fields["user_id"] = user.id
			}

			if status >= 500 {
				log.Error("request", fields)
				return
			}
			log.Info("request", fields)
		})
	}
}
