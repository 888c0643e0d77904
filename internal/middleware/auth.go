package middleware

import (
	"net/http"

	"github.com/jmorales-dev/estudio-backend/internal/auth"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type AuthMiddlewareHandler struct {
	verifier auth.Verifier
	// public surface, everything else demands a valid session cookie
	allowedPaths map[string]bool
	// admin pages redirect to the login page instead of a bare rejection
	adminPagePaths map[string]bool
}

func NewAuthMiddlewareHandler(verifier auth.Verifier) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		verifier: verifier,
		allowedPaths: map[string]bool{
			"/":                true,
			"/api/login":       true,
			"/api/logout":      true,
			"/api/get-content": true,
			"/enviarCorreo":    true,
			"/login.html":      true,
		},
		adminPagePaths: map[string]bool{
			"/admin":      true,
			"/admin.html": true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			var token string
			if cookie, err := r.Cookie(auth.SessionCookieName); err == nil {
				token = cookie.Value
			}

			if h.adminPagePaths[r.URL.Path] {
				if token == "" {
					http.Redirect(w, r, "/login.html", http.StatusFound)
					span.SetStatus(codes.Error, "missing-session-cookie")
					return
				}
				if _, err := h.verifier.VerifyToken(ctx, token); err != nil {
					log.Tracef("[invalid token] [auth middleware] admin page => %s", r.URL.Path)
					http.Redirect(w, r, "/login.html", http.StatusFound)
					span.SetStatus(codes.Error, "not-logged")
					return
				}
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			// missing, malformed and expired cookies all collapse into
			// the same rejection, nothing about the token leaks back
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusForbidden)
				span.SetStatus(codes.Error, "missing-session-cookie")
				return
			}

			if _, err := h.verifier.VerifyToken(ctx, token); err != nil {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusForbidden)
				span.SetStatus(codes.Error, "not-logged")
				span.RecordError(err)
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r)
		})
	}
}
