package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/tracing"
	"github.com/jmorales-dev/estudio-backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

// SessionCookieName is the cookie carrying the session token
const SessionCookieName = "token"

type Handler struct {
	authService *Service
	metrics     *metrics.Manager
	// Secure flag is set on the session cookie only in production,
	// local development runs over plain http
	secureCookie bool
}

func NewHandler(authService *Service, metricsManager *metrics.Manager, secureCookie bool) *Handler {
	return &Handler{
		authService:  authService,
		metrics:      metricsManager,
		secureCookie: secureCookie,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	router.HandleFunc("/api/logout", handler.handleLogout).Methods("POST", "OPTIONS").Name("logout")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	type loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var loginReq loginRequest
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
			log.Errorf("login, unmarshal json params: %s", err)
			pkg.WriteResponse(w, pkg.ContentType.JSON, `{"message":"login failed"}`, http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("login failed, parse form error: %s", err)
			pkg.WriteResponse(w, pkg.ContentType.JSON, `{"message":"login failed"}`, http.StatusInternalServerError)
			return
		}
		loginReq = loginRequest{
			Username: r.Form.Get("username"),
			Password: r.Form.Get("password"),
		}
	}

	if loginReq.Username == "" || loginReq.Password == "" {
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"message":"username or password empty"}`, http.StatusBadRequest)
		return
	}

	token, err := handler.authService.Login(ctx, Credentials{
		Username: loginReq.Username,
		Password: loginReq.Password,
	})
	if err != nil {
		if errors.Is(err, ErrWrongCredentials) {
			log.Tracef("failed login attempt for user: %s", loginReq.Username)
			handler.metrics.CounterFailedLogins.Inc()
			span.SetStatus(codes.Error, "wrong-credentials")
			pkg.WriteResponse(w, pkg.ContentType.JSON, `{"message":"wrong credentials"}`, http.StatusUnauthorized)
			return
		}
		log.Errorf("login failed, issue token: %s", err)
		span.SetStatus(codes.Error, "issue-token-err")
		span.RecordError(err)
		pkg.WriteResponse(w, pkg.ContentType.JSON, `{"message":"internal error"}`, http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteNoneMode,
	})

	log.Trace("new login success")
	handler.metrics.CounterLogins.Inc()
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, `{"message":"login ok"}`)
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "authHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	// best effort revocation; the main effect of a logout is that the
	// client drops the cookie
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		if err := handler.authService.Logout(ctx, cookie.Value); err != nil && !errors.Is(err, ErrInvalidToken) {
			log.Errorf("logout, revoke token: %s", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookie,
		SameSite: http.SameSiteNoneMode,
	})

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, `{"message":"logged out"}`)
}
