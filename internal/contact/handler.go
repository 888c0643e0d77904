package contact

import (
	"encoding/json"
	"net/http"

	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/tracing"
	"github.com/jmorales-dev/estudio-backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
)

type Handler struct {
	mailer  Mailer
	metrics *metrics.Manager
}

func NewHandler(mailer Mailer, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		mailer:  mailer,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	// path kept as the site frontend expects it
	router.HandleFunc("/enviarCorreo", handler.HandleSubmit).Methods("POST", "OPTIONS").Name("contact-submit")
}

func (handler *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contactHandler.submit")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var submission Submission
	if r.Header.Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&submission); err != nil {
			log.Errorf("contact submit, unmarshal json body: %s", err)
			http.Error(w, "error, invalid body", http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			log.Errorf("contact submit, parse form: %s", err)
			http.Error(w, "parse form error", http.StatusInternalServerError)
			return
		}
		submission = Submission{
			GName:   r.Form.Get("gname"),
			GMail:   r.Form.Get("gmail"),
			CName:   r.Form.Get("cname"),
			CAge:    r.Form.Get("cage"),
			Message: r.Form.Get("message"),
		}
	}

	if err := submission.Validate(); err != nil {
		log.Tracef("contact submit rejected: %s", err)
		span.SetStatus(codes.Error, "validation-err")
		http.Error(w, "error, campos requeridos vacíos", http.StatusBadRequest)
		return
	}

	if err := handler.mailer.Send(ctx, submission); err != nil {
		log.Errorf("contact submit, relay email from [%s]: %s", submission.GMail, err)
		span.SetStatus(codes.Error, "relay-err")
		span.RecordError(err)
		http.Error(w, "error, no se pudo enviar el mensaje", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterContactMessages.Inc()

	log.Printf("contact message relayed, from: %s", submission.GMail)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "mensaje enviado")
}
