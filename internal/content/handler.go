package content

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
	api     Api
	metrics *metrics.Manager
}

func NewHandler(api Api, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		api:     api,
		metrics: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/get-content", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-content")
	router.HandleFunc("/api/update-section", handler.HandleUpdate).Methods("POST", "OPTIONS").Name("update-section")
}

// HandleGet is public, the site itself reads its content through it
func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.get")
	defer span.End()

	siteContent, err := handler.api.Get(ctx)
	if err != nil {
		log.Errorf("get site content: %s", err)
		span.SetStatus(codes.Error, "get-content-err")
		span.RecordError(err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	contentJson, err := json.Marshal(siteContent)
	if err != nil {
		log.Errorf("marshal site content: %s", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	span.SetStatus(codes.Ok, "ok")
	pkg.WriteResponseBytesOK(w, pkg.ContentType.JSON, contentJson)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "contentHandler.update")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	var partial SiteContent
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		log.Errorf("update section, unmarshal json body: %s", err)
		http.Error(w, "error, invalid json body", http.StatusBadRequest)
		return
	}
	if len(partial) == 0 {
		http.Error(w, "error, empty update", http.StatusBadRequest)
		return
	}

	if err := handler.api.Update(ctx, partial); err != nil {
		log.Errorf("update site content: %s", err)
		span.SetStatus(codes.Error, "update-content-err")
		span.RecordError(err)
		http.Error(w, "error, failed to update content", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterContentUpdates.Inc()

	log.Printf("site content updated, %d fields", len(partial))
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteTextResponseOK(w, "updated")
}
