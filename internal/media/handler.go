package media

import (
	"fmt"
	"net/http"

	"github.com/jmorales-dev/estudio-backend/internal/telemetry/metrics"
	"github.com/jmorales-dev/estudio-backend/internal/telemetry/tracing"
	"github.com/jmorales-dev/estudio-backend/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const maxUploadedFileSize = 10 << 20 // 10 MB

// uploadFileField is the multipart field name the admin page sends
const uploadFileField = "imagen"

type Handler struct {
	uploader Uploader
	metrics  *metrics.Manager
}

func NewHandler(uploader Uploader, metricsManager *metrics.Manager) *Handler {
	return &Handler{
		uploader: uploader,
		metrics:  metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/upload-image", handler.HandleUpload).Methods("POST", "OPTIONS").Name("upload-image")
}

func (handler *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "mediaHandler.upload")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := r.ParseMultipartForm(maxUploadedFileSize); err != nil {
		log.Errorf("upload image, parse multipart form: %s", err)
		http.Error(w, "error, invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile(uploadFileField)
	if err != nil {
		log.Errorf("upload image, get file from form: %s", err)
		http.Error(w, "error, image file missing", http.StatusBadRequest)
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("upload image, close file: %s", err)
		}
	}()

	fileType := "application/octet-stream"
	if t := header.Header.Get("Content-Type"); t != "" {
		fileType = t
	}

	log.Debugf(
		"upload image, filename: %s, size: %d, content-type: %s",
		header.Filename, header.Size, fileType,
	)
	span.SetAttributes(attribute.String("upload.filename", header.Filename))
	span.SetAttributes(attribute.Int64("upload.size", header.Size))

	url, err := handler.uploader.Upload(ctx, UploadParams{
		Filename:    header.Filename,
		ContentType: fileType,
		File:        file,
	})
	if err != nil {
		log.Errorf("upload image [%s]: %s", header.Filename, err)
		span.SetStatus(codes.Error, "upload-err")
		span.RecordError(err)
		http.Error(w, "error, image upload failed", http.StatusInternalServerError)
		return
	}

	handler.metrics.CounterImageUploads.Inc()

	log.Printf("image uploaded: [%s] -> %s", header.Filename, url)
	span.SetStatus(codes.Ok, "ok")
	pkg.WriteJSONResponseOK(w, fmt.Sprintf(`{"url": "%s"}`, url))
}
