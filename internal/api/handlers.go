// Package api provides HTTP API handlers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/factchecker/satyata/internal/database"
	"github.com/factchecker/satyata/internal/imagehost"
	"github.com/factchecker/satyata/internal/models"
	"github.com/factchecker/satyata/internal/verify"
	"github.com/rs/zerolog/log"
)

// Version is reported by the health endpoint.
var Version = "1.0.0"

const maxJSONBody = 64 << 10

// Checker runs a fact-check for a validated claim.
type Checker interface {
	Check(ctx context.Context, claim models.Claim) (*verify.Report, error)
}

// Handler contains all HTTP handlers.
type Handler struct {
	checker       Checker
	uploader      imagehost.Uploader
	store         database.Store
	maxImageBytes int64
}

// NewHandler creates a new handler.
func NewHandler(checker Checker, uploader imagehost.Uploader, store database.Store, maxImageBytes int64) *Handler {
	if maxImageBytes <= 0 {
		maxImageBytes = imagehost.DefaultMaxBytes
	}
	return &Handler{
		checker:       checker,
		uploader:      uploader,
		store:         store,
		maxImageBytes: maxImageBytes,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"version":   Version,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, http.StatusOK, response)
}

// FactCheck handles claim fact-check requests.
func (h *Handler) FactCheck(w http.ResponseWriter, r *http.Request) {
	var req models.FactCheckRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	claim, err := verify.ValidateClaim(req.Text, req.ImageURL)
	if err != nil {
		writeValidationError(w, err)
		return
	}

	report, err := h.checker.Check(r.Context(), claim)
	if err != nil {
		log.Error().Err(err).Str("request_id", getRequestID(r.Context())).Msg("Fact-check failed")
		writeError(w, http.StatusInternalServerError, "Failed to process fact-check request")
		return
	}

	writeJSON(w, http.StatusOK, models.FactCheckResponse{
		FactCheckResult: report.Result,
		Warnings:        report.Warnings,
	})
}

// UploadImage accepts a multipart "image" field and returns its hosted URL.
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	// Leave room for multipart framing around the file itself.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxImageBytes+(1<<20))

	file, header, err := r.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile):
			writeError(w, http.StatusBadRequest, "No image file provided")
		case errors.As(err, &maxErr):
			writeError(w, http.StatusBadRequest, fmt.Sprintf("File size must be less than %dMB", h.maxImageBytes>>20))
		default:
			writeError(w, http.StatusBadRequest, "Invalid multipart form")
		}
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return
	}

	if err := imagehost.ValidateImage(header.Header.Get("Content-Type"), data, h.maxImageBytes); err != nil {
		writeValidationError(w, err)
		return
	}

	imageURL, err := h.uploader.Upload(r.Context(), header.Filename, data)
	if err != nil {
		log.Error().Err(err).Str("request_id", getRequestID(r.Context())).Msg("Image upload failed")
		writeError(w, http.StatusInternalServerError, "Failed to upload image")
		return
	}

	log.Info().Int("size", len(data)).Str("request_id", getRequestID(r.Context())).Msg("Image uploaded")
	writeJSON(w, http.StatusOK, models.UploadResponse{ImageURL: imageURL})
}

// GetAuditLogs returns paginated audit logs.
func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	logs, err := h.store.GetAuditLogs(r.Context(), limit, offset)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get audit logs")
		writeError(w, http.StatusInternalServerError, "Failed to get audit logs")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"logs":   logs,
		"limit":  limit,
		"offset": offset,
	})
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

func writeValidationError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusBadRequest, verr.Message)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request")
}
