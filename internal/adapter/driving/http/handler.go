package httphandler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ericfisherdev/myfoliopanel/internal/application"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

const (
	// maxBodyBytes caps portfolio uploads.
	maxBodyBytes = 4 << 20
	// maxFormBytes caps small JSON requests (session, credentials, push).
	maxFormBytes = 64 << 10
)

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	manager     *application.PortfolioManager
	vault       *application.CredentialVault
	gate        *application.AccessGate
	syncSvc     *application.SyncService
	syncTimeout time.Duration
	logger      *slog.Logger
}

// NewHandler creates a Handler with all required dependencies. syncTimeout
// bounds each pull or push; zero means no bound beyond the request context.
func NewHandler(
	manager *application.PortfolioManager,
	vault *application.CredentialVault,
	gate *application.AccessGate,
	syncSvc *application.SyncService,
	syncTimeout time.Duration,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		manager:     manager,
		vault:       vault,
		gate:        gate,
		syncSvc:     syncSvc,
		syncTimeout: syncTimeout,
		logger:      logger,
	}
}

// NewServeMux creates an http.Handler with all routes registered and wrapped
// with logging and recovery middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/health", h.Health)
	mux.HandleFunc("GET /api/v1/portfolio", h.GetPortfolio)
	mux.HandleFunc("POST /api/v1/session", limitBody(maxFormBytes, h.CreateSession))
	mux.HandleFunc("DELETE /api/v1/session", h.DeleteSession)

	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return requireAdmin(h.gate, next)
	}

	mux.HandleFunc("PATCH /api/v1/portfolio", admin(limitBody(maxBodyBytes, h.PatchPortfolio)))
	mux.HandleFunc("POST /api/v1/portfolio/reset", admin(h.ResetPortfolio))
	mux.HandleFunc("GET /api/v1/portfolio/export", admin(h.ExportPortfolio))
	mux.HandleFunc("POST /api/v1/portfolio/import", admin(limitBody(maxBodyBytes, h.ImportPortfolio)))

	mux.HandleFunc("GET /api/v1/github/config", admin(h.GetGitHubConfig))
	mux.HandleFunc("PUT /api/v1/github/config", admin(limitBody(maxFormBytes, h.PutGitHubConfig)))
	mux.HandleFunc("DELETE /api/v1/github/config", admin(h.DeleteGitHubConfig))

	mux.HandleFunc("GET /api/v1/sync/status", admin(h.SyncStatus))
	mux.HandleFunc("POST /api/v1/sync/pull", admin(h.Pull))
	mux.HandleFunc("POST /api/v1/sync/push", admin(limitBody(maxFormBytes, h.Push)))

	// Recovery innermost so panics are caught before logging.
	wrapped := recoveryMiddleware(logger, mux)
	wrapped = loggingMiddleware(logger, wrapped)

	return wrapped
}

// respondError writes the status mapped from err and logs server-side failures.
func (h *Handler) respondError(w http.ResponseWriter, op string, err error) {
	status, message := statusForError(err)
	switch {
	case status == http.StatusInternalServerError:
		h.logger.Error(op+" failed", "error", err)
	case status >= http.StatusBadGateway:
		h.logger.Warn(op+" failed", "status", status, "error", err)
	}
	writeError(w, status, message)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		State:  h.manager.State().String(),
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetPortfolio returns the current portfolio. It is the public read used by
// the site itself.
func (h *Handler) GetPortfolio(w http.ResponseWriter, _ *http.Request) {
	data, err := h.manager.Data()
	if err != nil {
		h.respondError(w, "get portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// PatchPortfolio merges the request body into the portfolio at top-level
// granularity and returns the result.
func (h *Handler) PatchPortfolio(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var patch model.PortfolioPatch
	if err := dec.Decode(&patch); err != nil {
		if tooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if patch.IsEmpty() {
		writeError(w, http.StatusBadRequest, "patch changes nothing")
		return
	}

	data, err := h.manager.Update(r.Context(), patch)
	if err != nil {
		h.respondError(w, "update portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// ResetPortfolio restores the default content.
func (h *Handler) ResetPortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Reset(r.Context()); err != nil {
		h.respondError(w, "reset portfolio", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ExportPortfolio serves the portfolio as a downloadable JSON file.
func (h *Handler) ExportPortfolio(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := h.manager.Export(&buf); err != nil {
		h.respondError(w, "export portfolio", err)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", application.ExportFilename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// ImportPortfolio replaces the portfolio with the uploaded document.
func (h *Handler) ImportPortfolio(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		if tooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	if err := h.manager.Import(r.Context(), raw); err != nil {
		h.respondError(w, "import portfolio", err)
		return
	}

	data, err := h.manager.Data()
	if err != nil {
		h.respondError(w, "import portfolio", err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
