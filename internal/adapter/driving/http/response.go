package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ericfisherdev/myfoliopanel/internal/application"
	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// statusForError maps a domain error to the HTTP status and client-facing
// message. Unknown errors are a 500 with a generic message.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrConfigInvalid):
		return http.StatusBadRequest, model.ErrConfigInvalid.Error()
	case errors.Is(err, model.ErrImportParse):
		return http.StatusBadRequest, model.ErrImportParse.Error()
	case errors.Is(err, model.ErrInvalidPortfolio):
		return http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, model.ErrStaleRevision):
		return http.StatusConflict, "remote data changed since it was last read; pull before pushing again"
	case errors.Is(err, model.ErrSyncInProgress):
		return http.StatusConflict, model.ErrSyncInProgress.Error()
	case errors.Is(err, model.ErrNotConfigured):
		return http.StatusConflict, model.ErrNotConfigured.Error()
	case errors.Is(err, model.ErrNetwork):
		return http.StatusBadGateway, model.ErrNetwork.Error()
	case errors.Is(err, model.ErrNotReady):
		return http.StatusServiceUnavailable, model.ErrNotReady.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
	Time   string `json:"time"`
}

// SessionRequest is the JSON body for the unlock endpoint.
type SessionRequest struct {
	Pin string `json:"pin"`
}

// GitHubConfigRequest is the JSON body for saving the sync configuration.
type GitHubConfigRequest struct {
	Token string `json:"token"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// GitHubConfigResponse describes the active sync configuration. The token is
// never echoed back.
type GitHubConfigResponse struct {
	Configured bool   `json:"configured"`
	Owner      string `json:"owner"`
	Repo       string `json:"repo"`
}

// PushRequest is the optional JSON body for the push endpoint.
type PushRequest struct {
	Message string `json:"message"`
}

// PullResponse reports the outcome of a pull.
type PullResponse struct {
	Adopted   bool                 `json:"adopted"`
	Portfolio *model.PortfolioData `json:"portfolio,omitempty"`
}

// SyncStatusResponse is the JSON representation of the sync state.
type SyncStatusResponse = application.SyncStatus

// toGitHubConfigResponse converts the vault's active config to its JSON
// representation.
func toGitHubConfigResponse(cfg model.GitHubConfig, ok bool) GitHubConfigResponse {
	if !ok {
		return GitHubConfigResponse{}
	}
	return GitHubConfigResponse{Configured: true, Owner: cfg.Owner, Repo: cfg.Repo}
}
