package httphandler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/ericfisherdev/myfoliopanel/internal/domain/model"
)

// CreateSession unlocks the admin session when the PIN matches.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badBody(w, err)
		return
	}

	if !h.gate.Unlock(r.Context(), req.Pin) {
		writeError(w, http.StatusUnauthorized, "incorrect pin")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession locks the admin session.
func (h *Handler) DeleteSession(w http.ResponseWriter, _ *http.Request) {
	h.gate.Lock()
	w.WriteHeader(http.StatusNoContent)
}

// GetGitHubConfig describes the active sync configuration without the token.
func (h *Handler) GetGitHubConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toGitHubConfigResponse(h.vault.Config()))
}

// PutGitHubConfig validates and stores the sync configuration.
func (h *Handler) PutGitHubConfig(w http.ResponseWriter, r *http.Request) {
	var req GitHubConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badBody(w, err)
		return
	}

	cfg := model.GitHubConfig{Token: req.Token, Owner: req.Owner, Repo: req.Repo}
	if err := h.vault.Save(r.Context(), cfg); err != nil {
		h.respondError(w, "save github config", err)
		return
	}
	writeJSON(w, http.StatusOK, toGitHubConfigResponse(h.vault.Config()))
}

// DeleteGitHubConfig forgets the sync configuration and the sync status.
func (h *Handler) DeleteGitHubConfig(w http.ResponseWriter, r *http.Request) {
	if err := h.syncSvc.Disconnect(r.Context()); err != nil {
		h.respondError(w, "clear github config", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncStatus reports the current sync state.
func (h *Handler) SyncStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, SyncStatusResponse(h.syncSvc.Status()))
}

// Pull fetches the remote portfolio and adopts it.
func (h *Handler) Pull(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.syncContext(r.Context())
	defer cancel()

	adopted, err := h.syncSvc.Pull(ctx)
	if err != nil {
		h.respondError(w, "pull", err)
		return
	}

	resp := PullResponse{Adopted: adopted}
	if adopted {
		data, err := h.manager.Data()
		if err != nil {
			h.respondError(w, "pull", err)
			return
		}
		resp.Portfolio = &data
	}
	writeJSON(w, http.StatusOK, resp)
}

// Push publishes the current portfolio. The body is optional.
func (h *Handler) Push(w http.ResponseWriter, r *http.Request) {
	var req PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		badBody(w, err)
		return
	}

	ctx, cancel := h.syncContext(r.Context())
	defer cancel()

	if err := h.syncSvc.Push(ctx, req.Message); err != nil {
		h.respondError(w, "push", err)
		return
	}
	writeJSON(w, http.StatusOK, SyncStatusResponse(h.syncSvc.Status()))
}

// badBody reports a request body that could not be decoded.
func badBody(w http.ResponseWriter, err error) {
	if tooLarge(err) {
		writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, "invalid request body")
}

func (h *Handler) syncContext(parent context.Context) (context.Context, context.CancelFunc) {
	if h.syncTimeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, h.syncTimeout)
}
