// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classlive/meeting-access-service/internal/service"
)

// AdmissionHandler serves the join and waiting-room surface.
type AdmissionHandler struct {
	admissionService *service.AdmissionService
}

// NewAdmissionHandler creates a new AdmissionHandler.
func NewAdmissionHandler(admissionService *service.AdmissionService) *AdmissionHandler {
	return &AdmissionHandler{admissionService: admissionService}
}

type joinRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

func (h *AdmissionHandler) Join(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.admissionService.RequestJoin(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), req.Name, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

func (h *AdmissionHandler) ListWaiting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	requests, err := h.admissionService.ListWaiting(ctx, callerFrom(ctx), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, requests)
}

func (h *AdmissionHandler) PollRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	result, err := h.admissionService.PollRequest(ctx, chi.URLParam(r, "uid"), chi.URLParam(r, "requestUID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, result)
}

type resolveResponse struct {
	Status string `json:"status"`
}

func (h *AdmissionHandler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	request, err := h.admissionService.ApproveRequest(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), chi.URLParam(r, "requestUID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, resolveResponse{Status: string(request.Status)})
}

func (h *AdmissionHandler) DenyRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	request, err := h.admissionService.DenyRequest(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), chi.URLParam(r, "requestUID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, resolveResponse{Status: string(request.Status)})
}
