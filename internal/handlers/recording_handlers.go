// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/classlive/meeting-access-service/internal/service"
)

// RecordingHandler serves the recording orchestration surface.
type RecordingHandler struct {
	recordingService *service.RecordingService
}

// NewRecordingHandler creates a new RecordingHandler.
func NewRecordingHandler(recordingService *service.RecordingService) *RecordingHandler {
	return &RecordingHandler{recordingService: recordingService}
}

func (h *RecordingHandler) StartRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recording, err := h.recordingService.StartRecording(ctx, callerFrom(ctx), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, recording)
}

func (h *RecordingHandler) StopRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recording, err := h.recordingService.StopRecording(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), chi.URLParam(r, "recordingUID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, recording)
}

func (h *RecordingHandler) ListRecordings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recordings, err := h.recordingService.ListRecordings(ctx, callerFrom(ctx), chi.URLParam(r, "uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, recordings)
}

func (h *RecordingHandler) DeleteRecording(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.recordingService.DeleteRecording(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), chi.URLParam(r, "recordingUID"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusNoContent, nil)
}
