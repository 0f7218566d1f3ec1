// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/service"
)

// MeetingHandler serves the meeting CRUD surface and the personal-meeting
// endpoint.
type MeetingHandler struct {
	meetingService         *service.MeetingService
	personalMeetingService *service.PersonalMeetingService
}

// NewMeetingHandler creates a new MeetingHandler.
func NewMeetingHandler(
	meetingService *service.MeetingService,
	personalMeetingService *service.PersonalMeetingService,
) *MeetingHandler {
	return &MeetingHandler{
		meetingService:         meetingService,
		personalMeetingService: personalMeetingService,
	}
}

// createMeetingRequest is the body of a meeting creation request. The
// password travels separately from the meeting because only its hash is
// stored.
type createMeetingRequest struct {
	Title            string                  `json:"title"`
	Description      string                  `json:"description,omitempty"`
	StartTime        time.Time               `json:"start_time"`
	Duration         int                     `json:"duration"`
	HostName         string                  `json:"host_name,omitempty"`
	WaitingRoomMode  models.WaitingRoomMode  `json:"waiting_room_mode,omitempty"`
	HasWaitingRoom   bool                    `json:"has_waiting_room,omitempty"`
	IsRecurring      bool                    `json:"is_recurring,omitempty"`
	RecurringPattern models.RecurringPattern `json:"recurring_pattern,omitempty"`
	RecordingEnabled bool                    `json:"recording_enabled,omitempty"`
	Password         string                  `json:"password,omitempty"`
}

// meetingResponse is a meeting with the password hash stripped.
type meetingResponse struct {
	*models.Meeting
	PasswordHash string `json:"password_hash,omitempty"`
}

func toMeetingResponse(meeting *models.Meeting) meetingResponse {
	return meetingResponse{Meeting: meeting}
}

func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createMeetingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	caller := callerFrom(ctx)
	meeting := &models.Meeting{
		Title:            req.Title,
		Description:      req.Description,
		StartTime:        req.StartTime,
		Duration:         req.Duration,
		HostName:         req.HostName,
		WaitingRoomMode:  req.WaitingRoomMode,
		HasWaitingRoom:   req.HasWaitingRoom,
		IsRecurring:      req.IsRecurring,
		RecurringPattern: req.RecurringPattern,
		RecordingEnabled: req.RecordingEnabled,
	}
	if caller.IsAuthenticated() {
		meeting.HostUID = &caller.UID
		if meeting.HostName == "" {
			meeting.HostName = caller.Name
		}
	}

	created, err := h.meetingService.CreateMeeting(ctx, meeting, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusCreated, toMeetingResponse(created))
}

func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meeting, err := h.meetingService.GetMeeting(ctx, chi.URLParam(r, "uid"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toMeetingResponse(meeting))
}

func (h *MeetingHandler) ListMeetings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	meetings, err := h.meetingService.ListMeetings(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	responses := make([]meetingResponse, 0, len(meetings))
	for _, meeting := range meetings {
		responses = append(responses, toMeetingResponse(meeting))
	}

	writeJSON(ctx, w, http.StatusOK, responses)
}

func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Decode through a raw field map first: the password-clearing contract
	// depends on telling "password": null apart from an absent field.
	var fields map[string]json.RawMessage
	if err := decodeJSON(r, &fields); err != nil {
		writeError(ctx, w, err)
		return
	}

	var update models.MeetingUpdate
	for name, raw := range fields {
		var err error
		switch name {
		case "title":
			err = json.Unmarshal(raw, &update.Title)
		case "description":
			err = json.Unmarshal(raw, &update.Description)
		case "start_time":
			err = json.Unmarshal(raw, &update.StartTime)
		case "duration":
			err = json.Unmarshal(raw, &update.Duration)
		case "waiting_room_mode":
			err = json.Unmarshal(raw, &update.WaitingRoomMode)
		case "has_waiting_room":
			err = json.Unmarshal(raw, &update.HasWaitingRoom)
		case "recurring_pattern":
			err = json.Unmarshal(raw, &update.RecurringPattern)
		case "recording_enabled":
			err = json.Unmarshal(raw, &update.RecordingEnabled)
		case "password":
			update.PasswordSet = true
			err = json.Unmarshal(raw, &update.Password)
		}
		if err != nil {
			writeError(ctx, w, domain.NewValidationError("invalid request body", err))
			return
		}
	}

	updated, err := h.meetingService.UpdateMeeting(ctx, callerFrom(ctx), chi.URLParam(r, "uid"), &update)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, toMeetingResponse(updated))
}

func (h *MeetingHandler) DeleteMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.meetingService.DeleteMeeting(ctx, callerFrom(ctx), chi.URLParam(r, "uid")); err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusNoContent, nil)
}

func (h *MeetingHandler) GetPersonalMeeting(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	personalMeeting, err := h.personalMeetingService.GetOrCreate(ctx, callerFrom(ctx))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, personalMeeting)
}
