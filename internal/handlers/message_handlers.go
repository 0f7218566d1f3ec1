// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package handlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/internal/logging"
	"github.com/classlive/meeting-access-service/internal/service"
)

// MessageHandler handles inbound NATS messages for the meetings API.
type MessageHandler struct {
	meetingService *service.MeetingService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(meetingService *service.MeetingService) *MessageHandler {
	return &MessageHandler{meetingService: meetingService}
}

func (h *MessageHandler) HandlerReady() bool {
	return h.meetingService.ServiceReady()
}

// HandleMessage implements domain.MessageHandler interface
func (h *MessageHandler) HandleMessage(ctx context.Context, msg domain.Message) {
	subject := msg.Subject()
	ctx = logging.AppendCtx(ctx, slog.String("subject", subject))
	slog.DebugContext(ctx, "handling NATS message")

	handlers := map[string]func(ctx context.Context, msg domain.Message) ([]byte, error){
		models.MeetingGetTitleSubject: h.HandleMeetingGetTitle,
	}

	handler, ok := handlers[subject]
	if !ok {
		slog.WarnContext(ctx, "unknown subject")
		h.respond(ctx, msg, nil)
		return
	}

	response, err := handler(ctx, msg)
	if err != nil {
		slog.ErrorContext(ctx, "error handling message", logging.ErrKey, err)
		h.respond(ctx, msg, nil)
		return
	}

	h.respond(ctx, msg, response)
}

func (h *MessageHandler) respond(ctx context.Context, msg domain.Message, response []byte) {
	if !msg.HasReply() {
		return
	}
	if err := msg.Respond(response); err != nil {
		slog.ErrorContext(ctx, "error responding to NATS message", logging.ErrKey, err)
	}
}

// HandleMeetingGetTitle resolves a meeting UID to its title for other
// platform services.
func (h *MessageHandler) HandleMeetingGetTitle(ctx context.Context, msg domain.Message) ([]byte, error) {
	meetingUID := string(msg.Data())
	ctx = logging.AppendCtx(ctx, slog.String("meeting_uid", meetingUID))

	if _, err := uuid.Parse(meetingUID); err != nil {
		slog.WarnContext(ctx, "invalid meeting UID", logging.ErrKey, err)
		return nil, fmt.Errorf("invalid meeting UID: %w", err)
	}

	title, err := h.meetingService.GetMeetingTitle(ctx, meetingUID)
	if err != nil {
		return nil, err
	}

	return []byte(title), nil
}
