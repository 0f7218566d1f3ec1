// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// Message represents a domain message interface
type Message interface {
	Subject() string
	Data() []byte
	Respond(data []byte) error
	HasReply() bool
}

// MessageHandler defines how the service handles incoming messages
type MessageHandler interface {
	HandleMessage(ctx context.Context, msg Message)
	HandlerReady() bool
}

// MeetingIndexSender handles indexing operations for meetings.
type MeetingIndexSender interface {
	SendIndexMeeting(ctx context.Context, action models.MessageAction, data models.Meeting) error
	SendDeleteIndexMeeting(ctx context.Context, meetingUID string) error
}

// RecordingIndexSender handles indexing operations for recordings.
type RecordingIndexSender interface {
	SendIndexRecording(ctx context.Context, action models.MessageAction, data models.Recording) error
	SendDeleteIndexRecording(ctx context.Context, recordingUID string) error
}

// MeetingDeletedSender announces meeting deletions to the rest of the platform.
type MeetingDeletedSender interface {
	SendMeetingDeleted(ctx context.Context, meetingUID string) error
}

// MessageBuilder is the outbound messaging surface used by the services.
type MessageBuilder interface {
	MeetingIndexSender
	RecordingIndexSender
	MeetingDeletedSender
}
