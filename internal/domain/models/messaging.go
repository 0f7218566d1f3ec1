// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

// NATS subjects that the meeting access service sends messages about.
const (
	// IndexMeetingSubject is the subject for meeting indexing.
	// The subject is of the form: classlive.index.meeting
	IndexMeetingSubject = "classlive.index.meeting"

	// IndexRecordingSubject is the subject for recording indexing.
	// The subject is of the form: classlive.index.recording
	IndexRecordingSubject = "classlive.index.recording"
)

// NATS wildcard subjects that the meeting access service handles messages about.
const (
	// MeetingsAPIQueue is the queue name for the meetings API subscriptions.
	MeetingsAPIQueue = "classlive.meetings-api.queue"
)

// NATS specific subjects that the meeting access service handles messages about.
const (
	// MeetingGetTitleSubject is the request/reply subject other platform
	// services use to resolve a meeting title from its UID.
	// The subject is of the form: classlive.meetings-api.get_title
	MeetingGetTitleSubject = "classlive.meetings-api.get_title"

	// MeetingDeletedSubject is the subject for meeting deletion events.
	// The subject is of the form: classlive.meetings-api.meeting_deleted
	MeetingDeletedSubject = "classlive.meetings-api.meeting_deleted"
)

// MessageAction is a type for the action of a meeting message.
type MessageAction string

// MessageAction constants for the action of a meeting message.
const (
	// ActionCreated is the action for a resource creation message.
	ActionCreated MessageAction = "created"
	// ActionUpdated is the action for a resource update message.
	ActionUpdated MessageAction = "updated"
	// ActionDeleted is the action for a resource deletion message.
	ActionDeleted MessageAction = "deleted"
)

// MeetingIndexerMessage is a NATS message schema for sending messages related
// to meeting and recording CRUD operations.
type MeetingIndexerMessage struct {
	Action  MessageAction     `json:"action"`
	Headers map[string]string `json:"headers"`
	Data    any               `json:"data"`
	// Tags is a list of tags to be set on the indexed resource for search.
	Tags []string `json:"tags"`
}
