// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// RecordingStatus is the lifecycle state of a capture session.
type RecordingStatus string

const (
	RecordingStatusRecording RecordingStatus = "recording"
	RecordingStatusCompleted RecordingStatus = "completed"
	RecordingStatusFailed    RecordingStatus = "failed"
)

// IsValid reports whether the status is one of the closed set.
func (s RecordingStatus) IsValid() bool {
	switch s {
	case RecordingStatusRecording, RecordingStatusCompleted, RecordingStatusFailed:
		return true
	}
	return false
}

// Recording is one server-side capture session for a meeting room.
// EgressID is the capture service's session handle; it is empty when the
// session handle was never obtained. At most one Recording with status
// "recording" may exist per meeting at any time.
type Recording struct {
	UID          string          `json:"uid"`
	MeetingUID   string          `json:"meeting_uid"`
	EgressID     string          `json:"egress_id,omitempty"`
	Status       RecordingStatus `json:"status"`
	StartedAt    time.Time       `json:"started_at"`
	StoppedAt    *time.Time      `json:"stopped_at,omitempty"`
	RecordingURL string          `json:"recording_url,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Tags returns the searchable tags for a recording, used by indexing messages.
func (r *Recording) Tags() []string {
	tags := []string{}
	if r == nil {
		return tags
	}
	if r.UID != "" {
		tags = append(tags, r.UID, "recording_uid:"+r.UID)
	}
	if r.MeetingUID != "" {
		tags = append(tags, "meeting_uid:"+r.MeetingUID)
	}
	return tags
}
