// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// WaitingRoomMode controls how non-host join requests are admitted.
type WaitingRoomMode string

const (
	// WaitingRoomModeAuto admits every join request immediately.
	WaitingRoomModeAuto WaitingRoomMode = "auto"
	// WaitingRoomModeAuthAuto admits authenticated users immediately and
	// queues guests in the waiting room.
	WaitingRoomModeAuthAuto WaitingRoomMode = "auth-auto"
	// WaitingRoomModeManual queues every non-host join request for host approval.
	WaitingRoomModeManual WaitingRoomMode = "manual"
)

// IsValid reports whether the mode is one of the closed set.
func (m WaitingRoomMode) IsValid() bool {
	switch m {
	case WaitingRoomModeAuto, WaitingRoomModeAuthAuto, WaitingRoomModeManual:
		return true
	}
	return false
}

// RecurringPattern is the cadence of a recurring meeting series.
type RecurringPattern string

const (
	RecurringPatternDaily    RecurringPattern = "daily"
	RecurringPatternWeekly   RecurringPattern = "weekly"
	RecurringPatternBiweekly RecurringPattern = "biweekly"
	RecurringPatternMonthly  RecurringPattern = "monthly"
)

// IntervalDays returns the day interval between instances for the pattern.
// Unknown patterns behave like weekly.
func (p RecurringPattern) IntervalDays() int {
	switch p {
	case RecurringPatternDaily:
		return 1
	case RecurringPatternWeekly:
		return 7
	case RecurringPatternBiweekly:
		return 14
	case RecurringPatternMonthly:
		return 30
	default:
		return 7
	}
}

// Meeting is the key-value store representation of a schedulable room.
type Meeting struct {
	UID                 string           `json:"uid"`
	Title               string           `json:"title"`
	Description         string           `json:"description,omitempty"`
	StartTime           time.Time        `json:"start_time"`
	Duration            int              `json:"duration"`
	HostUID             *string          `json:"host_uid,omitempty"`
	HostName            string           `json:"host_name,omitempty"`
	MeetingCode         string           `json:"meeting_code"`
	WaitingRoomMode     WaitingRoomMode  `json:"waiting_room_mode"`
	HasWaitingRoom      bool             `json:"has_waiting_room"`
	IsRecurring         bool             `json:"is_recurring"`
	RecurringPattern    RecurringPattern `json:"recurring_pattern,omitempty"`
	IsPasswordProtected bool             `json:"is_password_protected"`
	PasswordHash        string           `json:"password_hash,omitempty"`
	RecordingEnabled    bool             `json:"recording_enabled"`
	CreatedAt           *time.Time       `json:"created_at,omitempty"`
	UpdatedAt           *time.Time       `json:"updated_at,omitempty"`
}

// MeetingUpdate is a partial update of a meeting. Nil fields are left
// unchanged. Password is the one field where "present but null" matters:
// PasswordSet distinguishes an absent password field from an explicit null,
// which clears the password and turns protection off.
type MeetingUpdate struct {
	Title            *string           `json:"title,omitempty"`
	Description      *string           `json:"description,omitempty"`
	StartTime        *time.Time        `json:"start_time,omitempty"`
	Duration         *int              `json:"duration,omitempty"`
	WaitingRoomMode  *WaitingRoomMode  `json:"waiting_room_mode,omitempty"`
	HasWaitingRoom   *bool             `json:"has_waiting_room,omitempty"`
	RecurringPattern *RecurringPattern `json:"recurring_pattern,omitempty"`
	RecordingEnabled *bool             `json:"recording_enabled,omitempty"`
	Password         *string           `json:"password,omitempty"`
	PasswordSet      bool              `json:"-"`
}

// Tags returns the searchable tags for a meeting, used by indexing messages.
func (m *Meeting) Tags() []string {
	tags := []string{}
	if m == nil {
		return tags
	}
	if m.UID != "" {
		tags = append(tags, m.UID, "meeting_uid:"+m.UID)
	}
	if m.MeetingCode != "" {
		tags = append(tags, "meeting_code:"+m.MeetingCode)
	}
	if m.Title != "" {
		tags = append(tags, "title:"+m.Title)
	}
	if m.HostUID != nil && *m.HostUID != "" {
		tags = append(tags, "host_uid:"+*m.HostUID)
	}
	return tags
}
