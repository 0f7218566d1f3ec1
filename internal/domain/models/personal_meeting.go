// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// PersonalMeeting is the stable 1:1 mapping from a user to their
// always-available meeting room. It is created lazily on first access and
// idempotently returned afterwards.
type PersonalMeeting struct {
	UID                 string    `json:"uid"`
	UserUID             string    `json:"user_uid"`
	MeetingUID          string    `json:"meeting_uid"`
	PersonalMeetingCode string    `json:"personal_meeting_code"`
	CreatedAt           time.Time `json:"created_at"`
}
