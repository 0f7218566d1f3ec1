// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

import (
	"time"
)

// WaitingRequestStatus is the admission state of a waiting-room request.
type WaitingRequestStatus string

const (
	WaitingRequestStatusPending  WaitingRequestStatus = "pending"
	WaitingRequestStatusApproved WaitingRequestStatus = "approved"
	WaitingRequestStatusDenied   WaitingRequestStatus = "denied"
)

// IsValid reports whether the status is one of the closed set.
func (s WaitingRequestStatus) IsValid() bool {
	switch s {
	case WaitingRequestStatusPending, WaitingRequestStatusApproved, WaitingRequestStatusDenied:
		return true
	}
	return false
}

// WaitingRequest is one pending or resolved admission attempt for a meeting.
// Identity is assigned once at creation and never changes across status
// transitions, so a credential can be minted for the same participant on any
// poll that observes the approved status.
type WaitingRequest struct {
	UID        string               `json:"uid"`
	MeetingUID string               `json:"meeting_uid"`
	Name       string               `json:"name"`
	UserUID    *string              `json:"user_uid,omitempty"`
	Identity   string               `json:"identity"`
	Status     WaitingRequestStatus `json:"status"`
	CreatedAt  time.Time            `json:"created_at"`
	UpdatedAt  time.Time            `json:"updated_at"`
}
