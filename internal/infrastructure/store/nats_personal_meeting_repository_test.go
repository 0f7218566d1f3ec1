// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"testing"
	"time"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

func TestNatsPersonalMeetingRepository_CreateAndGet(t *testing.T) {
	mappings := newMockNatsKeyValue()
	repo := NewNatsPersonalMeetingRepository(mappings)

	mapping := &models.PersonalMeeting{
		UID:                 "personal-1",
		UserUID:             "user-abc",
		MeetingUID:          "meeting-123",
		PersonalMeetingCode: "ABCD-EFGH-JKMN",
		CreatedAt:           time.Now(),
	}

	if err := repo.Create(context.Background(), mapping); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.GetByUser(context.Background(), "user-abc")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.MeetingUID != "meeting-123" {
		t.Errorf("expected MeetingUID meeting-123, got %s", got.MeetingUID)
	}
}

func TestNatsPersonalMeetingRepository_Create_Conflict(t *testing.T) {
	mappings := newMockNatsKeyValue()
	repo := NewNatsPersonalMeetingRepository(mappings)

	first := &models.PersonalMeeting{UID: "personal-1", UserUID: "user-abc", MeetingUID: "meeting-123"}
	if err := repo.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A user has at most one personal meeting.
	second := &models.PersonalMeeting{UID: "personal-2", UserUID: "user-abc", MeetingUID: "meeting-456"}
	err := repo.Create(context.Background(), second)
	if err == nil {
		t.Fatal("expected conflict error but got nil")
	}
	if domain.GetErrorType(err) != domain.ErrorTypeConflict {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestNatsPersonalMeetingRepository_DeleteByMeeting(t *testing.T) {
	mappings := newMockNatsKeyValue()
	repo := NewNatsPersonalMeetingRepository(mappings)

	for _, m := range []*models.PersonalMeeting{
		{UID: "personal-1", UserUID: "user-abc", MeetingUID: "meeting-123"},
		{UID: "personal-2", UserUID: "user-def", MeetingUID: "meeting-456"},
	} {
		if err := repo.Create(context.Background(), m); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := repo.DeleteByMeeting(context.Background(), "meeting-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, exists := mappings.data["personal/user-abc"]; exists {
		t.Error("expected mapping to be deleted")
	}
	if _, exists := mappings.data["personal/user-def"]; !exists {
		t.Error("expected other user's mapping to survive")
	}
}
