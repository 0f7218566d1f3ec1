// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
	"github.com/classlive/meeting-access-service/pkg/utils"
)

func TestNatsWaitingRequestRepository_CreateAndGet(t *testing.T) {
	requests := newMockNatsKeyValue()
	repo := NewNatsWaitingRequestRepository(requests)

	request := &models.WaitingRequest{
		UID:        "request-1",
		MeetingUID: "meeting-123",
		Name:       "Alice",
		UserUID:    utils.StringPtr("user-abc"),
		Identity:   "user-user-abc",
		Status:     models.WaitingRequestStatusPending,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := repo.Create(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, exists := requests.data["request/meeting-123/request-1"]; !exists {
		t.Fatal("expected request to be stored under its meeting scope")
	}

	got, err := repo.Get(context.Background(), "meeting-123", "request-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Identity != request.Identity {
		t.Errorf("expected Identity %s, got %s", request.Identity, got.Identity)
	}
	if got.Status != models.WaitingRequestStatusPending {
		t.Errorf("expected status pending, got %s", got.Status)
	}
}

func TestNatsWaitingRequestRepository_Get_NotFound(t *testing.T) {
	requests := newMockNatsKeyValue()
	repo := NewNatsWaitingRequestRepository(requests)

	_, err := repo.Get(context.Background(), "meeting-123", "non-existent")
	if !errors.Is(err, domain.ErrWaitingRequestNotFound) {
		t.Errorf("expected ErrWaitingRequestNotFound, got %v", err)
	}
}

func TestNatsWaitingRequestRepository_Update(t *testing.T) {
	requests := newMockNatsKeyValue()
	repo := NewNatsWaitingRequestRepository(requests)

	request := &models.WaitingRequest{
		UID:        "request-1",
		MeetingUID: "meeting-123",
		Name:       "Alice",
		Identity:   "guest-3mJr7A",
		Status:     models.WaitingRequestStatusPending,
	}
	if err := repo.Create(context.Background(), request); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, revision, err := repo.GetWithRevision(context.Background(), "meeting-123", "request-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got.Status = models.WaitingRequestStatusApproved
	if err := repo.Update(context.Background(), got, revision); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := repo.Get(context.Background(), "meeting-123", "request-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != models.WaitingRequestStatusApproved {
		t.Errorf("expected status approved, got %s", updated.Status)
	}
	// Identity is assigned once and must survive status transitions.
	if updated.Identity != "guest-3mJr7A" {
		t.Errorf("expected identity to be unchanged, got %s", updated.Identity)
	}
}

func TestNatsWaitingRequestRepository_ListByMeeting(t *testing.T) {
	requests := newMockNatsKeyValue()
	repo := NewNatsWaitingRequestRepository(requests)

	for _, r := range []*models.WaitingRequest{
		{UID: "request-1", MeetingUID: "meeting-123", Name: "Alice", Status: models.WaitingRequestStatusPending},
		{UID: "request-2", MeetingUID: "meeting-123", Name: "Bob", Status: models.WaitingRequestStatusApproved},
		{UID: "request-3", MeetingUID: "meeting-456", Name: "Carol", Status: models.WaitingRequestStatusPending},
	} {
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	list, err := repo.ListByMeeting(context.Background(), "meeting-123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("expected 2 requests, got %d", len(list))
	}
}

func TestNatsWaitingRequestRepository_DeleteByMeeting(t *testing.T) {
	requests := newMockNatsKeyValue()
	repo := NewNatsWaitingRequestRepository(requests)

	for _, r := range []*models.WaitingRequest{
		{UID: "request-1", MeetingUID: "meeting-123", Name: "Alice", Status: models.WaitingRequestStatusPending},
		{UID: "request-2", MeetingUID: "meeting-456", Name: "Bob", Status: models.WaitingRequestStatusPending},
	} {
		if err := repo.Create(context.Background(), r); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if err := repo.DeleteByMeeting(context.Background(), "meeting-123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, exists := requests.data["request/meeting-123/request-1"]; exists {
		t.Error("expected cascade to delete requests")
	}
	if _, exists := requests.data["request/meeting-456/request-2"]; !exists {
		t.Error("expected other meeting's requests to survive")
	}
}
