// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/classlive/meeting-access-service/internal/domain"
	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// OccurrenceService implements the domain.OccurrenceService interface
type OccurrenceService struct{}

// NewOccurrenceService creates a new OccurrenceService
func NewOccurrenceService() *OccurrenceService {
	return &OccurrenceService{}
}

// InstanceStartTimes returns the start times of a recurring series, root
// included, limited to count occurrences. Instances are spaced by the
// pattern's day interval using calendar day arithmetic, so shifts across DST
// boundaries follow day boundaries rather than elapsed seconds.
func (s *OccurrenceService) InstanceStartTimes(meeting *models.Meeting, count int) []time.Time {
	if meeting == nil || count <= 0 {
		return nil
	}

	if !meeting.IsRecurring {
		return []time.Time{meeting.StartTime}
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:     rrule.DAILY,
		Interval: meeting.RecurringPattern.IntervalDays(),
		Count:    count,
		Dtstart:  meeting.StartTime,
	})
	if err != nil {
		// An invalid rule degenerates to just the root occurrence.
		return []time.Time{meeting.StartTime}
	}

	return rule.All()
}

// Compile-time interface check
var _ domain.OccurrenceService = (*OccurrenceService)(nil)
