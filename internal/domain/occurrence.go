// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

import (
	"time"

	"github.com/classlive/meeting-access-service/internal/domain/models"
)

// OccurrenceService defines the interface for calculating the concrete start
// times of a recurring meeting series.
type OccurrenceService interface {
	// InstanceStartTimes returns the start times of a recurring series,
	// root included, limited to count occurrences. The spacing between
	// occurrences follows the meeting's recurring pattern in calendar days.
	InstanceStartTimes(meeting *models.Meeting, count int) []time.Time
}
