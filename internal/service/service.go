// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package service

type Service interface {
	ServiceReady() bool
}

const (
	// DefaultOccurrenceCount is how many meetings a recurring series
	// materializes, root included.
	DefaultOccurrenceCount = 12

	// meetingCodeCreateAttempts bounds retries when a generated meeting code
	// collides with an existing one.
	meetingCodeCreateAttempts = 3

	// localRecordingURLPrefix marks recording URLs served from the local
	// capture output directory.
	localRecordingURLPrefix = "/recordings/"
)

// ServiceConfig is the configuration for the Services.
type ServiceConfig struct {
	// OccurrenceCount is how many meetings a recurring series expands to,
	// root included. Zero means DefaultOccurrenceCount.
	OccurrenceCount int
	// RecordingOutputDir is the directory local-mode captures are written to.
	RecordingOutputDir string
}

// occurrenceCount returns the configured series size.
func (c ServiceConfig) occurrenceCount() int {
	if c.OccurrenceCount <= 0 {
		return DefaultOccurrenceCount
	}
	return c.OccurrenceCount
}
