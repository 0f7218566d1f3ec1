// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"
)

// CaptureDestination is where the capture service should write the composite
// recording file.
type CaptureDestination struct {
	// LocalPath is the absolute file path for local-mode captures.
	LocalPath string
	// ObjectKey is the service-managed bucket key for cloud-mode captures.
	ObjectKey string
}

// CaptureSession is the handle returned by the capture service when a
// composite capture begins.
type CaptureSession struct {
	EgressID string
}

// CaptureClient is the narrow interface to the external capture/egress
// service that records a room's audio/video. Implementations must return
// ErrCaptureNotConfigured when no endpoint is configured, so callers can
// surface a distinct service-unavailable condition.
type CaptureClient interface {
	// IsConfigured reports whether the client has an endpoint and credentials.
	IsConfigured() bool

	// IsLocalMode reports whether the configured endpoint is a local/dev
	// capture service writing to the local filesystem.
	IsLocalMode() bool

	// StartCompositeCapture begins a composite room capture to the given
	// destination and returns the capture session handle.
	StartCompositeCapture(ctx context.Context, roomName string, dest CaptureDestination) (*CaptureSession, error)

	// StopCapture requests the capture service to stop the session.
	StopCapture(ctx context.Context, egressID string) error
}
