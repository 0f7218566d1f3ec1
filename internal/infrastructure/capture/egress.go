// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package capture

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/classlive/meeting-access-service/internal/domain"
)

// startEgressRequest is the request body for starting a composite room capture.
// Exactly one of FilePath and ObjectKey is set depending on the capture mode.
type startEgressRequest struct {
	RoomName  string `json:"room_name"`
	FilePath  string `json:"file_path,omitempty"`
	ObjectKey string `json:"object_key,omitempty"`
}

// startEgressResponse is the response body for a started capture session.
type startEgressResponse struct {
	EgressID string `json:"egress_id"`
}

// stopEgressRequest is the request body for stopping a capture session.
type stopEgressRequest struct {
	EgressID string `json:"egress_id"`
}

// StartCompositeCapture begins a composite room capture to the given destination.
func (c *Client) StartCompositeCapture(ctx context.Context, roomName string, dest domain.CaptureDestination) (*domain.CaptureSession, error) {
	request := startEgressRequest{
		RoomName:  roomName,
		FilePath:  dest.LocalPath,
		ObjectKey: dest.ObjectKey,
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/egress/start", request)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, parseErrorResponse(resp.StatusCode, body)
	}

	var egress startEgressResponse
	if err := json.Unmarshal(body, &egress); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response body: %w", err)
	}
	if egress.EgressID == "" {
		return nil, fmt.Errorf("capture service returned no egress ID")
	}

	return &domain.CaptureSession{EgressID: egress.EgressID}, nil
}

// StopCapture requests the capture service to stop the session.
func (c *Client) StopCapture(ctx context.Context, egressID string) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/egress/stop", stopEgressRequest{EgressID: egressID})
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		body, _ := io.ReadAll(resp.Body)
		return parseErrorResponse(resp.StatusCode, body)
	}

	return nil
}

// Compile-time interface check
var _ domain.CaptureClient = (*Client)(nil)
