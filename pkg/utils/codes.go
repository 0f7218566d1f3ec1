// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package utils

import (
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// meetingCodeAlphabet excludes characters that are easy to confuse when a
// code is read aloud or typed from a screen share (0/O, 1/I/L).
const meetingCodeAlphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

const (
	meetingCodeSegments   = 3
	meetingCodeSegmentLen = 4
)

// GenerateMeetingCode returns a human-shareable meeting code of the form
// XXXX-XXXX-XXXX. Uniqueness is enforced by the store when the code is
// claimed, not here.
func GenerateMeetingCode() (string, error) {
	segments := make([]string, 0, meetingCodeSegments)
	for range meetingCodeSegments {
		segment, err := gonanoid.Generate(meetingCodeAlphabet, meetingCodeSegmentLen)
		if err != nil {
			return "", err
		}
		segments = append(segments, segment)
	}
	return strings.Join(segments, "-"), nil
}

// IsValidMeetingCode reports whether s has the shape of a generated meeting
// code. It checks structure only; existence is a store lookup.
func IsValidMeetingCode(s string) bool {
	segments := strings.Split(s, "-")
	if len(segments) != meetingCodeSegments {
		return false
	}
	for _, segment := range segments {
		if len(segment) != meetingCodeSegmentLen {
			return false
		}
		for _, r := range segment {
			if !strings.ContainsRune(meetingCodeAlphabet, r) {
				return false
			}
		}
	}
	return true
}
