// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package domain

import "time"

// Clock is an injectable time source so scheduling and recurrence math can be
// fixed deterministically in tests.
type Clock interface {
	Now() time.Time
}

// RealClock is the production clock.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	Time time.Time
}

func (c FixedClock) Now() time.Time {
	return c.Time
}
