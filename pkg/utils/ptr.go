// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package utils

// StringPtr converts a string to a pointer to a string.
func StringPtr(s string) *string {
	return &s
}
