// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package models

// CallerRole is the platform role of a verified caller.
type CallerRole string

const (
	CallerRoleUser  CallerRole = "user"
	CallerRoleAdmin CallerRole = "admin"
)

// IsValid reports whether the role is one of the closed set.
func (r CallerRole) IsValid() bool {
	switch r {
	case CallerRoleUser, CallerRoleAdmin:
		return true
	}
	return false
}

// Caller is the verified identity attached to a request by the auth
// middleware. A nil Caller is an unauthenticated guest.
type Caller struct {
	UID  string     `json:"uid"`
	Name string     `json:"name,omitempty"`
	Role CallerRole `json:"role"`
}

// IsAuthenticated reports whether the caller is a non-guest.
func (c *Caller) IsAuthenticated() bool {
	return c != nil && c.UID != ""
}

// IsAdmin reports whether the caller has the platform admin role.
func (c *Caller) IsAdmin() bool {
	return c != nil && c.Role == CallerRoleAdmin
}

// IsHostOrAdmin is the shared authorization predicate: false for guests,
// true for platform admins, otherwise true iff the meeting has a host and
// the caller is that host. It gates waiting-list viewing, approve/deny,
// meeting update/delete, and all recording operations.
func IsHostOrAdmin(meeting *Meeting, caller *Caller) bool {
	if meeting == nil || !caller.IsAuthenticated() {
		return false
	}
	if caller.IsAdmin() {
		return true
	}
	return meeting.HostUID != nil && *meeting.HostUID == caller.UID
}
