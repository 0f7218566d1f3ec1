// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package store

import (
	"fmt"
	"strings"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixMeeting         = "meeting"
	KeyPrefixWaitingRequest  = "request"
	KeyPrefixRecording       = "recording"
	KeyPrefixPersonalMeeting = "personal"

	// Index prefixes
	KeyPrefixIndex       = "index"
	KeyPrefixIndexCode   = "code"
	KeyPrefixIndexActive = "active"
)

// KeyBuilder provides utilities for building consistent NATS KV keys
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with an optional prefix
func NewKeyBuilder(prefix string) *KeyBuilder {
	return &KeyBuilder{
		prefix: prefix,
	}
}

// EntityKey builds a key for an entity (e.g., "meeting/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s", entityType, uid))
}

// ScopedEntityKey builds a key for an entity scoped under a parent
// (e.g., "request/meeting-uid/request-uid"), so a parent's children can be
// listed with a prefix scan.
func (kb *KeyBuilder) ScopedEntityKey(entityType, parentUID, uid string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s/%s", entityType, parentUID, uid))
}

// IndexKey builds a key for an index (e.g., "index/code/ABCD-EFGH-JKMN")
func (kb *KeyBuilder) IndexKey(indexType, indexValue string) string {
	return kb.applyPrefix(fmt.Sprintf("%s/%s/%s", KeyPrefixIndex, indexType, indexValue))
}

// CompoundKey builds a compound key from multiple parts
func (kb *KeyBuilder) CompoundKey(parts ...string) string {
	return kb.applyPrefix(strings.Join(parts, "/"))
}

// applyPrefix adds the builder's prefix if one is set
func (kb *KeyBuilder) applyPrefix(key string) string {
	if kb.prefix == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", kb.prefix, key)
}
