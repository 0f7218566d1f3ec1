// Copyright ClassLive and each contributor to the ClassLive platform.
// SPDX-License-Identifier: MIT

package messaging

import (
	"github.com/nats-io/nats.go"

	"github.com/classlive/meeting-access-service/internal/domain"
)

// NatsMessage adapts a NATS message to the domain Message interface.
type NatsMessage struct {
	msg *nats.Msg
}

// NewNatsMessage wraps an inbound NATS message.
func NewNatsMessage(msg *nats.Msg) *NatsMessage {
	return &NatsMessage{msg: msg}
}

func (m *NatsMessage) Subject() string {
	return m.msg.Subject
}

func (m *NatsMessage) Data() []byte {
	return m.msg.Data
}

func (m *NatsMessage) HasReply() bool {
	return m.msg.Reply != ""
}

func (m *NatsMessage) Respond(data []byte) error {
	return m.msg.Respond(data)
}

// Compile-time interface check
var _ domain.Message = (*NatsMessage)(nil)
