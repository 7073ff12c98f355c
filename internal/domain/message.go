package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	MessageTypeText = "text"
	MessageTypeFile = "file"
)

type Message struct {
	ID          uuid.UUID  `json:"id"`
	SenderID    uuid.UUID  `json:"sender_id"`
	RecipientID *uuid.UUID `json:"recipient_id,omitempty"` // nil for channel messages
	Content     *string    `json:"content,omitempty"`
	FileURL     *string    `json:"file_url,omitempty"`
	Type        string     `json:"type"`
	EditedAt    *time.Time `json:"edited_at,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	// Joined fields
	Sender    *UserRef `json:"sender,omitempty"`
	Recipient *UserRef `json:"recipient,omitempty"`
}

// Direct reports whether the message has one-to-one semantics. A message
// without a recipient belongs to a channel's message sequence instead.
func (m *Message) Direct() bool {
	return m.RecipientID != nil
}
