package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/google/uuid"
)

// Event names - Client → Server
const (
	EventSendDirectMessage  = "send-direct-message"
	EventSendChannelMessage = "send-channel-message"
	EventDeleteMessage      = "delete-message"
	EventEditMessage        = "edit-message"
	EventPinMessage         = "pin-message"
	EventUnpinMessage       = "unpin-message"
	EventChannelCreated     = "channel-created-notify"
)

// Event names - Server → Client
const (
	EventReceiveDirectMessage  = "receive-direct-message"
	EventReceiveChannelMessage = "receive-channel-message"
	EventMessageDeleted        = "message-deleted"
	EventMessageEdited         = "message-edited"
	EventMessagePinned         = "message-pinned"
	EventMessageUnpinned       = "message-unpinned"
	EventNewChannelAdded       = "new-channel-added"
	EventDMClosed              = "dm-closed"
	EventError                 = "error"
)

// ErrMalformedEvent is returned when an inbound payload is missing a
// required field. The event is rejected before any store mutation.
var ErrMalformedEvent = errors.New("malformed event payload")

// Event is the wire envelope for all WebSocket traffic.
type Event struct {
	Name      string          `json:"event"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// NewEvent builds a server→client event with the current timestamp.
func NewEvent(name string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Name:      name,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}

// InboundEvent is the closed set of events the router dispatches on. Each
// variant carries an already-validated payload.
type InboundEvent interface {
	inbound()
}

type DirectMessageEvent struct {
	Sender    uuid.UUID `json:"sender"`
	Recipient uuid.UUID `json:"recipient"`
	Content   *string   `json:"content,omitempty"`
	Type      string    `json:"message_type"`
	FileURL   *string   `json:"file_url,omitempty"`
}

type ChannelMessageEvent struct {
	ChannelID uuid.UUID `json:"channel_id"`
	Sender    uuid.UUID `json:"sender"`
	Content   *string   `json:"content,omitempty"`
	Type      string    `json:"message_type"`
	FileURL   *string   `json:"file_url,omitempty"`
}

type DeleteMessageEvent struct {
	MessageID uuid.UUID  `json:"message_id"`
	Sender    uuid.UUID  `json:"sender"`
	Recipient *uuid.UUID `json:"recipient,omitempty"`
	ChannelID *uuid.UUID `json:"channel_id,omitempty"`
}

type EditMessageEvent struct {
	UpdatedMessage domain.Message `json:"updated_message"`
	Recipient      *uuid.UUID     `json:"recipient,omitempty"`
	ChannelID      *uuid.UUID     `json:"channel_id,omitempty"`
}

type PinMessageEvent struct {
	ChannelID     uuid.UUID      `json:"channel_id"`
	PinnedMessage domain.Message `json:"pinned_message"`
}

type UnpinMessageEvent struct {
	ChannelID uuid.UUID `json:"channel_id"`
	MessageID uuid.UUID `json:"message_id"`
}

type ChannelCreatedEvent struct {
	Channel domain.Channel `json:"channel"`
}

func (*DirectMessageEvent) inbound()  {}
func (*ChannelMessageEvent) inbound() {}
func (*DeleteMessageEvent) inbound()  {}
func (*EditMessageEvent) inbound()    {}
func (*PinMessageEvent) inbound()     {}
func (*UnpinMessageEvent) inbound()   {}
func (*ChannelCreatedEvent) inbound() {}

// --- Server → Client payloads ---

// ChannelMessagePayload annotates a channel message with its channel id so
// clients can route it without a second lookup.
type ChannelMessagePayload struct {
	domain.Message
	ChannelID uuid.UUID `json:"channel_id"`
}

type MessageDeletedPayload struct {
	MessageID uuid.UUID `json:"message_id"`
}

type MessageEditedPayload struct {
	UpdatedMessage domain.Message `json:"updated_message"`
}

type MessagePinnedPayload struct {
	PinnedMessage domain.Message `json:"pinned_message"`
}

type MessageUnpinnedPayload struct {
	MessageID uuid.UUID `json:"message_id"`
}

type NewChannelPayload struct {
	Channel domain.Channel `json:"channel"`
}

type DMClosedPayload struct {
	RecipientID uuid.UUID `json:"recipient_id"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeInbound parses an envelope into its typed inbound event, rejecting
// unknown names and payloads with missing required fields.
func DecodeInbound(env *Event) (InboundEvent, error) {
	switch env.Name {
	case EventSendDirectMessage:
		var e DirectMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.Sender == uuid.Nil || e.Recipient == uuid.Nil || !validMessageType(e.Type) {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventSendChannelMessage:
		var e ChannelMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.ChannelID == uuid.Nil || e.Sender == uuid.Nil || !validMessageType(e.Type) {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventDeleteMessage:
		var e DeleteMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.MessageID == uuid.Nil || e.Sender == uuid.Nil {
			return nil, ErrMalformedEvent
		}
		if e.Recipient == nil && e.ChannelID == nil {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventEditMessage:
		var e EditMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.UpdatedMessage.ID == uuid.Nil || e.UpdatedMessage.SenderID == uuid.Nil {
			return nil, ErrMalformedEvent
		}
		if e.Recipient == nil && e.ChannelID == nil {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventPinMessage:
		var e PinMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.ChannelID == uuid.Nil || e.PinnedMessage.ID == uuid.Nil {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventUnpinMessage:
		var e UnpinMessageEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.ChannelID == uuid.Nil || e.MessageID == uuid.Nil {
			return nil, ErrMalformedEvent
		}
		return &e, nil

	case EventChannelCreated:
		var e ChannelCreatedEvent
		if err := json.Unmarshal(env.Payload, &e); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if e.Channel.ID == uuid.Nil {
			return nil, ErrMalformedEvent
		}
		return &e, nil
	}

	return nil, fmt.Errorf("unknown event %q", env.Name)
}

func validMessageType(t string) bool {
	return t == domain.MessageTypeText || t == domain.MessageTypeFile
}
