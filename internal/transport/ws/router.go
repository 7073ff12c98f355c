package ws

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrChannelNotFound   = errors.New("channel not found")
)

// The router's view of the durable store. Narrow on purpose: these are the
// only queries and commands the fan-out paths need, and the Get methods must
// return entities with display fields already resolved.
type (
	UserStore interface {
		GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	}

	MessageStore interface {
		Create(ctx context.Context, msg *domain.Message) error
		GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	}

	ChannelStore interface {
		AppendMessage(ctx context.Context, channelID, messageID uuid.UUID) error
		GetWithMembers(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	}
)

// Router turns inbound events into store mutations plus deliveries to the
// sessions that must see the result. Store writes always happen before any
// delivery, so a store failure produces zero partial broadcasts.
type Router struct {
	registry *Registry
	users    UserStore
	messages MessageStore
	channels ChannelStore
}

func NewRouter(registry *Registry, users UserStore, messages MessageStore, channels ChannelStore) *Router {
	return &Router{
		registry: registry,
		users:    users,
		messages: messages,
		channels: channels,
	}
}

// Dispatch routes a single inbound event. The set of variants is closed;
// anything else is a programming error.
func (rt *Router) Dispatch(ctx context.Context, ev InboundEvent) error {
	switch e := ev.(type) {
	case *DirectMessageEvent:
		return rt.sendDirectMessage(ctx, e)
	case *ChannelMessageEvent:
		return rt.sendChannelMessage(ctx, e)
	case *DeleteMessageEvent:
		return rt.deleteMessage(ctx, e)
	case *EditMessageEvent:
		return rt.editMessage(ctx, e)
	case *PinMessageEvent:
		return rt.pinMessage(ctx, e)
	case *UnpinMessageEvent:
		return rt.unpinMessage(ctx, e)
	case *ChannelCreatedEvent:
		return rt.channelCreated(e)
	default:
		return fmt.Errorf("unhandled inbound event %T", ev)
	}
}

func (rt *Router) sendDirectMessage(ctx context.Context, e *DirectMessageEvent) error {
	recipient, err := rt.users.GetByID(ctx, e.Recipient)
	if err != nil {
		return fmt.Errorf("loading recipient: %w", err)
	}
	if recipient == nil {
		return ErrRecipientNotFound
	}

	// Policy gate, not an error: the message is suppressed and only the
	// sender learns about it.
	if recipient.DMClosed {
		evt, err := NewEvent(EventDMClosed, DMClosedPayload{RecipientID: e.Recipient})
		if err != nil {
			return err
		}
		rt.deliver(e.Sender, evt)
		return nil
	}

	msg := &domain.Message{
		ID:          uuid.New(),
		SenderID:    e.Sender,
		RecipientID: &e.Recipient,
		Content:     e.Content,
		FileURL:     e.FileURL,
		Type:        e.Type,
		Timestamp:   time.Now(),
	}
	if err := rt.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("creating message: %w", err)
	}

	full, err := rt.messages.GetByID(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("loading created message: %w", err)
	}

	evt, err := NewEvent(EventReceiveDirectMessage, full)
	if err != nil {
		return err
	}

	rt.deliver(e.Recipient, evt)
	// Echo to the sender so their other views confirm the send.
	rt.deliver(e.Sender, evt)
	return nil
}

func (rt *Router) sendChannelMessage(ctx context.Context, e *ChannelMessageEvent) error {
	msg := &domain.Message{
		ID:        uuid.New(),
		SenderID:  e.Sender,
		Content:   e.Content,
		FileURL:   e.FileURL,
		Type:      e.Type,
		Timestamp: time.Now(),
	}
	if err := rt.messages.Create(ctx, msg); err != nil {
		return fmt.Errorf("creating channel message: %w", err)
	}

	full, err := rt.messages.GetByID(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("loading created message: %w", err)
	}

	if err := rt.channels.AppendMessage(ctx, e.ChannelID, msg.ID); err != nil {
		return fmt.Errorf("appending message to channel: %w", err)
	}

	ch, err := rt.channels.GetWithMembers(ctx, e.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}

	evt, err := NewEvent(EventReceiveChannelMessage, ChannelMessagePayload{
		Message:   *full,
		ChannelID: ch.ID,
	})
	if err != nil {
		return err
	}

	rt.fanOut(ch, evt)
	return nil
}

// deleteMessage and editMessage are delivery only: the store mutation already
// happened through the authorized HTTP path before the client emits these.
func (rt *Router) deleteMessage(ctx context.Context, e *DeleteMessageEvent) error {
	evt, err := NewEvent(EventMessageDeleted, MessageDeletedPayload{MessageID: e.MessageID})
	if err != nil {
		return err
	}

	if e.Recipient != nil {
		rt.deliver(*e.Recipient, evt)
		rt.deliver(e.Sender, evt)
		return nil
	}
	if e.ChannelID == nil {
		return ErrMalformedEvent
	}

	ch, err := rt.channels.GetWithMembers(ctx, *e.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}
	rt.fanOut(ch, evt)
	return nil
}

func (rt *Router) editMessage(ctx context.Context, e *EditMessageEvent) error {
	evt, err := NewEvent(EventMessageEdited, MessageEditedPayload{UpdatedMessage: e.UpdatedMessage})
	if err != nil {
		return err
	}

	if e.Recipient != nil {
		rt.deliver(*e.Recipient, evt)
		rt.deliver(e.UpdatedMessage.SenderID, evt)
		return nil
	}
	if e.ChannelID == nil {
		return ErrMalformedEvent
	}

	ch, err := rt.channels.GetWithMembers(ctx, *e.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}
	rt.fanOut(ch, evt)
	return nil
}

// pinMessage trusts that the pin already passed the store-layer duplicate
// check in the HTTP path; its job is broadcast only.
func (rt *Router) pinMessage(ctx context.Context, e *PinMessageEvent) error {
	ch, err := rt.channels.GetWithMembers(ctx, e.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}

	evt, err := NewEvent(EventMessagePinned, MessagePinnedPayload{PinnedMessage: e.PinnedMessage})
	if err != nil {
		return err
	}
	rt.fanOut(ch, evt)
	return nil
}

func (rt *Router) unpinMessage(ctx context.Context, e *UnpinMessageEvent) error {
	ch, err := rt.channels.GetWithMembers(ctx, e.ChannelID)
	if err != nil {
		return fmt.Errorf("loading channel: %w", err)
	}
	if ch == nil {
		return ErrChannelNotFound
	}

	evt, err := NewEvent(EventMessageUnpinned, MessageUnpinnedPayload{MessageID: e.MessageID})
	if err != nil {
		return err
	}
	rt.fanOut(ch, evt)
	return nil
}

// channelCreated notifies each member of a freshly created channel. No admin
// special-case: the creator already holds the channel client-side.
func (rt *Router) channelCreated(e *ChannelCreatedEvent) error {
	evt, err := NewEvent(EventNewChannelAdded, NewChannelPayload{Channel: e.Channel})
	if err != nil {
		return err
	}
	for _, memberID := range e.Channel.MemberIDs {
		rt.deliver(memberID, evt)
	}
	return nil
}

// deliver pushes evt to userID's session if one is registered. Offline users
// are silently skipped: no retry, no queue.
func (rt *Router) deliver(userID uuid.UUID, evt *Event) {
	if s, ok := rt.registry.Lookup(userID); ok {
		s.Deliver(evt)
	}
}

// fanOut delivers to every channel member plus the admin, once each.
func (rt *Router) fanOut(ch *domain.Channel, evt *Event) {
	for _, id := range ch.Recipients() {
		rt.deliver(id, evt)
	}
}
