package ws_test

import (
	"encoding/json"
	"testing"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/transport/ws"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envelope(t *testing.T, name string, payload any) *ws.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &ws.Event{Name: name, Payload: data}
}

func TestDecodeInboundDirectMessage(t *testing.T) {
	sender, recipient := uuid.New(), uuid.New()
	env := envelope(t, ws.EventSendDirectMessage, map[string]any{
		"sender":       sender,
		"recipient":    recipient,
		"content":      "hi",
		"message_type": domain.MessageTypeText,
	})

	ev, err := ws.DecodeInbound(env)
	require.NoError(t, err)

	dm, ok := ev.(*ws.DirectMessageEvent)
	require.True(t, ok)
	assert.Equal(t, sender, dm.Sender)
	assert.Equal(t, recipient, dm.Recipient)
	require.NotNil(t, dm.Content)
	assert.Equal(t, "hi", *dm.Content)
}

func TestDecodeInboundMissingRequiredField(t *testing.T) {
	// Recipient absent: must be rejected before any store mutation.
	env := envelope(t, ws.EventSendDirectMessage, map[string]any{
		"sender":       uuid.New(),
		"message_type": domain.MessageTypeText,
	})

	_, err := ws.DecodeInbound(env)
	assert.ErrorIs(t, err, ws.ErrMalformedEvent)
}

func TestDecodeInboundBadMessageType(t *testing.T) {
	env := envelope(t, ws.EventSendDirectMessage, map[string]any{
		"sender":       uuid.New(),
		"recipient":    uuid.New(),
		"message_type": "carrier-pigeon",
	})

	_, err := ws.DecodeInbound(env)
	assert.ErrorIs(t, err, ws.ErrMalformedEvent)
}

func TestDecodeInboundDeleteNeedsTarget(t *testing.T) {
	// Neither recipient nor channel id: nothing to resolve a delivery set from.
	env := envelope(t, ws.EventDeleteMessage, map[string]any{
		"message_id": uuid.New(),
		"sender":     uuid.New(),
	})

	_, err := ws.DecodeInbound(env)
	assert.ErrorIs(t, err, ws.ErrMalformedEvent)
}

func TestDecodeInboundDeleteChannelShape(t *testing.T) {
	channelID := uuid.New()
	env := envelope(t, ws.EventDeleteMessage, map[string]any{
		"message_id": uuid.New(),
		"sender":     uuid.New(),
		"channel_id": channelID,
	})

	ev, err := ws.DecodeInbound(env)
	require.NoError(t, err)

	del, ok := ev.(*ws.DeleteMessageEvent)
	require.True(t, ok)
	assert.Nil(t, del.Recipient)
	require.NotNil(t, del.ChannelID)
	assert.Equal(t, channelID, *del.ChannelID)
}

func TestDecodeInboundUnknownEvent(t *testing.T) {
	env := &ws.Event{Name: "subscribe-to-newsletter"}

	_, err := ws.DecodeInbound(env)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ws.ErrMalformedEvent)
}

func TestDecodeInboundPin(t *testing.T) {
	channelID := uuid.New()
	env := envelope(t, ws.EventPinMessage, map[string]any{
		"channel_id": channelID,
		"pinned_message": domain.Message{
			ID:       uuid.New(),
			SenderID: uuid.New(),
			Type:     domain.MessageTypeText,
		},
	})

	ev, err := ws.DecodeInbound(env)
	require.NoError(t, err)

	pin, ok := ev.(*ws.PinMessageEvent)
	require.True(t, ok)
	assert.Equal(t, channelID, pin.ChannelID)
}
