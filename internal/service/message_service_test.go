package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDM(t *testing.T, repo *memMessageRepo, sender, recipient uuid.UUID, content string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, repo.Create(context.Background(), &domain.Message{
		ID:          id,
		SenderID:    sender,
		RecipientID: &recipient,
		Content:     &content,
		Type:        domain.MessageTypeText,
		Timestamp:   time.Now(),
	}))
	return id
}

func TestMessageEditSenderOnly(t *testing.T) {
	repo := newMemMessageRepo()
	svc := service.NewMessageService(repo)
	sender, recipient := uuid.New(), uuid.New()
	msgID := seedDM(t, repo, sender, recipient, "draft")

	_, err := svc.Edit(context.Background(), recipient, msgID, "hijacked")
	assert.ErrorIs(t, err, service.ErrNotMessageSender)

	updated, err := svc.Edit(context.Background(), sender, msgID, "final")
	require.NoError(t, err)
	assert.Equal(t, "final", *updated.Content)
	assert.NotNil(t, updated.EditedAt)
}

func TestMessageDeleteSenderOnly(t *testing.T) {
	repo := newMemMessageRepo()
	svc := service.NewMessageService(repo)
	sender, recipient := uuid.New(), uuid.New()
	msgID := seedDM(t, repo, sender, recipient, "oops")

	_, err := svc.Delete(context.Background(), recipient, msgID)
	assert.ErrorIs(t, err, service.ErrNotMessageSender)

	deleted, err := svc.Delete(context.Background(), sender, msgID)
	require.NoError(t, err)
	assert.Equal(t, msgID, deleted.ID)
	require.NotNil(t, deleted.RecipientID)
	assert.Equal(t, recipient, *deleted.RecipientID)

	gone, err := repo.GetByID(context.Background(), msgID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestMessageEditMissing(t *testing.T) {
	svc := service.NewMessageService(newMemMessageRepo())

	_, err := svc.Edit(context.Background(), uuid.New(), uuid.New(), "anything")
	assert.ErrorIs(t, err, service.ErrMessageNotFound)
}

func TestMessageListBetween(t *testing.T) {
	repo := newMemMessageRepo()
	svc := service.NewMessageService(repo)
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	seedDM(t, repo, a, b, "one")
	seedDM(t, repo, b, a, "two")
	seedDM(t, repo, a, c, "other thread")

	messages, err := svc.ListBetween(context.Background(), a, b)
	require.NoError(t, err)
	assert.Len(t, messages, 2)
}
