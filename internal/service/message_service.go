package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotMessageSender = errors.New("only the message sender can perform this action")
)

// MessageService is the authorized command path for message mutations. The
// real-time router trusts that delete/edit events it relays already passed
// the sender check here.
type MessageService struct {
	messageRepo repository.MessageRepository
}

func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// ListBetween returns the DM history between two users in timestamp order.
func (s *MessageService) ListBetween(ctx context.Context, userID, otherID uuid.UUID) ([]domain.Message, error) {
	messages, err := s.messageRepo.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Edit replaces the content of the caller's own message and returns the
// hydrated updated message for the client to relay.
func (s *MessageService) Edit(ctx context.Context, userID, messageID uuid.UUID, content string) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageSender
	}

	if err := s.messageRepo.UpdateContent(ctx, messageID, content); err != nil {
		return nil, fmt.Errorf("updating message: %w", err)
	}

	return s.messageRepo.GetByID(ctx, messageID)
}

// Delete removes the caller's own message and returns it so the client knows
// the recipient or channel to notify.
func (s *MessageService) Delete(ctx context.Context, userID, messageID uuid.UUID) (*domain.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	if msg.SenderID != userID {
		return nil, ErrNotMessageSender
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return nil, fmt.Errorf("deleting message: %w", err)
	}

	return msg, nil
}
