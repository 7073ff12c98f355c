package repository

import (
	"context"
	"errors"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/google/uuid"
)

// ErrAlreadyPinned is returned by ChannelRepository.Pin when the message id
// is already present in the channel's pinned set. The duplicate check lives
// in the store layer so concurrent pins cannot corrupt the set.
var ErrAlreadyPinned = errors.New("message already pinned")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
	Search(ctx context.Context, term string, exclude uuid.UUID) ([]domain.User, error)
	ListDMContacts(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListBetween(ctx context.Context, user1, user2 uuid.UUID) ([]domain.Message, error)
	UpdateContent(ctx context.Context, id uuid.UUID, content string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ChannelRepository interface {
	Create(ctx context.Context, ch *domain.Channel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	GetWithMembers(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Channel, error)
	AddMembers(ctx context.Context, channelID uuid.UUID, memberIDs []uuid.UUID) error
	AppendMessage(ctx context.Context, channelID, messageID uuid.UUID) error
	Pin(ctx context.Context, channelID, messageID uuid.UUID) error
	Unpin(ctx context.Context, channelID, messageID uuid.UUID) error
	ListMessages(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error)
	ListPinned(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error)
}
