package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrChannelNotFound = errors.New("channel not found")
	ErrNotChannelAdmin = errors.New("only the channel admin can perform this action")
	ErrInvalidMembers  = errors.New("some members are not valid users")
	ErrNoNewMembers    = errors.New("all members are already in the channel")
)

type ChannelService struct {
	channelRepo repository.ChannelRepository
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
}

func NewChannelService(
	channelRepo repository.ChannelRepository,
	userRepo repository.UserRepository,
	messageRepo repository.MessageRepository,
) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		userRepo:    userRepo,
		messageRepo: messageRepo,
	}
}

type CreateChannelInput struct {
	Name    string      `json:"name"`
	Members []uuid.UUID `json:"members"`
}

// Create makes a new channel with the caller as admin. Every member id must
// resolve to an existing user.
func (s *ChannelService) Create(ctx context.Context, adminID uuid.UUID, input CreateChannelInput) (*domain.Channel, error) {
	if err := s.validateMembers(ctx, input.Members); err != nil {
		return nil, err
	}

	now := time.Now()
	ch := &domain.Channel{
		ID:        uuid.New(),
		Name:      input.Name,
		AdminID:   adminID,
		MemberIDs: input.Members,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.channelRepo.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("creating channel: %w", err)
	}

	return s.channelRepo.GetWithMembers(ctx, ch.ID)
}

// ListForUser returns channels where the user is admin or member, most
// recently active first.
func (s *ChannelService) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Channel, error) {
	channels, err := s.channelRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []domain.Channel{}
	}
	return channels, nil
}

func (s *ChannelService) GetDetails(ctx context.Context, channelID uuid.UUID) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetWithMembers(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	return ch, nil
}

func (s *ChannelService) ListMessages(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error) {
	if err := s.mustExist(ctx, channelID); err != nil {
		return nil, err
	}
	messages, err := s.channelRepo.ListMessages(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// AddMembers lets the admin grow the member set. Ids already present are
// skipped; if nothing would change, the call is rejected.
func (s *ChannelService) AddMembers(ctx context.Context, actorID, channelID uuid.UUID, memberIDs []uuid.UUID) (*domain.Channel, error) {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if ch == nil {
		return nil, ErrChannelNotFound
	}
	if ch.AdminID != actorID {
		return nil, ErrNotChannelAdmin
	}

	if err := s.validateMembers(ctx, memberIDs); err != nil {
		return nil, err
	}

	existing := make(map[uuid.UUID]struct{}, len(ch.MemberIDs))
	for _, id := range ch.MemberIDs {
		existing[id] = struct{}{}
	}
	anyNew := false
	for _, id := range memberIDs {
		if _, ok := existing[id]; !ok {
			anyNew = true
			break
		}
	}
	if !anyNew {
		return nil, ErrNoNewMembers
	}

	if err := s.channelRepo.AddMembers(ctx, channelID, memberIDs); err != nil {
		return nil, fmt.Errorf("adding members: %w", err)
	}

	return s.channelRepo.GetWithMembers(ctx, channelID)
}

// Pin records a pinned message, admin only. The store layer rejects a
// duplicate pin atomically (repository.ErrAlreadyPinned).
func (s *ChannelService) Pin(ctx context.Context, actorID, channelID, messageID uuid.UUID) (*domain.Message, error) {
	if err := s.mustBeAdmin(ctx, actorID, channelID); err != nil {
		return nil, err
	}

	if err := s.channelRepo.Pin(ctx, channelID, messageID); err != nil {
		return nil, err
	}

	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

// Unpin removes a pinned message, admin only. Unpinning an id that is not
// pinned is a no-op.
func (s *ChannelService) Unpin(ctx context.Context, actorID, channelID, messageID uuid.UUID) error {
	if err := s.mustBeAdmin(ctx, actorID, channelID); err != nil {
		return err
	}
	return s.channelRepo.Unpin(ctx, channelID, messageID)
}

func (s *ChannelService) ListPinned(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error) {
	if err := s.mustExist(ctx, channelID); err != nil {
		return nil, err
	}
	pinned, err := s.channelRepo.ListPinned(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if pinned == nil {
		pinned = []domain.Message{}
	}
	return pinned, nil
}

func (s *ChannelService) validateMembers(ctx context.Context, memberIDs []uuid.UUID) error {
	if len(memberIDs) == 0 {
		return ErrInvalidMembers
	}
	users, err := s.userRepo.GetByIDs(ctx, memberIDs)
	if err != nil {
		return err
	}

	found := make(map[uuid.UUID]struct{}, len(users))
	for _, u := range users {
		found[u.ID] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := found[id]; !ok {
			return ErrInvalidMembers
		}
	}
	return nil
}

func (s *ChannelService) mustExist(ctx context.Context, channelID uuid.UUID) error {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return ErrChannelNotFound
	}
	return nil
}

func (s *ChannelService) mustBeAdmin(ctx context.Context, actorID, channelID uuid.UUID) error {
	ch, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if ch == nil {
		return ErrChannelNotFound
	}
	if ch.AdminID != actorID {
		return ErrNotChannelAdmin
	}
	return nil
}
