package service_test

import (
	"context"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/repository"
	"github.com/google/uuid"
)

// In-memory repositories for service tests. They mirror the null-on-missing
// contract of the postgres implementations.

type memUserRepo struct {
	users map[uuid.UUID]*domain.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *memUserRepo) Create(_ context.Context, user *domain.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *memUserRepo) UpdateProfile(_ context.Context, user *domain.User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *memUserRepo) Search(_ context.Context, _ string, _ uuid.UUID) ([]domain.User, error) {
	return nil, nil
}

func (r *memUserRepo) ListDMContacts(_ context.Context, _ uuid.UUID) ([]domain.Contact, error) {
	return nil, nil
}

type memMessageRepo struct {
	messages map[uuid.UUID]*domain.Message
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{messages: make(map[uuid.UUID]*domain.Message)}
}

func (r *memMessageRepo) Create(_ context.Context, msg *domain.Message) error {
	copied := *msg
	r.messages[msg.ID] = &copied
	return nil
}

func (r *memMessageRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Message, error) {
	if m, ok := r.messages[id]; ok {
		copied := *m
		return &copied, nil
	}
	return nil, nil
}

func (r *memMessageRepo) ListBetween(_ context.Context, user1, user2 uuid.UUID) ([]domain.Message, error) {
	var out []domain.Message
	for _, m := range r.messages {
		if m.RecipientID == nil {
			continue
		}
		if (m.SenderID == user1 && *m.RecipientID == user2) || (m.SenderID == user2 && *m.RecipientID == user1) {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMessageRepo) UpdateContent(_ context.Context, id uuid.UUID, content string) error {
	if m, ok := r.messages[id]; ok {
		m.Content = &content
		now := time.Now()
		m.EditedAt = &now
	}
	return nil
}

func (r *memMessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.messages, id)
	return nil
}

type memChannelRepo struct {
	channels map[uuid.UUID]*domain.Channel
}

func newMemChannelRepo() *memChannelRepo {
	return &memChannelRepo{channels: make(map[uuid.UUID]*domain.Channel)}
}

func (r *memChannelRepo) Create(_ context.Context, ch *domain.Channel) error {
	copied := *ch
	r.channels[ch.ID] = &copied
	return nil
}

func (r *memChannelRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Channel, error) {
	if ch, ok := r.channels[id]; ok {
		copied := *ch
		return &copied, nil
	}
	return nil, nil
}

func (r *memChannelRepo) GetWithMembers(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	return r.GetByID(ctx, id)
}

func (r *memChannelRepo) ListForUser(_ context.Context, userID uuid.UUID) ([]domain.Channel, error) {
	var out []domain.Channel
	for _, ch := range r.channels {
		if ch.AdminID == userID {
			out = append(out, *ch)
			continue
		}
		for _, m := range ch.MemberIDs {
			if m == userID {
				out = append(out, *ch)
				break
			}
		}
	}
	return out, nil
}

func (r *memChannelRepo) AddMembers(_ context.Context, channelID uuid.UUID, memberIDs []uuid.UUID) error {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	present := make(map[uuid.UUID]struct{}, len(ch.MemberIDs))
	for _, id := range ch.MemberIDs {
		present[id] = struct{}{}
	}
	for _, id := range memberIDs {
		if _, ok := present[id]; !ok {
			ch.MemberIDs = append(ch.MemberIDs, id)
			present[id] = struct{}{}
		}
	}
	return nil
}

func (r *memChannelRepo) AppendMessage(_ context.Context, channelID, messageID uuid.UUID) error {
	if ch, ok := r.channels[channelID]; ok {
		ch.MessageIDs = append(ch.MessageIDs, messageID)
	}
	return nil
}

func (r *memChannelRepo) Pin(_ context.Context, channelID, messageID uuid.UUID) error {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	for _, id := range ch.PinnedIDs {
		if id == messageID {
			return repository.ErrAlreadyPinned
		}
	}
	ch.PinnedIDs = append(ch.PinnedIDs, messageID)
	return nil
}

func (r *memChannelRepo) Unpin(_ context.Context, channelID, messageID uuid.UUID) error {
	ch, ok := r.channels[channelID]
	if !ok {
		return nil
	}
	kept := ch.PinnedIDs[:0]
	for _, id := range ch.PinnedIDs {
		if id != messageID {
			kept = append(kept, id)
		}
	}
	ch.PinnedIDs = kept
	return nil
}

func (r *memChannelRepo) ListMessages(_ context.Context, _ uuid.UUID) ([]domain.Message, error) {
	return nil, nil
}

func (r *memChannelRepo) ListPinned(_ context.Context, _ uuid.UUID) ([]domain.Message, error) {
	return nil, nil
}
