package postgres

import (
	"context"
	"errors"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/dkovac/chatline/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChannelRepo struct {
	pool *pgxpool.Pool
}

func NewChannelRepo(pool *pgxpool.Pool) *ChannelRepo {
	return &ChannelRepo{pool: pool}
}

func (r *ChannelRepo) Create(ctx context.Context, ch *domain.Channel) error {
	query := `
		INSERT INTO channels (id, name, admin_id, members, messages, pinned_messages, created_at, updated_at)
		VALUES ($1, $2, $3, $4, '{}', '{}', $5, $6)`
	_, err := r.pool.Exec(ctx, query,
		ch.ID, ch.Name, ch.AdminID, ch.MemberIDs, ch.CreatedAt, ch.UpdatedAt,
	)
	return err
}

func (r *ChannelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	query := `SELECT id, name, admin_id, members, messages, pinned_messages, created_at, updated_at
		FROM channels WHERE id = $1`
	var ch domain.Channel
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&ch.ID, &ch.Name, &ch.AdminID, &ch.MemberIDs, &ch.MessageIDs, &ch.PinnedIDs,
		&ch.CreatedAt, &ch.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ch, nil
}

// GetWithMembers returns the channel with member display fields resolved.
func (r *ChannelRepo) GetWithMembers(ctx context.Context, id uuid.UUID) (*domain.Channel, error) {
	ch, err := r.GetByID(ctx, id)
	if err != nil || ch == nil {
		return ch, err
	}

	query := `SELECT id, email, first_name, last_name, image, color FROM users WHERE id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ch.MemberIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var m domain.UserRef
		if err := rows.Scan(&m.ID, &m.Email, &m.FirstName, &m.LastName, &m.Image, &m.Color); err != nil {
			return nil, err
		}
		ch.Members = append(ch.Members, m)
	}
	return ch, rows.Err()
}

func (r *ChannelRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Channel, error) {
	query := `SELECT id, name, admin_id, members, messages, pinned_messages, created_at, updated_at
		FROM channels WHERE admin_id = $1 OR members @> ARRAY[$1] ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var channels []domain.Channel
	for rows.Next() {
		var ch domain.Channel
		if err := rows.Scan(&ch.ID, &ch.Name, &ch.AdminID, &ch.MemberIDs, &ch.MessageIDs,
			&ch.PinnedIDs, &ch.CreatedAt, &ch.UpdatedAt); err != nil {
			return nil, err
		}
		channels = append(channels, ch)
	}
	return channels, rows.Err()
}

// AddMembers appends only the ids not already present. The filtering happens
// inside the UPDATE so concurrent adds cannot produce duplicates.
func (r *ChannelRepo) AddMembers(ctx context.Context, channelID uuid.UUID, memberIDs []uuid.UUID) error {
	query := `
		UPDATE channels
		SET members = members || COALESCE(
				(SELECT array_agg(m) FROM unnest($2::uuid[]) AS m WHERE NOT (members @> ARRAY[m])), '{}'),
			updated_at = NOW()
		WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, channelID, memberIDs)
	return err
}

func (r *ChannelRepo) AppendMessage(ctx context.Context, channelID, messageID uuid.UUID) error {
	query := `UPDATE channels SET messages = array_append(messages, $2), updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, channelID, messageID)
	return err
}

// Pin adds the message id to the pinned set. The duplicate guard is part of
// the UPDATE predicate, so racing pin/unpin on the same channel cannot
// corrupt the set.
func (r *ChannelRepo) Pin(ctx context.Context, channelID, messageID uuid.UUID) error {
	query := `
		UPDATE channels
		SET pinned_messages = array_append(pinned_messages, $2), updated_at = NOW()
		WHERE id = $1 AND NOT (pinned_messages @> ARRAY[$2])`
	tag, err := r.pool.Exec(ctx, query, channelID, messageID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrAlreadyPinned
	}
	return nil
}

func (r *ChannelRepo) Unpin(ctx context.Context, channelID, messageID uuid.UUID) error {
	query := `UPDATE channels SET pinned_messages = array_remove(pinned_messages, $2), updated_at = NOW() WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, channelID, messageID)
	return err
}

func (r *ChannelRepo) ListMessages(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error) {
	return r.listFromSequence(ctx, channelID, "messages")
}

func (r *ChannelRepo) ListPinned(ctx context.Context, channelID uuid.UUID) ([]domain.Message, error) {
	return r.listFromSequence(ctx, channelID, "pinned_messages")
}

// listFromSequence hydrates the messages referenced by one of the channel's
// id arrays, preserving array order.
func (r *ChannelRepo) listFromSequence(ctx context.Context, channelID uuid.UUID, column string) ([]domain.Message, error) {
	query := `
		SELECT m.id, m.sender_id, m.recipient_id, m.content, m.file_url, m.type, m.edited_at, m.timestamp,
			s.id, s.email, s.first_name, s.last_name, s.image, s.color,
			r.id, r.email, r.first_name, r.last_name, r.image, r.color
		FROM channels c
		CROSS JOIN unnest(c.` + column + `) WITH ORDINALITY AS seq(message_id, ord)
		JOIN messages m ON m.id = seq.message_id
		JOIN users s ON m.sender_id = s.id
		LEFT JOIN users r ON m.recipient_id = r.id
		WHERE c.id = $1
		ORDER BY seq.ord`

	rows, err := r.pool.Query(ctx, query, channelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	return messages, rows.Err()
}
