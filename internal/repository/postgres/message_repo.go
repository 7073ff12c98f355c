package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// messageSelect resolves sender and recipient display fields in one query so
// outbound payloads never need a second hydration step.
const messageSelect = `
	SELECT m.id, m.sender_id, m.recipient_id, m.content, m.file_url, m.type, m.edited_at, m.timestamp,
		s.id, s.email, s.first_name, s.last_name, s.image, s.color,
		r.id, r.email, r.first_name, r.last_name, r.image, r.color
	FROM messages m
	JOIN users s ON m.sender_id = s.id
	LEFT JOIN users r ON m.recipient_id = r.id`

type MessageRepo struct {
	pool *pgxpool.Pool
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, recipient_id, content, file_url, type, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		msg.ID, msg.SenderID, msg.RecipientID, msg.Content, msg.FileURL, msg.Type, msg.Timestamp,
	)
	return err
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	row := r.pool.QueryRow(ctx, messageSelect+" WHERE m.id = $1", id)

	msg, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (r *MessageRepo) ListBetween(ctx context.Context, user1, user2 uuid.UUID) ([]domain.Message, error) {
	query := messageSelect + `
		WHERE (m.sender_id = $1 AND m.recipient_id = $2)
			OR (m.sender_id = $2 AND m.recipient_id = $1)
		ORDER BY m.timestamp`

	rows, err := r.pool.Query(ctx, query, user1, user2)
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

func (r *MessageRepo) UpdateContent(ctx context.Context, id uuid.UUID, content string) error {
	_, err := r.pool.Exec(ctx, `UPDATE messages SET content = $1, edited_at = $2 WHERE id = $3`, content, time.Now(), id)
	return err
}

func (r *MessageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
	return err
}

func scanMessage(row pgx.Row) (*domain.Message, error) {
	var (
		msg    domain.Message
		sender domain.UserRef

		// recipient columns are NULL for channel messages
		recID        *uuid.UUID
		recEmail     *string
		recFirstName *string
		recLastName  *string
		recImage     *string
		recColor     *int
	)

	err := row.Scan(
		&msg.ID, &msg.SenderID, &msg.RecipientID, &msg.Content, &msg.FileURL, &msg.Type, &msg.EditedAt, &msg.Timestamp,
		&sender.ID, &sender.Email, &sender.FirstName, &sender.LastName, &sender.Image, &sender.Color,
		&recID, &recEmail, &recFirstName, &recLastName, &recImage, &recColor,
	)
	if err != nil {
		return nil, err
	}

	msg.Sender = &sender
	if recID != nil {
		msg.Recipient = &domain.UserRef{
			ID:        *recID,
			Email:     *recEmail,
			FirstName: *recFirstName,
			LastName:  *recLastName,
			Image:     recImage,
			Color:     *recColor,
		}
	}
	return &msg, nil
}
