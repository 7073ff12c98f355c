package postgres

import (
	"context"
	"errors"

	"github.com/dkovac/chatline/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = "id, email, first_name, last_name, image, color, dm_closed, profile_setup, password_hash, created_at"

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, first_name, last_name, image, color, dm_closed, profile_setup, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.FirstName, user.LastName, user.Image,
		user.Color, user.DMClosed, user.ProfileSetup, user.PasswordHash, user.CreatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
}

func (r *UserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+userColumns+" FROM users WHERE id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET first_name = $1, last_name = $2, image = $3, color = $4,
			dm_closed = $5, profile_setup = $6
		WHERE id = $7`

	_, err := r.pool.Exec(ctx, query,
		user.FirstName, user.LastName, user.Image, user.Color,
		user.DMClosed, user.ProfileSetup, user.ID,
	)
	return err
}

func (r *UserRepo) Search(ctx context.Context, term string, exclude uuid.UUID) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + ` FROM users
		WHERE id != $1 AND (first_name ILIKE $2 OR last_name ILIKE $2 OR email ILIKE $2)
		ORDER BY first_name, last_name`

	rows, err := r.pool.Query(ctx, query, exclude, "%"+term+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListDMContacts returns the users this user has exchanged direct messages
// with, most recent conversation first.
func (r *UserRepo) ListDMContacts(ctx context.Context, userID uuid.UUID) ([]domain.Contact, error) {
	query := `
		SELECT u.id, u.email, u.first_name, u.last_name, u.image, u.color, MAX(m.timestamp) AS last_message_at
		FROM messages m
		JOIN users u ON u.id = CASE WHEN m.sender_id = $1 THEN m.recipient_id ELSE m.sender_id END
		WHERE m.recipient_id IS NOT NULL AND (m.sender_id = $1 OR m.recipient_id = $1)
		GROUP BY u.id, u.email, u.first_name, u.last_name, u.image, u.color
		ORDER BY last_message_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []domain.Contact
	for rows.Next() {
		var c domain.Contact
		if err := rows.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Image, &c.Color, &c.LastMessageAt); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Image,
		&u.Color, &u.DMClosed, &u.ProfileSetup, &u.PasswordHash, &u.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &u, err
}

func collectUsers(rows pgx.Rows) ([]domain.User, error) {
	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Image,
			&u.Color, &u.DMClosed, &u.ProfileSetup, &u.PasswordHash, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
