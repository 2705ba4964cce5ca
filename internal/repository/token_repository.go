package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TokenRepository holds the per-user set of active session tokens. A token
// authenticates only while its row exists; deleting rows is how logout works.
type TokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, token string) error
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID, token string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type postgresTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresTokenRepository(db *sqlx.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, userID uuid.UUID, token string) error {
	query := `INSERT INTO auth_tokens (user_id, token) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

func (r *postgresTokenRepository) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM auth_tokens WHERE user_id = $1 AND token = $2)`
	err := r.db.GetContext(ctx, &exists, query, userID, token)
	return exists, err
}

func (r *postgresTokenRepository) Delete(ctx context.Context, userID uuid.UUID, token string) error {
	query := `DELETE FROM auth_tokens WHERE user_id = $1 AND token = $2`
	_, err := r.db.ExecContext(ctx, query, userID, token)
	return err
}

func (r *postgresTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM auth_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
