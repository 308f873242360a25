package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/megumiii12/athlete/internal/models"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTokenConflict   = errors.New("session token already exists")
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Insert persists a freshly issued token. A collision on sessions.token
// is vanishingly unlikely at 256 bits of entropy but surfaces as
// ErrTokenConflict so the caller can retry with a new token.
func (r *SessionRepository) Insert(ctx context.Context, session models.Session) error {
	const query = `
		INSERT INTO sessions (user_id, token, expires_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, session.UserID, session.Token, session.ExpiresAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTokenConflict
		}
		return err
	}
	return nil
}

// FindUserByToken resolves a bearer token to the owning user's public
// profile. Expiry is enforced in the query itself, so correctness never
// depends on the cleanup job having run.
func (r *SessionRepository) FindUserByToken(ctx context.Context, token string) (models.PublicUser, error) {
	const query = `
		SELECT u.id, u.username, u.email, u.gender, u.age
		FROM users u
		JOIN sessions s ON u.id = s.user_id
		WHERE s.token = $1 AND s.expires_at > NOW()
	`

	row := r.pool.QueryRow(ctx, query, token)
	var user models.PublicUser
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Gender,
		&user.Age,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PublicUser{}, ErrSessionNotFound
		}
		return models.PublicUser{}, err
	}
	return user, nil
}

// DeleteExpired removes sessions past their expiry. Best-effort
// housekeeping only.
func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	const query = `DELETE FROM sessions WHERE expires_at <= NOW()`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
