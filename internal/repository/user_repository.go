package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/megumiii12/athlete/internal/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create inserts a user and fills in the generated id and created_at.
// The users.email unique constraint is the authority on duplicates; a
// conflicting concurrent insert surfaces as ErrEmailTaken, never as a
// second row.
func (r *UserRepository) Create(ctx context.Context, user models.User) (models.User, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, gender, age)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	row := r.pool.QueryRow(ctx, query,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Gender,
		user.Age,
	)
	if err := row.Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	const query = `
		SELECT id, username, email, password_hash, gender, age, created_at, last_login
		FROM users WHERE email = $1
	`

	row := r.pool.QueryRow(ctx, query, email)
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Gender,
		&user.Age,
		&user.CreatedAt,
		&user.LastLogin,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	const query = `
		SELECT id, username, email, password_hash, gender, age, created_at, last_login
		FROM users WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Gender,
		&user.Age,
		&user.CreatedAt,
		&user.LastLogin,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int) error {
	const query = `UPDATE users SET last_login = NOW() WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// UpdatePasswordHash overwrites the stored hash for the account matching
// email. Existing sessions are left untouched.
func (r *UserRepository) UpdatePasswordHash(ctx context.Context, email string, hash []byte) error {
	const query = `UPDATE users SET password_hash = $2 WHERE email = $1`
	cmd, err := r.pool.Exec(ctx, query, email, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
