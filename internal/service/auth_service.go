package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/megumiii12/athlete/internal/config"
	"github.com/megumiii12/athlete/internal/models"
	"github.com/megumiii12/athlete/internal/repository"
	"github.com/megumiii12/athlete/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("missing required fields")
)

// UserStore is the durable credential/profile boundary.
type UserStore interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	FindByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id int) (models.User, error)
	UpdateLastLogin(ctx context.Context, id int) error
	UpdatePasswordHash(ctx context.Context, email string, hash []byte) error
}

// SessionStore is the durable session boundary.
type SessionStore interface {
	Insert(ctx context.Context, session models.Session) error
	FindUserByToken(ctx context.Context, token string) (models.PublicUser, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

// AuthService owns credentials and the session-token lifecycle. It is
// the single authority on "is this caller authenticated".
type AuthService struct {
	users    UserStore
	sessions SessionStore
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewAuthService(users UserStore, sessions SessionStore, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		cfg:      cfg,
		log:      log,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Gender   *string
	Age      *int
}

// Register creates an account. Email uniqueness rests on the database
// constraint, so two concurrent registrations cannot both win. Emails
// are matched exactly apart from surrounding whitespace.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.PublicUser, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" || input.Password == "" {
		return models.PublicUser{}, ErrMissingFields
	}

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return models.PublicUser{}, err
	}

	user, err := s.users.Create(ctx, models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Gender:       input.Gender,
		Age:          input.Age,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return models.PublicUser{}, ErrEmailTaken
		}
		return models.PublicUser{}, err
	}

	return user.PublicProfile(), nil
}

// Authenticate checks credentials and stamps last_login on success. The
// returned profile never carries the password hash.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (models.PublicUser, error) {
	email = strings.TrimSpace(email)
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.PublicUser{}, ErrInvalidCredentials
		}
		return models.PublicUser{}, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return models.PublicUser{}, ErrInvalidCredentials
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		s.log.Warn().Err(err).Int("user_id", user.ID).Msg("update last_login failed")
	}

	return user.PublicProfile(), nil
}

// Login authenticates and issues a fresh session token.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.PublicUser, string, error) {
	user, err := s.Authenticate(ctx, email, password)
	if err != nil {
		return models.PublicUser{}, "", err
	}

	token, err := s.IssueToken(ctx, user.ID)
	if err != nil {
		return models.PublicUser{}, "", err
	}
	return user, token, nil
}

// IssueToken mints an opaque bearer token valid for a fixed window from
// now. Expired rows are swept opportunistically first; that sweep is
// best effort and never blocks issuance.
func (s *AuthService) IssueToken(ctx context.Context, userID int) (string, error) {
	if n, err := s.sessions.DeleteExpired(ctx); err != nil {
		s.log.Warn().Err(err).Msg("expired session sweep failed")
	} else if n > 0 {
		s.log.Debug().Int64("removed", n).Msg("expired sessions swept")
	}

	expiresAt := time.Now().Add(s.cfg.Security.SessionTTL)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		token, err := security.GenerateSessionToken(s.cfg.Security.SessionTokenLen)
		if err != nil {
			return "", err
		}

		err = s.sessions.Insert(ctx, models.Session{
			UserID:    userID,
			Token:     token,
			ExpiresAt: expiresAt,
		})
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, repository.ErrTokenConflict) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// ResolveToken returns the owner of a live session token, or
// ErrInvalidCredentials when the token is unknown or expired.
func (s *AuthService) ResolveToken(ctx context.Context, token string) (models.PublicUser, error) {
	user, err := s.sessions.FindUserByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return models.PublicUser{}, ErrInvalidCredentials
		}
		return models.PublicUser{}, err
	}
	return user, nil
}

// Profile re-reads the account behind an already-resolved session, so
// the caller sees profile edits made after the token was issued. An id
// with no account maps to ErrInvalidCredentials.
func (s *AuthService) Profile(ctx context.Context, userID int) (models.PublicUser, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return models.PublicUser{}, ErrInvalidCredentials
		}
		return models.PublicUser{}, err
	}
	return user.PublicProfile(), nil
}

// ResetPassword overwrites the hash for any account matching email.
// No possession proof is required and existing sessions stay valid;
// both gaps are inherited from the system this replaces and are kept
// deliberately (see DESIGN.md). Returns false when no such account.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || newPassword == "" {
		return false, ErrMissingFields
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return false, err
	}

	if err := s.users.UpdatePasswordHash(ctx, email, hash); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
