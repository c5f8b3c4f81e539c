package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/usuarios/internal/common"
	"github.com/dmitrijs2005/usuarios/internal/logging"
)

// ErrWrongPassword is returned by Login when the email exists but the
// password does not match.
var ErrWrongPassword = fmt.Errorf("%w: wrong password", common.ErrorUnauthorized)

// ErrPasswordTooLong is returned when a password exceeds bcrypt's input
// limit of 72 bytes.
var ErrPasswordTooLong = errors.New("password must be at most 72 bytes")

type RegisterInput struct {
	Username string
	Email    string
	Password []byte
}

// UpdateInput replaces the whole public record of an account. A nil
// Password keeps the current one.
type UpdateInput struct {
	ID       int64
	Username string
	Email    string
	Status   string
	Password []byte
}

type Service struct {
	repo   Repository
	logger logging.Logger
	cost   int
}

type Option func(*Service)

// WithBcryptCost overrides bcrypt.DefaultCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(repo Repository, logger logging.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Service{repo: repo, logger: logger, cost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) hash(password []byte) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword(password, s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	return hash, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an active account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*User, error) {
	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, &User{
		Username:     strings.TrimSpace(in.Username),
		Email:        normalizeEmail(in.Email),
		Status:       StatusActive,
		PasswordHash: hash,
	})
	if err != nil {
		return nil, s.storageError(ctx, "create user", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login returns the account owning email when password matches it.
func (s *Service) Login(ctx context.Context, email string, password []byte) (*User, error) {
	user, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, s.storageError(ctx, "find user", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, password); err != nil {
		return nil, ErrWrongPassword
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storageError(ctx, "get user", err)
	}
	return user, nil
}

func (s *Service) Update(ctx context.Context, in UpdateInput) (*User, error) {
	u := &User{
		ID:       in.ID,
		Username: strings.TrimSpace(in.Username),
		Email:    normalizeEmail(in.Email),
		Status:   in.Status,
	}
	if len(in.Password) > 0 {
		hash, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}

	user, err := s.repo.Update(ctx, u)
	if err != nil {
		return nil, s.storageError(ctx, "update user", err)
	}
	return user, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storageError(ctx, "delete user", err)
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// storageError passes through the errors callers can act on and hides the
// rest behind common.ErrorInternal.
func (s *Service) storageError(ctx context.Context, op string, err error) error {
	var dup *DuplicateEmailError
	if errors.Is(err, common.ErrorNotFound) || errors.As(err, &dup) {
		return err
	}
	s.logger.Error(ctx, op, "error", err)
	return common.ErrorInternal
}
