package account

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/exp/slog"

	"passvault/internal/domain/errs"
)

// dummyPassword is hashed once at start-up so that unknown usernames cost
// the same verification work as known ones.
const dummyPassword = "passvault-timing-equaliser"

type Servicer interface {
	Register(ctx context.Context, username, password string) (Account, error)
	Authenticate(ctx context.Context, username, password string) (Account, error)
}

// Service is the account directory: it owns username uniqueness, password
// hashing and credential verification.
type Service struct {
	repo      Repository
	hasher    Hasher
	validator Validator
	log       *slog.Logger
	dummyHash string
}

func NewService(repo Repository, hasher Hasher, validator Validator, log *slog.Logger) *Service {
	s := &Service{
		repo:      repo,
		hasher:    hasher,
		validator: validator,
		log:       log.With("component", "account_service"),
	}

	dummy, err := hasher.Hash(dummyPassword)
	if err != nil {
		s.log.Warn("failed to prepare dummy hash", "error", err)
	}
	s.dummyHash = dummy

	return s
}

func (s *Service) Register(ctx context.Context, username, password string) (Account, error) {
	if err := s.validator.ValidateRegister(username, password); err != nil {
		s.log.Debug("validation failed", "username", username, "error", err)
		return Account{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			return Account{}, errs.InvalidInput("password is too long for the configured hash algorithm")
		}
		return Account{}, fmt.Errorf("hash password: %w", err)
	}

	acc, err := s.repo.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			s.log.Info("registration rejected", "username", username, "reason", "duplicate username")
			return Account{}, errs.ErrDuplicateUsername
		}
		s.log.Error("failed to create account", "username", username, "error", err)
		return Account{}, errs.ErrStoreUnavailable
	}

	s.log.Info("account registered", "account_id", acc.ID, "username", acc.Username)

	acc.PasswordHash = ""
	return acc, nil
}

// Authenticate returns errs.ErrInvalidCredentials for an unknown username and
// for a wrong password alike; only the logs tell the two apart.
func (s *Service) Authenticate(ctx context.Context, username, password string) (Account, error) {
	if err := s.validator.ValidateUsername(username); err != nil {
		s.burn(password)
		s.log.Info("authentication failed", "reason", "malformed username")
		return Account{}, errs.ErrInvalidCredentials
	}

	acc, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.burn(password)
			s.log.Info("authentication failed", "username", username, "reason", "unknown username")
			return Account{}, errs.ErrInvalidCredentials
		}
		s.log.Error("failed to load account", "username", username, "error", err)
		return Account{}, errs.ErrStoreUnavailable
	}

	ok, err := s.hasher.Verify(acc.PasswordHash, password)
	if err != nil {
		s.log.Error("stored password hash is unusable", "account_id", acc.ID, "error", err)
		return Account{}, errs.ErrStoreUnavailable
	}
	if !ok {
		s.log.Info("authentication failed", "account_id", acc.ID, "reason", "wrong password")
		return Account{}, errs.ErrInvalidCredentials
	}

	s.log.Debug("authenticated", "account_id", acc.ID)

	acc.PasswordHash = ""
	return acc, nil
}

func (s *Service) burn(password string) {
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(s.dummyHash, password)
}
