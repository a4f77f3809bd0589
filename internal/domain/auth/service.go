package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"kardex/internal/core/apperror"
	"kardex/internal/core/id"
	"kardex/internal/core/tx"
	"kardex/internal/domain"
	"kardex/internal/domain/audit"
	"kardex/pkg/logger"
)

// Session is a successful login result.
type Session struct {
	Token string
	User  *User
}

// Service provides registration, login and user administration.
type Service struct {
	repo      Repository
	tokens    *TokenService
	txManager tx.Manager
	audit     audit.Recorder
}

// NewService creates a new auth service.
func NewService(repo Repository, tokens *TokenService, txManager tx.Manager, recorder audit.Recorder) *Service {
	return &Service{
		repo:      repo,
		tokens:    tokens,
		txManager: txManager,
		audit:     recorder,
	}
}

// Register creates a new user account.
func (s *Service) Register(ctx context.Context, creds Credentials) (*User, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.NewInternal(fmt.Errorf("hash password: %w", err))
	}

	user := NewUser(strings.TrimSpace(creds.Username), string(hash))
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, user); err != nil {
			return err
		}
		return s.audit.Record(ctx, "user", user.ID, audit.ActionCreate, map[string]any{"username": user.Username})
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login verifies credentials and issues a session token. Unknown user
// and wrong password collapse into the same Unauthorized error.
func (s *Service) Login(ctx context.Context, creds Credentials) (*Session, error) {
	user, err := s.repo.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, apperror.NewInternal(fmt.Errorf("verify password: %w", err))
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return &Session{Token: token, User: user}, nil
}

// GetByID retrieves a user account.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ListPaged returns one page of users, newest first, plus the total count.
func (s *Service) ListPaged(ctx context.Context, offset, limit int) (domain.ListResult[*User], error) {
	if err := domain.ValidatePage(offset, limit); err != nil {
		return domain.ListResult[*User]{}, err
	}
	return s.repo.ListPaged(ctx, offset, limit)
}

// Delete removes a user account. A user cannot delete themselves; the
// ledger keeps its user_id references, so removal is restricted to
// accounts with no movements (the repository surfaces the FK violation
// as ReferentialIntegrityViolation).
func (s *Service) Delete(ctx context.Context, actorID, userID id.ID) error {
	if actorID == userID {
		return apperror.NewValidation("cannot delete your own account")
	}
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if _, err := s.repo.GetByID(ctx, userID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, userID); err != nil {
			return err
		}
		return s.audit.Record(ctx, "user", userID, audit.ActionDelete, nil)
	})
}
