package auth

import (
	"context"
	"errors"

	"github.com/signet-id/signet/internal/users"
)

// ErrInvalidCredentials indicates login failure. It deliberately does
// not distinguish unknown email, wrong password, or a federation-only
// account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// RegisterInput carries the fields for local registration.
type RegisterInput struct {
	Email     string
	Name      string
	Password  string
	FirstName *string
	LastName  *string
}

// Service implements local registration and login.
type Service struct {
	repo   users.Repository
	hasher *Hasher
	tokens *TokenIssuer
}

// NewService constructs a new Service.
func NewService(repo users.Repository, hasher *Hasher, tokens *TokenIssuer) *Service {
	return &Service{repo: repo, hasher: hasher, tokens: tokens}
}

// Register creates a password-backed account. Email uniqueness is
// checked before name uniqueness so an email conflict is reported even
// when both collide. The storage constraints remain authoritative when
// concurrent registrations race past the pre-checks.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*users.User, error) {
	if _, err := s.repo.FindByEmail(ctx, in.Email); err == nil {
		return nil, users.ErrDuplicateEmail
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}
	if _, err := s.repo.FindByName(ctx, in.Name); err == nil {
		return nil, users.ErrDuplicateName
	} else if !errors.Is(err, users.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	return s.repo.InsertLocal(ctx, in.Email, in.Name, hash, in.FirstName, in.LastName)
}

// Login validates email/password credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(user.ID)
}

// UserFromToken verifies a bearer token and loads its subject.
func (s *Service) UserFromToken(ctx context.Context, token string) (*users.User, error) {
	subject, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, subject)
}
