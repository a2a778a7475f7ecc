package user

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Admin holds the single back-office account configured through the environment.
type Admin struct {
	Email    string
	Password string
}

type Service struct {
	repo  Repository
	admin Admin
}

func NewService(repo Repository, admin Admin) *Service {
	return &Service{repo: repo, admin: admin}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. Input shape (email format, password length) is
// validated by the caller's binding.
func (s *Service) Register(ctx context.Context, name, email, password string) (*User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(name),
		Email:        NormalizeEmail(email),
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Login returns ErrNotFound for an unknown email and ErrInvalidCredentials for
// a wrong password.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) AdminLogin(email, password string) error {
	emailOK := subtle.ConstantTimeCompare([]byte(NormalizeEmail(email)), []byte(NormalizeEmail(s.admin.Email))) == 1
	pwOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if s.admin.Email == "" || !emailOK || !pwOK {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}
