// README: User service: registration and credential checks.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetops/internal/auth"
	"fleetops/internal/fleeterr"
	"fleetops/internal/types"
)

var (
	ErrBadRequest         = errors.New("bad request")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type CreateCommand struct {
	Email    string
	Password string
	FullName string
	Roles    []string
}

func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*User, error) {
	if cmd.Email == "" || cmd.FullName == "" || len(cmd.Password) < 8 {
		return nil, ErrBadRequest
	}
	hash, err := auth.HashPassword(cmd.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           types.NewID(),
		Email:        strings.ToLower(cmd.Email),
		PasswordHash: hash,
		FullName:     cmd.FullName,
		IsActive:     true,
		Roles:        cmd.Roles,
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, u.ID)
}

// Authenticate verifies credentials for an active user and records the
// login time.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.store.GetByEmail(ctx, strings.ToLower(email))
	if fleeterr.IsNotFound(err) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive || !auth.VerifyPassword(password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	_ = s.store.RecordLogin(ctx, u.ID, time.Now())
	return u, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*User, error) {
	return s.store.GetByID(ctx, id)
}
