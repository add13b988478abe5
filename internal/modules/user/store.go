// README: User store backed by PostgreSQL.
package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/fleeterr"
	"fleetops/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, u *User) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, is_active)
		VALUES ($1, $2, $3, $4, $5)`,
		string(u.ID), u.Email, u.PasswordHash, u.FullName, u.IsActive,
	)
	if err != nil {
		return err
	}
	for _, role := range u.Roles {
		tag, err := tx.Exec(ctx, `
			INSERT INTO user_roles (id, user_id, role_id)
			SELECT $1, $2, id FROM roles WHERE name = $3`,
			string(types.NewID()), string(u.ID), role,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("unknown role %q: %w", role, ErrBadRequest)
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) GetByID(ctx context.Context, id types.ID) (*User, error) {
	return s.get(ctx, `WHERE u.id = $1`, string(id))
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*User, error) {
	return s.get(ctx, `WHERE u.email = $1`, email)
}

func (s *Store) get(ctx context.Context, where string, arg any) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT u.id, u.email, u.password_hash, u.full_name, u.is_active,
		       u.last_login_at, u.created_at, u.updated_at,
		       COALESCE(array_agg(r.name) FILTER (WHERE r.name IS NOT NULL), '{}')
		FROM users u
		LEFT JOIN user_roles ur ON ur.user_id = u.id
		LEFT JOIN roles r ON r.id = ur.role_id
		`+where+`
		GROUP BY u.id`, arg)

	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsActive,
		&u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt, &u.Roles)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fleeterr.NotFound("user")
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) RecordLogin(ctx context.Context, id types.ID, at time.Time) error {
	_, err := s.db.Exec(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = now() WHERE id = $1`,
		string(id), at)
	return err
}
