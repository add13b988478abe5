// README: User service tests (registration, credentials, roles).
package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"fleetops/internal/testdb"
	"fleetops/internal/types"
)

func setupService(t *testing.T) (*Service, *pgxpool.Pool) {
	t.Helper()
	db := testdb.Setup(t, "user_roles", "users")
	return NewService(NewStore(db)), db
}

func uniqueEmail() string {
	return string(types.NewID())[:8] + "@fleet.test"
}

func TestUserCreateAndAuthenticate(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	email := uniqueEmail()
	u, err := svc.Create(ctx, CreateCommand{
		Email:    strings.ToUpper(email), // stored lowercased
		Password: "hunter2hunter2",
		FullName: "Pat Fleet",
		Roles:    []string{RoleDispatcher, RoleFleetManager},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Email != email {
		t.Fatalf("email = %q, want lowercased %q", u.Email, email)
	}
	if !u.HasRole(RoleDispatcher) || !u.HasRole(RoleFleetManager) {
		t.Fatalf("roles = %v, want dispatcher and fleet_manager", u.Roles)
	}
	if u.HasRole(RoleAdmin) {
		t.Fatal("unexpected admin role")
	}

	got, err := svc.Authenticate(ctx, email, "hunter2hunter2")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated user = %s, want %s", got.ID, u.ID)
	}

	if _, err := svc.Authenticate(ctx, email, "wrong-password"); err != ErrInvalidCredentials {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@fleet.test", "hunter2hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUserCreateValidation(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	cases := []CreateCommand{
		{Password: "hunter2hunter2", FullName: "X"},             // missing email
		{Email: uniqueEmail(), Password: "short", FullName: "X"}, // password too short
		{Email: uniqueEmail(), Password: "hunter2hunter2"},       // missing name
	}
	for i, cmd := range cases {
		if _, err := svc.Create(ctx, cmd); err != ErrBadRequest {
			t.Errorf("case %d: expected ErrBadRequest, got %v", i, err)
		}
	}
}

func TestAuthenticateRecordsLogin(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	email := uniqueEmail()
	u, err := svc.Create(ctx, CreateCommand{
		Email: email, Password: "hunter2hunter2", FullName: "Login Tracker",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.LastLoginAt != nil {
		t.Fatal("expected no login recorded before first authenticate")
	}

	if _, err := svc.Authenticate(ctx, email, "hunter2hunter2"); err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	after, err := svc.Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if after.LastLoginAt == nil {
		t.Fatal("expected last_login_at to be set after authenticate")
	}
}

func TestAuthenticateRejectsInactiveUser(t *testing.T) {
	svc, db := setupService(t)
	ctx := context.Background()

	email := uniqueEmail()
	u, err := svc.Create(ctx, CreateCommand{
		Email: email, Password: "hunter2hunter2", FullName: "Dormant Account",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := db.Exec(ctx, `UPDATE users SET is_active = false WHERE id = $1`, string(u.ID)); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if _, err := svc.Authenticate(ctx, email, "hunter2hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("inactive user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestCreateRejectsUnknownRole(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	email := uniqueEmail()
	_, err := svc.Create(ctx, CreateCommand{
		Email:    email,
		Password: "hunter2hunter2",
		FullName: "No Such Role",
		Roles:    []string{"warehouse_wizard"},
	})
	if !errors.Is(err, ErrBadRequest) {
		t.Fatalf("expected ErrBadRequest for unknown role name, got %v", err)
	}

	// The rolled-back transaction must not leave the user behind.
	if _, err := svc.Authenticate(ctx, email, "hunter2hunter2"); err != ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unpersisted user, got %v", err)
	}
}
