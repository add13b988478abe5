// README: Driver service tests (availability, license alerts, ledger).
package driver

import (
	"context"
	"testing"
	"time"

	"fleetops/internal/testdb"
	"fleetops/internal/types"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db := testdb.Setup(t,
		"trip_status_history", "trips",
		"driver_status_history", "drivers",
	)
	return NewService(NewStore(db))
}

func mustCreate(t *testing.T, svc *Service, expiry time.Time) *Driver {
	t.Helper()
	d, err := svc.Create(context.Background(), CreateCommand{
		FullName:          "Jamie Ortega",
		LicenseNumber:     string(types.NewID()),
		LicenseCategory:   "C",
		LicenseExpiryDate: expiry,
	})
	if err != nil {
		t.Fatalf("create driver: %v", err)
	}
	return d
}

func TestDriverCreateDefaults(t *testing.T) {
	svc := setupService(t)
	d := mustCreate(t, svc, time.Now().AddDate(1, 0, 0))

	if d.Status != StatusAvailable {
		t.Fatalf("new driver status = %s, want available", d.Status)
	}
	if d.SafetyScore != 100 {
		t.Fatalf("safety score = %v, want 100", d.SafetyScore)
	}
	if d.TripsTotal != 0 || d.TripsCompleted != 0 {
		t.Fatalf("counters = %d/%d, want 0/0", d.TripsCompleted, d.TripsTotal)
	}
}

func TestDriverAvailableExcludesExpiredLicense(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	ok := mustCreate(t, svc, time.Now().AddDate(1, 0, 0))
	mustCreate(t, svc, time.Now().AddDate(0, 0, -1)) // expired yesterday

	got, err := svc.Available(ctx)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(got) != 1 || got[0].ID != ok.ID {
		t.Fatalf("expected only the licensed driver, got %d", len(got))
	}
}

func TestDriverLicenseValidOnExpiryDay(t *testing.T) {
	// Expiry is date precision: the license is still valid on the day
	// it expires.
	d := &Driver{LicenseExpiryDate: types.DateOnly(time.Now())}
	if !d.LicenseValid(time.Now()) {
		t.Fatal("expected license valid on its expiry day")
	}
	d.LicenseExpiryDate = types.DateOnly(time.Now().AddDate(0, 0, -1))
	if d.LicenseValid(time.Now()) {
		t.Fatal("expected license invalid the day after expiry")
	}
}

func TestExpiringLicensesOrdering(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	later := mustCreate(t, svc, time.Now().AddDate(0, 0, 20))
	soon := mustCreate(t, svc, time.Now().AddDate(0, 0, 5))
	mustCreate(t, svc, time.Now().AddDate(1, 0, 0)) // outside the window

	got, err := svc.ExpiringLicenses(ctx, 30)
	if err != nil {
		t.Fatalf("expiring licenses: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 drivers in the window, got %d", len(got))
	}
	if got[0].ID != soon.ID || got[1].ID != later.ID {
		t.Fatal("expected soonest-expiring driver first")
	}

	if _, err := svc.ExpiringLicenses(ctx, -1); err != ErrBadRequest {
		t.Fatalf("negative window: expected ErrBadRequest, got %v", err)
	}
}

func TestDriverUpdateStatusWritesHistory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	d := mustCreate(t, svc, time.Now().AddDate(1, 0, 0))

	status := StatusSuspended
	reason := "incident under review"
	updated, err := svc.Update(ctx, d.ID, UpdateCommand{Status: &status, Reason: &reason})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusSuspended {
		t.Fatalf("status = %s, want suspended", updated.Status)
	}

	entries, err := svc.History(ctx, d.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].NewStatus != StatusSuspended {
		t.Fatalf("entry new status = %s, want suspended", entries[0].NewStatus)
	}
}

func TestDriverUpdateLicenseDateTruncated(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	d := mustCreate(t, svc, time.Now().AddDate(1, 0, 0))

	newExpiry := time.Date(2027, 6, 15, 13, 45, 0, 0, time.UTC)
	updated, err := svc.Update(ctx, d.ID, UpdateCommand{LicenseExpiryDate: &newExpiry})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	want := time.Date(2027, 6, 15, 0, 0, 0, 0, time.UTC)
	if !types.DateOnly(updated.LicenseExpiryDate).Equal(want) {
		t.Fatalf("license expiry = %v, want %v", updated.LicenseExpiryDate, want)
	}
}
