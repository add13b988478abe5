// README: Vehicle service tests (CRUD, direct status path, ledger).
package vehicle

import (
	"context"
	"testing"

	"fleetops/internal/fleeterr"
	"fleetops/internal/testdb"
	"fleetops/internal/types"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	db := testdb.Setup(t,
		"trip_status_history", "trips",
		"maintenance_logs",
		"vehicle_status_history", "vehicles",
	)
	return NewService(NewStore(db))
}

func mustCreate(t *testing.T, svc *Service) *Vehicle {
	t.Helper()
	v, err := svc.Create(context.Background(), CreateCommand{
		Name:          "Box Truck",
		LicensePlate:  string(types.NewID()),
		VehicleType:   TypeTruck,
		MaxCapacityKg: 2000,
	})
	if err != nil {
		t.Fatalf("create vehicle: %v", err)
	}
	return v
}

func TestVehicleCreateDefaults(t *testing.T) {
	svc := setupService(t)
	v := mustCreate(t, svc)

	if v.Status != StatusAvailable {
		t.Fatalf("new vehicle status = %s, want available", v.Status)
	}
	if v.OdometerKm != 0 {
		t.Fatalf("odometer = %v, want 0", v.OdometerKm)
	}
}

func TestVehicleCreateValidation(t *testing.T) {
	svc := setupService(t)
	cases := []CreateCommand{
		{LicensePlate: "X", VehicleType: TypeVan, MaxCapacityKg: 10},     // no name
		{Name: "V", VehicleType: TypeVan, MaxCapacityKg: 10},             // no plate
		{Name: "V", LicensePlate: "X", VehicleType: "boat", MaxCapacityKg: 10}, // bad type
		{Name: "V", LicensePlate: "X", VehicleType: TypeVan},             // no capacity
	}
	for i, cmd := range cases {
		if _, err := svc.Create(context.Background(), cmd); err != ErrBadRequest {
			t.Errorf("case %d: expected ErrBadRequest, got %v", i, err)
		}
	}
}

func TestVehicleUpdateStatusWritesHistory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	v := mustCreate(t, svc)

	status := StatusInShop
	reason := "brake inspection"
	updated, err := svc.Update(ctx, v.ID, UpdateCommand{Status: &status, Reason: &reason})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusInShop {
		t.Fatalf("status = %s, want in_shop", updated.Status)
	}

	entries, err := svc.History(ctx, v.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	e := entries[0]
	if e.OldStatus == nil || *e.OldStatus != StatusAvailable || e.NewStatus != StatusInShop {
		t.Fatalf("history entry = %v -> %s", e.OldStatus, e.NewStatus)
	}
	if e.Reason == nil || *e.Reason != reason {
		t.Fatalf("reason = %v, want %q", e.Reason, reason)
	}
}

func TestVehicleUpdateWithoutStatusChangeWritesNoHistory(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	v := mustCreate(t, svc)

	// Non-status fields only.
	name := "Renamed Truck"
	if _, err := svc.Update(ctx, v.ID, UpdateCommand{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}

	// Same status is a no-op for the ledger.
	status := StatusAvailable
	if _, err := svc.Update(ctx, v.ID, UpdateCommand{Status: &status}); err != nil {
		t.Fatalf("update: %v", err)
	}

	entries, err := svc.History(ctx, v.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no history entries, got %d", len(entries))
	}
}

func TestVehicleRetire(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	v := mustCreate(t, svc)

	retired, err := svc.Retire(ctx, v.ID, nil)
	if err != nil {
		t.Fatalf("retire: %v", err)
	}
	if retired.Status != StatusRetired {
		t.Fatalf("status = %s, want retired", retired.Status)
	}

	entries, err := svc.History(ctx, v.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(entries))
	}
	if entries[0].Reason == nil || *entries[0].Reason != "Manually retired" {
		t.Fatalf("reason = %v, want 'Manually retired'", entries[0].Reason)
	}
}

func TestVehicleAvailableListing(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	v1 := mustCreate(t, svc)
	v2 := mustCreate(t, svc)
	if _, err := svc.Retire(ctx, v2.ID, nil); err != nil {
		t.Fatalf("retire: %v", err)
	}

	got, err := svc.Available(ctx)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if len(got) != 1 || got[0].ID != v1.ID {
		t.Fatalf("expected only the non-retired vehicle, got %d", len(got))
	}
}

func TestVehicleGetNotFound(t *testing.T) {
	svc := setupService(t)
	if _, err := svc.Get(context.Background(), types.NewID()); !fleeterr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVehicleListFilters(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	region := "north"
	if _, err := svc.Create(ctx, CreateCommand{
		Name: "North Van", LicensePlate: string(types.NewID()),
		VehicleType: TypeVan, MaxCapacityKg: 800, Region: &region,
	}); err != nil {
		t.Fatalf("create: %v", err)
	}
	mustCreate(t, svc)

	got, err := svc.List(ctx, ListFilter{Region: &region})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Region == nil || *got[0].Region != region {
		t.Fatalf("expected 1 vehicle in region %q, got %d", region, len(got))
	}
}
