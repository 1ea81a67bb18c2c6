package registry

import (
	"context"
	"os"
	"testing"

	"github.com/mockhive/mockhive/internal/storage/sqlite"
	"github.com/mockhive/mockhive/pkg/mock"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()
	tmpFile, err := os.CreateTemp("", "mockhive-registry-*.db")
	if err != nil {
		t.Fatal(err)
	}
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpFile.Name()) })

	store, err := sqlite.New(tmpFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	if err := store.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	return NewManager(store)
}

func testSet(name string) *mock.Set {
	return &mock.Set{
		Name: name,
		Endpoints: []mock.Endpoint{
			{
				Path:      "/ping",
				Method:    "GET",
				Status:    200,
				Responses: []*mock.Response{mock.New().WithStatus(200).WithBody("pong")},
			},
		},
	}
}

func TestImportAssignsIDAndVersion(t *testing.T) {
	mgr := setupManager(t)
	ctx := context.Background()

	set := testSet("ping")
	if err := mgr.Import(ctx, set); err != nil {
		t.Fatalf("Import: %v", err)
	}
	if set.ID == "" {
		t.Error("Import did not assign an ID")
	}
	if set.Version != 1 {
		t.Errorf("Version = %d, want 1", set.Version)
	}
	if set.CreatedAt.IsZero() || set.UpdatedAt.IsZero() {
		t.Error("Import did not set timestamps")
	}
}

func TestResolveByIDAndName(t *testing.T) {
	mgr := setupManager(t)
	ctx := context.Background()

	set := testSet("ping")
	if err := mgr.Import(ctx, set); err != nil {
		t.Fatal(err)
	}

	byID, err := mgr.Resolve(ctx, set.ID)
	if err != nil {
		t.Fatalf("Resolve by ID: %v", err)
	}
	if byID.Name != "ping" {
		t.Errorf("Name = %q, want %q", byID.Name, "ping")
	}

	byName, err := mgr.Resolve(ctx, "ping")
	if err != nil {
		t.Fatalf("Resolve by name: %v", err)
	}
	if byName.ID != set.ID {
		t.Errorf("ID = %q, want %q", byName.ID, set.ID)
	}
}

func TestResolveNotFound(t *testing.T) {
	mgr := setupManager(t)

	if _, err := mgr.Resolve(context.Background(), "ghost"); err == nil {
		t.Fatal("Resolve: expected error for unknown set")
	}
}

func TestUpdateBumpsVersion(t *testing.T) {
	mgr := setupManager(t)
	ctx := context.Background()

	set := testSet("ping")
	if err := mgr.Import(ctx, set); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Update(ctx, set); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := mgr.Get(ctx, set.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 {
		t.Errorf("Version = %d, want 2", got.Version)
	}
}

func TestDelete(t *testing.T) {
	mgr := setupManager(t)
	ctx := context.Background()

	set := testSet("ping")
	if err := mgr.Import(ctx, set); err != nil {
		t.Fatal(err)
	}
	if err := mgr.Delete(ctx, set.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, err := mgr.Get(ctx, set.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Error("Get: expected nil after delete")
	}
}
