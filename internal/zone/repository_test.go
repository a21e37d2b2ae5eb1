package zone

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schema := `
		CREATE TABLE zones (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			radius REAL NOT NULL DEFAULT 100,
			enabled INTEGER NOT NULL DEFAULT 1,
			enable_silent INTEGER NOT NULL DEFAULT 1,
			enable_dnd INTEGER NOT NULL DEFAULT 0,
			enable_sms INTEGER NOT NULL DEFAULT 0,
			sms_recipient TEXT NOT NULL DEFAULT '',
			sms_message TEXT NOT NULL DEFAULT '',
			enable_launch INTEGER NOT NULL DEFAULT 0,
			launch_target TEXT NOT NULL DEFAULT '',
			launch_name TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			last_triggered_at TEXT
		)`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func testZone() *Zone {
	return &Zone{
		Name:      "Office",
		Latitude:  51.5074,
		Longitude: -0.1278,
		Radius:    150,
		Enabled:   true,
		EnableSMS: true,
	}
}

func TestCreateAndGetByID(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if z.ID == "" {
		t.Fatal("Create should assign an ID")
	}
	if z.CreatedAt.IsZero() {
		t.Fatal("Create should assign CreatedAt")
	}

	got, err := repo.GetByID(ctx, z.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Office" {
		t.Errorf("Name = %q, want %q", got.Name, "Office")
	}
	if got.Radius != 150 {
		t.Errorf("Radius = %v, want 150", got.Radius)
	}
	if !got.EnableSilent {
		t.Error("EnableSilent should be forced true on create")
	}
	if got.LastTriggeredAt != nil {
		t.Error("LastTriggeredAt should be nil for a new zone")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateClampsRadius(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		radius float64
		want   float64
	}{
		{"zero gets default", 0, DefaultRadius},
		{"negative gets default", -10, DefaultRadius},
		{"below minimum", 10, MinRadius},
		{"above maximum", 1000, MaxRadius},
		{"in range unchanged", 250, 250},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			z := testZone()
			z.Radius = tt.radius
			if err := repo.Create(ctx, z); err != nil {
				t.Fatalf("Create: %v", err)
			}

			got, err := repo.GetByID(ctx, z.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			if got.Radius != tt.want {
				t.Errorf("Radius = %v, want %v", got.Radius, tt.want)
			}
		})
	}
}

func TestCreateRejectsInvalidCoordinates(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	z := testZone()
	z.Latitude = 91
	err := repo.Create(context.Background(), z)
	if !errors.Is(err, ErrInvalidCoordinates) {
		t.Errorf("expected ErrInvalidCoordinates, got %v", err)
	}
}

func TestCreateDuplicateID(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}

	dup := testZone()
	dup.ID = z.ID
	if err := repo.Create(ctx, dup); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestUpdate(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}
	originalCreated := z.CreatedAt

	z.Name = "Home"
	z.Radius = 9999
	z.EnableSilent = false
	if err := repo.Update(ctx, z); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, z.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Home" {
		t.Errorf("Name = %q, want %q", got.Name, "Home")
	}
	if got.Radius != MaxRadius {
		t.Errorf("Radius = %v, want clamp to %v", got.Radius, MaxRadius)
	}
	if !got.EnableSilent {
		t.Error("EnableSilent should be forced true on update")
	}
	if !got.CreatedAt.Equal(originalCreated) {
		t.Errorf("CreatedAt changed on update: %v -> %v", originalCreated, got.CreatedAt)
	}
}

func TestUpdateNotFound(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))

	z := testZone()
	z.ID = "missing"
	if err := repo.Update(context.Background(), z); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, z.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByID(ctx, z.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("deleted zone still retrievable: %v", err)
	}

	zones, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(zones) != 0 {
		t.Errorf("List returned %d zones after delete, want 0", len(zones))
	}

	if err := repo.Delete(ctx, z.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestListEnabled(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	enabled := testZone()
	if err := repo.Create(ctx, enabled); err != nil {
		t.Fatalf("Create: %v", err)
	}

	disabled := testZone()
	disabled.Name = "Gym"
	disabled.Enabled = false
	if err := repo.Create(ctx, disabled); err != nil {
		t.Fatalf("Create: %v", err)
	}

	zones, err := repo.ListEnabled(ctx)
	if err != nil {
		t.Fatalf("ListEnabled: %v", err)
	}
	if len(zones) != 1 {
		t.Fatalf("ListEnabled returned %d zones, want 1", len(zones))
	}
	if zones[0].ID != enabled.ID {
		t.Errorf("ListEnabled returned %q, want %q", zones[0].ID, enabled.ID)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
}

func TestSetEnabled(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.SetEnabled(ctx, z.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}

	got, err := repo.GetByID(ctx, z.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Enabled {
		t.Error("zone should be disabled")
	}
	if got.Name != "Office" {
		t.Errorf("SetEnabled changed other fields: Name = %q", got.Name)
	}
}

func TestSetLastTriggered(t *testing.T) {
	repo := NewSQLiteRepository(setupTestDB(t))
	ctx := context.Background()

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}

	at := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	if err := repo.SetLastTriggered(ctx, z.ID, at); err != nil {
		t.Fatalf("SetLastTriggered: %v", err)
	}

	got, err := repo.GetByID(ctx, z.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LastTriggeredAt == nil {
		t.Fatal("LastTriggeredAt should be set")
	}
	if !got.LastTriggeredAt.Equal(at) {
		t.Errorf("LastTriggeredAt = %v, want %v", got.LastTriggeredAt, at)
	}
}

func TestNotifyingRepositoryPublishesEvents(t *testing.T) {
	repo := NewNotifyingRepository(NewSQLiteRepository(setupTestDB(t)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := repo.Subscribe(ctx)

	z := testZone()
	if err := repo.Create(ctx, z); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.SetEnabled(ctx, z.ID, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if err := repo.Delete(ctx, z.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	want := []ChangeType{ChangeCreated, ChangeEnabled, ChangeDeleted}
	for i, wantType := range want {
		select {
		case event := <-events:
			if event.Type != wantType {
				t.Errorf("event %d: Type = %q, want %q", i, event.Type, wantType)
			}
			if event.ZoneID != z.ID {
				t.Errorf("event %d: ZoneID = %q, want %q", i, event.ZoneID, z.ID)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for event %d", i)
		}
	}
}

func TestNotifyingRepositorySkipsFailedMutations(t *testing.T) {
	repo := NewNotifyingRepository(NewSQLiteRepository(setupTestDB(t)))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := repo.Subscribe(ctx)

	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	select {
	case event := <-events:
		t.Errorf("unexpected event for failed mutation: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}
