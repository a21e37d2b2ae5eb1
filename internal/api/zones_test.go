package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
	"github.com/geosilent/geosilent-core/internal/infrastructure/logging"
	"github.com/geosilent/geosilent-core/internal/permission"
	"github.com/geosilent/geosilent-core/internal/prefs"
	"github.com/geosilent/geosilent-core/internal/zone"
)

// ─── Test Fixtures ──────────────────────────────────────────────────────────

type mockSyncer struct {
	mu    sync.Mutex
	calls []string
}

func (m *mockSyncer) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *mockSyncer) RegisterAll(ctx context.Context) error   { m.record("register_all"); return nil }
func (m *mockSyncer) UnregisterAll(ctx context.Context) error { m.record("unregister_all"); return nil }
func (m *mockSyncer) UnregisterOne(ctx context.Context, zoneID string) error {
	m.record("unregister_one:" + zoneID)
	return nil
}
func (m *mockSyncer) Refresh(ctx context.Context) error { m.record("refresh"); return nil }

func (m *mockSyncer) callList() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

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
		);
		CREATE TABLE preferences (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}

	return db
}

func newTestServer(t *testing.T) (*httptest.Server, *mockSyncer, zone.Repository) {
	t.Helper()

	db := setupTestDB(t)
	zones := zone.NewSQLiteRepository(db)
	syncer := &mockSyncer{}

	server, err := New(Deps{
		Config: config.APIConfig{Host: "127.0.0.1", Port: 0},
		Logger: logging.Default(),
		Zones:  zones,
		Prefs:  prefs.NewSQLiteStore(db),
		Sync:   syncer,
		Perms: permission.NewConfigChecker(config.PermissionsConfig{
			LocationForeground: true,
			LocationBackground: true,
		}),
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ts := httptest.NewServer(server.buildRouter())
	t.Cleanup(ts.Close)
	return ts, syncer, zones
}

func doJSON(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func createTestZone(t *testing.T, ts *httptest.Server) zone.Zone {
	t.Helper()
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/zones", map[string]any{
		"name":      "Office",
		"latitude":  51.5074,
		"longitude": -0.1278,
		"radius":    150,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create zone: status %d", resp.StatusCode)
	}
	return decode[zone.Zone](t, resp)
}

// ─── Tests ──────────────────────────────────────────────────────────────────

func TestCreateZoneRefreshesBoundaries(t *testing.T) {
	ts, syncer, _ := newTestServer(t)

	z := createTestZone(t, ts)
	if z.ID == "" {
		t.Error("created zone should have an ID")
	}
	if !z.EnableSilent {
		t.Error("created zone should have silent forced on")
	}
	if !z.Enabled {
		t.Error("new zones should default to enabled")
	}

	calls := syncer.callList()
	if len(calls) != 1 || calls[0] != "refresh" {
		t.Errorf("sync calls = %v, want [refresh]", calls)
	}
}

func TestCreateZoneClampsRadius(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/zones", map[string]any{
		"name": "Big", "latitude": 0, "longitude": 0, "radius": 9999,
	})
	z := decode[zone.Zone](t, resp)
	if z.Radius != zone.MaxRadius {
		t.Errorf("Radius = %v, want %v", z.Radius, zone.MaxRadius)
	}
}

func TestCreateZoneRejectsBadCoordinates(t *testing.T) {
	ts, syncer, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/zones", map[string]any{
		"name": "Bad", "latitude": 123.0, "longitude": 0,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
	if len(syncer.callList()) != 0 {
		t.Error("failed create should not touch the monitor")
	}
}

func TestGetAndListZones(t *testing.T) {
	ts, _, _ := newTestServer(t)
	z := createTestZone(t, ts)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/zones/"+z.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get zone: status %d", resp.StatusCode)
	}
	got := decode[zone.Zone](t, resp)
	if got.Name != "Office" {
		t.Errorf("Name = %q", got.Name)
	}

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/v1/zones/", nil)
	list := decode[struct {
		Zones []zone.Zone `json:"zones"`
		Count int         `json:"count"`
	}](t, resp)
	if list.Count != 1 {
		t.Errorf("Count = %d, want 1", list.Count)
	}
}

func TestGetZoneNotFound(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/zones/missing", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpdateZone(t *testing.T) {
	ts, syncer, _ := newTestServer(t)
	z := createTestZone(t, ts)

	resp := doJSON(t, http.MethodPut, ts.URL+"/api/v1/zones/"+z.ID, map[string]any{
		"name": "Home", "latitude": 48.85, "longitude": 2.35, "radius": 200,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: status %d", resp.StatusCode)
	}
	updated := decode[zone.Zone](t, resp)
	if updated.Name != "Home" || updated.Radius != 200 {
		t.Errorf("updated = %+v", updated)
	}

	calls := syncer.callList()
	if calls[len(calls)-1] != "refresh" {
		t.Errorf("update should refresh boundaries, calls = %v", calls)
	}
}

func TestDeleteZoneUnregistersBoundary(t *testing.T) {
	ts, syncer, zones := newTestServer(t)
	z := createTestZone(t, ts)

	resp := doJSON(t, http.MethodDelete, ts.URL+"/api/v1/zones/"+z.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: status %d", resp.StatusCode)
	}

	calls := syncer.callList()
	if calls[len(calls)-1] != "unregister_one:"+z.ID {
		t.Errorf("delete should unregister the boundary, calls = %v", calls)
	}

	remaining, err := zones.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("zone still in store after delete")
	}
}

func TestEnableDisableZone(t *testing.T) {
	ts, syncer, _ := newTestServer(t)
	z := createTestZone(t, ts)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/v1/zones/"+z.ID+"/disable", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("disable: status %d", resp.StatusCode)
	}
	calls := syncer.callList()
	if calls[len(calls)-1] != "unregister_one:"+z.ID {
		t.Errorf("disable should unregister, calls = %v", calls)
	}

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/v1/zones/"+z.ID+"/enable", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("enable: status %d", resp.StatusCode)
	}
	calls = syncer.callList()
	if calls[len(calls)-1] != "refresh" {
		t.Errorf("enable should refresh, calls = %v", calls)
	}
}

func TestAutomationTogglesDriveMonitor(t *testing.T) {
	ts, syncer, _ := newTestServer(t)

	resp := doJSON(t, http.MethodPatch, ts.URL+"/api/v1/preferences", map[string]any{
		"automation_enabled": false,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch prefs: status %d", resp.StatusCode)
	}
	prefsResp := decode[preferencesResponse](t, resp)
	if prefsResp.AutomationEnabled {
		t.Error("toggle should be off")
	}

	resp = doJSON(t, http.MethodPatch, ts.URL+"/api/v1/preferences", map[string]any{
		"automation_enabled": true,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("patch prefs: status %d", resp.StatusCode)
	}

	want := []string{"unregister_all", "register_all"}
	calls := syncer.callList()
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Errorf("call %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestGetPreferencesDefaults(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/preferences", nil)
	got := decode[preferencesResponse](t, resp)
	if !got.AutomationEnabled {
		t.Error("automation should default on")
	}
	if got.DefaultSMSMessage != prefs.DefaultSMSBody {
		t.Errorf("DefaultSMSMessage = %q", got.DefaultSMSMessage)
	}
	if got.OnboardingSeen {
		t.Error("onboarding should default to not seen")
	}
}

func TestGetPermissions(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/permissions", nil)
	status := decode[permission.Status](t, resp)
	if !status.LocationForeground || !status.LocationBackground {
		t.Errorf("status = %+v, want location granted", status)
	}
	if status.SendMessage {
		t.Error("SendMessage should not be granted")
	}
}

func TestHealthEndpoint(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: status %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["status"] != "ok" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestListTriggersWithoutLog(t *testing.T) {
	ts, _, _ := newTestServer(t)

	resp := doJSON(t, http.MethodGet, ts.URL+"/api/v1/triggers", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("triggers: status %d", resp.StatusCode)
	}
	body := decode[map[string]any](t, resp)
	if body["count"].(float64) != 0 {
		t.Errorf("count = %v, want 0", body["count"])
	}
}
