package zone

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for zone persistence.
// This abstraction allows different implementations (SQLite, mock, etc.)
// and enables unit testing without database dependencies.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Zone, error)
	List(ctx context.Context) ([]Zone, error)
	ListEnabled(ctx context.Context) ([]Zone, error)
	Create(ctx context.Context, z *Zone) error
	Update(ctx context.Context, z *Zone) error
	Delete(ctx context.Context, id string) error
	SetEnabled(ctx context.Context, id string, enabled bool) error
	SetLastTriggered(ctx context.Context, id string, at time.Time) error
	Count(ctx context.Context) (int, error)
}

// zoneColumns is the SELECT column list for zone queries.
const zoneColumns = `id, name, latitude, longitude, radius, enabled,
			enable_silent, enable_dnd, enable_sms, sms_recipient, sms_message,
			enable_launch, launch_target, launch_name,
			created_at, last_triggered_at`

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// GetByID retrieves a zone by its unique identifier.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE id = ?`

	row := r.db.QueryRowContext(ctx, query, id)
	z, err := scanZoneRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("querying zone by id: %w", err)
	}
	return z, nil
}

// List retrieves all zones, newest first.
func (r *SQLiteRepository) List(ctx context.Context) ([]Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones ORDER BY created_at DESC`
	return r.queryZones(ctx, query)
}

// ListEnabled retrieves all zones eligible for boundary registration.
func (r *SQLiteRepository) ListEnabled(ctx context.Context) ([]Zone, error) {
	query := `SELECT ` + zoneColumns + ` FROM zones WHERE enabled = 1 ORDER BY created_at DESC`
	return r.queryZones(ctx, query)
}

// Create inserts a new zone.
//
// Write-time invariants are applied here: a missing ID and CreatedAt are
// assigned, the radius is clamped, and the silent-mode flag is forced on.
func (r *SQLiteRepository) Create(ctx context.Context, z *Zone) error {
	if err := Validate(z); err != nil {
		return err
	}
	Normalize(z)

	if z.ID == "" {
		z.ID = GenerateID()
	}
	if z.CreatedAt.IsZero() {
		z.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO zones (
			id, name, latitude, longitude, radius, enabled,
			enable_silent, enable_dnd, enable_sms, sms_recipient, sms_message,
			enable_launch, launch_target, launch_name,
			created_at, last_triggered_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		z.ID,
		z.Name,
		z.Latitude,
		z.Longitude,
		z.Radius,
		boolToInt(z.Enabled),
		boolToInt(z.EnableSilent),
		boolToInt(z.EnableDND),
		boolToInt(z.EnableSMS),
		z.SMSRecipient,
		z.SMSMessage,
		boolToInt(z.EnableLaunch),
		z.LaunchTarget,
		z.LaunchName,
		z.CreatedAt.Format(time.RFC3339),
		nullableTime(z.LastTriggeredAt),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrExists
		}
		return fmt.Errorf("inserting zone: %w", err)
	}
	return nil
}

// Update modifies an existing zone in place.
// The ID, creation timestamp, and last-triggered timestamp are preserved.
func (r *SQLiteRepository) Update(ctx context.Context, z *Zone) error {
	if err := Validate(z); err != nil {
		return err
	}
	Normalize(z)

	query := `
		UPDATE zones SET
			name = ?, latitude = ?, longitude = ?, radius = ?, enabled = ?,
			enable_silent = ?, enable_dnd = ?, enable_sms = ?,
			sms_recipient = ?, sms_message = ?,
			enable_launch = ?, launch_target = ?, launch_name = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		z.Name,
		z.Latitude,
		z.Longitude,
		z.Radius,
		boolToInt(z.Enabled),
		boolToInt(z.EnableSilent),
		boolToInt(z.EnableDND),
		boolToInt(z.EnableSMS),
		z.SMSRecipient,
		z.SMSMessage,
		boolToInt(z.EnableLaunch),
		z.LaunchTarget,
		z.LaunchName,
		z.ID,
	)
	if err != nil {
		return fmt.Errorf("updating zone: %w", err)
	}

	return checkRowsAffected(result.RowsAffected())
}

// Delete removes a zone by ID.
func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM zones WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting zone: %w", err)
	}
	return checkRowsAffected(result.RowsAffected())
}

// SetEnabled flips a zone's enabled flag without touching other fields.
func (r *SQLiteRepository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE zones SET enabled = ? WHERE id = ?",
		boolToInt(enabled), id,
	)
	if err != nil {
		return fmt.Errorf("setting zone enabled: %w", err)
	}
	return checkRowsAffected(result.RowsAffected())
}

// SetLastTriggered records the time a zone's entry actions last ran.
func (r *SQLiteRepository) SetLastTriggered(ctx context.Context, id string, at time.Time) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE zones SET last_triggered_at = ? WHERE id = ?",
		at.UTC().Format(time.RFC3339), id,
	)
	if err != nil {
		return fmt.Errorf("setting last triggered: %w", err)
	}
	return checkRowsAffected(result.RowsAffected())
}

// Count returns the total number of zones.
func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM zones").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting zones: %w", err)
	}
	return count, nil
}

// queryZones executes a query and returns a slice of zones.
func (r *SQLiteRepository) queryZones(ctx context.Context, query string, args ...any) ([]Zone, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying zones: %w", err)
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		z, scanErr := scanZoneRow(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scanning zone: %w", scanErr)
		}
		zones = append(zones, *z)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zones: %w", err)
	}
	return zones, nil
}

// ─── Row Scanning Helpers ───────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanZoneRow(scanner rowScanner) (*Zone, error) {
	var z Zone
	var enabled, enableSilent, enableDND, enableSMS, enableLaunch int
	var createdAt string
	var lastTriggeredAt sql.NullString

	err := scanner.Scan(
		&z.ID,
		&z.Name,
		&z.Latitude,
		&z.Longitude,
		&z.Radius,
		&enabled,
		&enableSilent,
		&enableDND,
		&enableSMS,
		&z.SMSRecipient,
		&z.SMSMessage,
		&enableLaunch,
		&z.LaunchTarget,
		&z.LaunchName,
		&createdAt,
		&lastTriggeredAt,
	)
	if err != nil {
		return nil, err
	}

	z.Enabled = enabled != 0
	z.EnableSilent = enableSilent != 0
	z.EnableDND = enableDND != 0
	z.EnableSMS = enableSMS != 0
	z.EnableLaunch = enableLaunch != 0

	if t, parseErr := time.Parse(time.RFC3339, createdAt); parseErr == nil {
		z.CreatedAt = t
	}
	if lastTriggeredAt.Valid {
		if t, parseErr := time.Parse(time.RFC3339, lastTriggeredAt.String); parseErr == nil {
			z.LastTriggeredAt = &t
		}
	}

	return &z, nil
}

// ─── SQL Helpers ────────────────────────────────────────────────────────────

func checkRowsAffected(rowsAffected int64, err error) error {
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(time.RFC3339), Valid: true}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
