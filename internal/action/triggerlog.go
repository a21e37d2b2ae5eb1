package action

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// TriggerRecord is one row of the trigger history.
type TriggerRecord struct {
	ID          int64        `json:"id"`
	ZoneID      string       `json:"zone_id"`
	TriggeredAt time.Time    `json:"triggered_at"`
	Steps       []StepResult `json:"steps"`
}

// TriggerLog records executor outcomes for later inspection.
type TriggerLog interface {
	Record(ctx context.Context, outcome Outcome) error
	Recent(ctx context.Context, limit int) ([]TriggerRecord, error)
}

// SQLiteTriggerLog implements TriggerLog on the trigger_log table.
// Step results are stored as a JSON array per row.
type SQLiteTriggerLog struct {
	db *sql.DB
}

// NewSQLiteTriggerLog creates a SQLite-backed trigger log.
func NewSQLiteTriggerLog(db *sql.DB) *SQLiteTriggerLog {
	return &SQLiteTriggerLog{db: db}
}

// Record appends one outcome to the log.
func (l *SQLiteTriggerLog) Record(ctx context.Context, outcome Outcome) error {
	steps, err := json.Marshal(outcome.Steps)
	if err != nil {
		return fmt.Errorf("encoding step results: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO trigger_log (zone_id, triggered_at, steps)
		VALUES (?, ?, ?)`,
		outcome.ZoneID,
		outcome.TriggeredAt.UTC().Format(time.RFC3339),
		string(steps),
	)
	if err != nil {
		return fmt.Errorf("inserting trigger record: %w", err)
	}
	return nil
}

// Recent returns the newest records, most recent first.
func (l *SQLiteTriggerLog) Recent(ctx context.Context, limit int) ([]TriggerRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT id, zone_id, triggered_at, steps
		FROM trigger_log
		ORDER BY triggered_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trigger log: %w", err)
	}
	defer rows.Close()

	var records []TriggerRecord
	for rows.Next() {
		var rec TriggerRecord
		var triggeredAt, steps string
		if err := rows.Scan(&rec.ID, &rec.ZoneID, &triggeredAt, &steps); err != nil {
			return nil, fmt.Errorf("scanning trigger record: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, triggeredAt); parseErr == nil {
			rec.TriggeredAt = t
		}
		if err := json.Unmarshal([]byte(steps), &rec.Steps); err != nil {
			return nil, fmt.Errorf("decoding step results: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating trigger log: %w", err)
	}
	return records, nil
}
