package prefs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

// Preference keys.
const (
	keyAutomationEnabled = "automation_enabled"
	keyDefaultSMSMessage = "default_sms_message"
	keyOnboardingSeen    = "onboarding_seen"
)

// DefaultSMSBody is the message sent when neither the zone nor the
// global preference supplies one.
const DefaultSMSBody = "I have reached"

// Store defines the interface for preference persistence.
type Store interface {
	AutomationEnabled(ctx context.Context) (bool, error)
	SetAutomationEnabled(ctx context.Context, enabled bool) error
	DefaultSMSMessage(ctx context.Context) (string, error)
	SetDefaultSMSMessage(ctx context.Context, message string) error
	OnboardingSeen(ctx context.Context) (bool, error)
	SetOnboardingSeen(ctx context.Context, seen bool) error
}

// SQLiteStore implements Store backed by a key/value table.
//
// Unset keys read as their defaults: automation on, the stock SMS
// body, onboarding not seen. Writing a value persists it; defaults are
// never materialised as rows.
type SQLiteStore struct {
	db *sql.DB

	mu   sync.Mutex
	subs []chan bool
}

// NewSQLiteStore creates a new SQLite-backed preference store.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// AutomationEnabled reports whether zone automation is globally active.
// Defaults to true when never set.
func (s *SQLiteStore) AutomationEnabled(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyAutomationEnabled, true)
}

// SetAutomationEnabled persists the global automation toggle and
// notifies subscribers of the new value.
func (s *SQLiteStore) SetAutomationEnabled(ctx context.Context, enabled bool) error {
	if err := s.set(ctx, keyAutomationEnabled, strconv.FormatBool(enabled)); err != nil {
		return err
	}
	s.publish(enabled)
	return nil
}

// DefaultSMSMessage returns the fallback SMS body for zones without one.
func (s *SQLiteStore) DefaultSMSMessage(ctx context.Context) (string, error) {
	return s.get(ctx, keyDefaultSMSMessage, DefaultSMSBody)
}

// SetDefaultSMSMessage persists the fallback SMS body.
func (s *SQLiteStore) SetDefaultSMSMessage(ctx context.Context, message string) error {
	return s.set(ctx, keyDefaultSMSMessage, message)
}

// OnboardingSeen reports whether the first-run flow has completed.
// Defaults to false when never set.
func (s *SQLiteStore) OnboardingSeen(ctx context.Context) (bool, error) {
	return s.getBool(ctx, keyOnboardingSeen, false)
}

// SetOnboardingSeen persists the first-run completion flag.
func (s *SQLiteStore) SetOnboardingSeen(ctx context.Context, seen bool) error {
	return s.set(ctx, keyOnboardingSeen, strconv.FormatBool(seen))
}

// SubscribeAutomationToggle returns a channel that receives the new
// value each time the global automation toggle is written, until the
// context is cancelled.
func (s *SQLiteStore) SubscribeAutomationToggle(ctx context.Context) <-chan bool {
	ch := make(chan bool, 4)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				break
			}
		}
		s.mu.Unlock()
		close(ch)
	}()

	return ch
}

func (s *SQLiteStore) publish(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- enabled:
		default:
		}
	}
}

func (s *SQLiteStore) get(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM preferences WHERE key = ?", key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return fallback, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %q: %w", key, err)
	}
	return value, nil
}

func (s *SQLiteStore) getBool(ctx context.Context, key string, fallback bool) (bool, error) {
	value, err := s.get(ctx, key, strconv.FormatBool(fallback))
	if err != nil {
		return false, err
	}
	parsed, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return fallback, nil
	}
	return parsed, nil
}

func (s *SQLiteStore) set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing preference %q: %w", key, err)
	}
	return nil
}
