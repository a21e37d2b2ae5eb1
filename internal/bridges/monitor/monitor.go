package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/geosilent/geosilent-core/internal/geofence"
	"github.com/geosilent/geosilent-core/internal/infrastructure/mqtt"
)

// MQTTClient is the subset of the MQTT client the bridge needs.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Logger is the minimal logging interface the bridge needs.
type Logger interface {
	Debug(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Bridge talks to the external boundary monitor over MQTT.
//
// Commands go out on geosilent/monitor/register and /unregister;
// crossing reports come back on geosilent/monitor/transition. The
// bridge implements geofence.Monitor for the sync engine and exposes
// the decoded transition stream for the handler.
type Bridge struct {
	client MQTTClient
	qos    byte
	logger Logger
	topics mqtt.Topics
}

// New creates a monitor bridge. Logger may be nil.
func New(client MQTTClient, qos byte, logger Logger) *Bridge {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Bridge{
		client: client,
		qos:    qos,
		logger: logger,
	}
}

// AddRegistrations sends one batch of boundaries to the monitor.
// The dwell delay rides along so the monitor and daemon agree on it.
func (b *Bridge) AddRegistrations(ctx context.Context, regs []geofence.Registration) error {
	payload, err := encodeRegisterCommand(regs)
	if err != nil {
		return fmt.Errorf("encoding register command: %w", err)
	}
	if err := b.client.Publish(b.topics.MonitorRegister(), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing register command: %w", err)
	}
	b.logger.Debug("register command sent", "count", len(regs))
	return nil
}

// Remove unregisters a single boundary by key.
func (b *Bridge) Remove(ctx context.Context, key string) error {
	payload, err := encodeUnregisterCommand(key, false)
	if err != nil {
		return fmt.Errorf("encoding unregister command: %w", err)
	}
	if err := b.client.Publish(b.topics.MonitorUnregister(), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing unregister command: %w", err)
	}
	b.logger.Debug("unregister command sent", "key", key)
	return nil
}

// RemoveAll unregisters every boundary owned by this daemon.
func (b *Bridge) RemoveAll(ctx context.Context) error {
	payload, err := encodeUnregisterCommand("", true)
	if err != nil {
		return fmt.Errorf("encoding unregister command: %w", err)
	}
	if err := b.client.Publish(b.topics.MonitorUnregister(), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing unregister command: %w", err)
	}
	b.logger.Debug("unregister all command sent")
	return nil
}

// Transitions subscribes to the monitor's crossing reports and returns
// the decoded event stream. Malformed payloads are logged and dropped;
// the channel closes when ctx is cancelled.
//
// The broker may still deliver messages after cancellation; sends and
// closure share a mutex so a late delivery is dropped rather than
// hitting a closed channel.
func (b *Bridge) Transitions(ctx context.Context) (<-chan geofence.TransitionEvent, error) {
	events := make(chan geofence.TransitionEvent, 16)

	var mu sync.Mutex
	closed := false

	err := b.client.Subscribe(b.topics.MonitorTransition(), b.qos, func(topic string, payload []byte) error {
		event, err := decodeTransition(payload)
		if err != nil {
			b.logger.Warn("malformed transition dropped", "error", err)
			return nil
		}

		mu.Lock()
		defer mu.Unlock()
		if closed {
			b.logger.Debug("transition dropped, stream closed")
			return nil
		}
		select {
		case events <- event:
		default:
			b.logger.Warn("transition dropped, consumer backlogged")
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("subscribing to transitions: %w", err)
	}

	go func() {
		<-ctx.Done()
		mu.Lock()
		closed = true
		close(events)
		mu.Unlock()
	}()

	return events, nil
}

// ─── Wire Codec ─────────────────────────────────────────────────────────────

type registerCommand struct {
	Registrations []geofence.Registration `json:"registrations"`
	DwellSeconds  int                     `json:"dwell_seconds"`
	Transition    string                  `json:"transition"`
}

type unregisterCommand struct {
	Key string `json:"key,omitempty"`
	All bool   `json:"all,omitempty"`
}

func encodeRegisterCommand(regs []geofence.Registration) ([]byte, error) {
	return json.Marshal(registerCommand{
		Registrations: regs,
		DwellSeconds:  int(geofence.DwellDelay.Seconds()),
		Transition:    string(geofence.TransitionEnter),
	})
}

func encodeUnregisterCommand(key string, all bool) ([]byte, error) {
	return json.Marshal(unregisterCommand{Key: key, All: all})
}

func decodeTransition(payload []byte) (geofence.TransitionEvent, error) {
	var event geofence.TransitionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return geofence.TransitionEvent{}, fmt.Errorf("decoding transition: %w", err)
	}
	return event, nil
}
