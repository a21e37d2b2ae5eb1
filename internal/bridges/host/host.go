package host

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/geosilent/geosilent-core/internal/infrastructure/mqtt"
)

// Host primitive names, used as the last topic segment.
const (
	primitiveRinger = "ringer"
	primitiveDND    = "dnd"
	primitiveSMS    = "sms"
)

// MQTTClient is the subset of the MQTT client the bridge needs.
type MQTTClient interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// Bridge drives the host's ringer, do-not-disturb, and SMS primitives
// over MQTT. It satisfies the executor's Ringer, PolicyController, and
// Messenger interfaces.
//
// Commands are fire-and-forget at the configured QoS: the host agent
// acks on its own topic but the entry pipeline does not wait for it.
type Bridge struct {
	client MQTTClient
	qos    byte
	topics mqtt.Topics
}

// New creates a host bridge.
func New(client MQTTClient, qos byte) *Bridge {
	return &Bridge{client: client, qos: qos}
}

// ─── Ringer ─────────────────────────────────────────────────────────────────

type ringerCommand struct {
	Mode string `json:"mode"`
}

// SetSilent switches the host ringer to silent.
func (b *Bridge) SetSilent(ctx context.Context) error {
	return b.publishRinger("silent")
}

// SetNormal switches the host ringer back to normal.
func (b *Bridge) SetNormal(ctx context.Context) error {
	return b.publishRinger("normal")
}

func (b *Bridge) publishRinger(mode string) error {
	payload, err := json.Marshal(ringerCommand{Mode: mode})
	if err != nil {
		return fmt.Errorf("encoding ringer command: %w", err)
	}
	if err := b.client.Publish(b.topics.HostCommand(primitiveRinger), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing ringer command: %w", err)
	}
	return nil
}

// ─── Do Not Disturb ─────────────────────────────────────────────────────────

type dndCommand struct {
	Enabled bool `json:"enabled"`
}

// EnableDND turns on the host do-not-disturb filter.
func (b *Bridge) EnableDND(ctx context.Context) error {
	return b.publishDND(true)
}

// DisableDND turns off the host do-not-disturb filter.
func (b *Bridge) DisableDND(ctx context.Context) error {
	return b.publishDND(false)
}

func (b *Bridge) publishDND(enabled bool) error {
	payload, err := json.Marshal(dndCommand{Enabled: enabled})
	if err != nil {
		return fmt.Errorf("encoding dnd command: %w", err)
	}
	if err := b.client.Publish(b.topics.HostCommand(primitiveDND), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing dnd command: %w", err)
	}
	return nil
}

// ─── SMS ────────────────────────────────────────────────────────────────────

type smsCommand struct {
	Recipient string `json:"recipient"`
	Body      string `json:"body"`
}

// Send hands a text message to the host for delivery.
func (b *Bridge) Send(ctx context.Context, recipient, body string) error {
	payload, err := json.Marshal(smsCommand{Recipient: recipient, Body: body})
	if err != nil {
		return fmt.Errorf("encoding sms command: %w", err)
	}
	if err := b.client.Publish(b.topics.HostCommand(primitiveSMS), payload, b.qos, false); err != nil {
		return fmt.Errorf("publishing sms command: %w", err)
	}
	return nil
}
