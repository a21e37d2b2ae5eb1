package mqtt

import (
	"errors"
	"testing"

	"github.com/geosilent/geosilent-core/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "localhost",
			Port:     1883,
			ClientID: "geosilent-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}
}

func disconnectedClient() *Client {
	return &Client{
		cfg:           testConfig(),
		subscriptions: make(map[string]subscription),
	}
}

func TestPublishValidation(t *testing.T) {
	c := disconnectedClient()

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "geosilent/test", []byte("x"), 3, ErrInvalidQoS},
		{"oversized payload", "geosilent/test", make([]byte, maxPayloadSize+1), 1, ErrPublishFailed},
		{"not connected", "geosilent/test", []byte("x"), 1, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := disconnectedClient()
	handler := func(topic string, payload []byte) error { return nil }

	if err := c.Subscribe("", 1, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v, want ErrInvalidTopic", err)
	}
	if err := c.Subscribe("geosilent/test", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("invalid qos: got %v, want ErrInvalidQoS", err)
	}
	if err := c.Subscribe("geosilent/test", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: got %v, want ErrSubscribeFailed", err)
	}
	if err := c.Subscribe("geosilent/test", 1, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("not connected: got %v, want ErrNotConnected", err)
	}
	if c.SubscriptionCount() != 0 {
		t.Errorf("failed subscriptions should not be tracked, count = %d", c.SubscriptionCount())
	}
}

func TestTopicBuilders(t *testing.T) {
	topics := Topics{}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"monitor register", topics.MonitorRegister(), "geosilent/monitor/register"},
		{"monitor unregister", topics.MonitorUnregister(), "geosilent/monitor/unregister"},
		{"monitor transition", topics.MonitorTransition(), "geosilent/monitor/transition"},
		{"host command", topics.HostCommand("ringer"), "geosilent/host/command/ringer"},
		{"system status", topics.SystemStatus(), "geosilent/system/status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth.Username = "core"
	cfg.Auth.Password = "secret"

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("got %d servers, want 1", len(opts.Servers))
	}
	if opts.Servers[0].String() != "tcp://localhost:1883" {
		t.Errorf("broker URL = %q, want tcp://localhost:1883", opts.Servers[0].String())
	}
	if opts.ClientID != "geosilent-test" {
		t.Errorf("ClientID = %q, want geosilent-test", opts.ClientID)
	}
	if opts.Username != "core" {
		t.Errorf("Username = %q, want core", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect should be enabled")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true

	opts := buildClientOptions(cfg)
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil {
		t.Fatal("TLSConfig should be set")
	}
	if opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Errorf("MinVersion = %d, want %d", opts.TLSConfig.MinVersion, tlsMinVersion)
	}
}
