package mqtt

import (
	"errors"
	"strings"
	"testing"

	"github.com/restwell/carebed-core/internal/infrastructure/config"
)

func TestTopics(t *testing.T) {
	topics := Topics{}

	if got := topics.SystemStatus(); got != "carebed/system/status" {
		t.Errorf("SystemStatus() = %q", got)
	}
	if got := topics.BedState("bed-001"); got != "carebed/bed-001/state" {
		t.Errorf("BedState() = %q", got)
	}
	if got := topics.BedBattery("bed-001"); got != "carebed/bed-001/telemetry/battery" {
		t.Errorf("BedBattery() = %q", got)
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "broker.local",
			Port:     1883,
			ClientID: "carebed-core",
		},
		Auth: config.MQTTAuthConfig{Username: "bed", Password: "secret"},
		QoS:  1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     60,
		},
	}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 {
		t.Fatalf("expected 1 broker, got %d", len(opts.Servers))
	}
	if got := opts.Servers[0].String(); got != "tcp://broker.local:1883" {
		t.Errorf("broker URL = %q", got)
	}
	if opts.ClientID != "carebed-core" {
		t.Errorf("client id = %q", opts.ClientID)
	}
	if opts.Username != "bed" {
		t.Errorf("username = %q", opts.Username)
	}
	if !opts.AutoReconnect {
		t.Error("expected auto-reconnect enabled")
	}
}

func TestBuildClientOptionsTLS(t *testing.T) {
	cfg := config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{Host: "broker.local", Port: 8883, TLS: true, ClientID: "carebed-core"},
	}

	opts := buildClientOptions(cfg)

	if got := opts.Servers[0].Scheme; got != "ssl" {
		t.Errorf("scheme = %q, want ssl", got)
	}
	if opts.TLSConfig == nil {
		t.Fatal("expected TLS config")
	}
}

func TestPublishValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}

	if err := c.Publish("", []byte("x"), 0, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v", err)
	}
	if err := c.Publish("carebed/bed-001/state", []byte("x"), 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: got %v", err)
	}
	big := []byte(strings.Repeat("a", maxPayloadSize+1))
	if err := c.Publish("carebed/bed-001/state", big, 0, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("oversize payload: got %v", err)
	}
	if err := c.Publish("carebed/bed-001/state", []byte("x"), 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v", err)
	}
}

func TestSubscribeValidation(t *testing.T) {
	c := &Client{subscriptions: make(map[string]subscription)}
	handler := func(string, []byte) error { return nil }

	if err := c.Subscribe("", 0, handler); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("empty topic: got %v", err)
	}
	if err := c.Subscribe("carebed/#", 3, handler); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("qos 3: got %v", err)
	}
	if err := c.Subscribe("carebed/#", 0, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("nil handler: got %v", err)
	}
	if err := c.Subscribe("carebed/#", 0, handler); !errors.Is(err, ErrNotConnected) {
		t.Errorf("disconnected: got %v", err)
	}
}
