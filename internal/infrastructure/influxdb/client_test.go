package influxdb

import (
	"context"
	"errors"
	"testing"

	"github.com/restwell/carebed-core/internal/infrastructure/config"
)

func TestConnectDisabled(t *testing.T) {
	_, err := Connect(config.InfluxDBConfig{Enabled: false})
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	c := &Client{}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestWritesIgnoredWhenDisconnected(t *testing.T) {
	c := &Client{}

	// Must not panic despite the nil write API.
	c.WritePositionSample("bed-001", 45, 15, 50, false)
	c.WriteBatterySample("bed-001", 80)
	c.WritePoint("custom", nil, map[string]interface{}{"v": 1})
	c.Flush()
}

func TestCloseWithoutConnect(t *testing.T) {
	c := &Client{}
	if err := c.Close(); err != nil {
		t.Errorf("Close on zero client: %v", err)
	}
}
