// Package api provides the HTTP REST API and WebSocket server for the
// care-bed backend.
//
// It exposes bed control, preset, sleep history, and settings endpoints
// to remote-control clients, plus a WebSocket feed of bed state changes.
//
// The server follows the same lifecycle pattern as the other
// infrastructure components:
//
//	server, err := api.New(deps)
//	server.Start(ctx)
//	defer server.Close()
//
// All methods are safe for concurrent use.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/restwell/carebed-core/internal/audit"
	"github.com/restwell/carebed-core/internal/auth"
	"github.com/restwell/carebed-core/internal/bed"
	"github.com/restwell/carebed-core/internal/infrastructure/config"
	"github.com/restwell/carebed-core/internal/infrastructure/influxdb"
	"github.com/restwell/carebed-core/internal/infrastructure/logging"
	"github.com/restwell/carebed-core/internal/infrastructure/mqtt"
	"github.com/restwell/carebed-core/internal/sleep"
	"github.com/restwell/carebed-core/internal/storage"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight
// requests during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// Deps holds the dependencies required by the API server.
type Deps struct {
	Config    config.APIConfig
	WS        config.WebSocketConfig
	Security  config.SecurityConfig
	BedID     string
	Logger    *logging.Logger
	Bed       *bed.Controller
	Sessions  *auth.Manager
	Directory *auth.Directory
	Store     *storage.Store
	Sleep     *sleep.Service
	MQTT      *mqtt.Client     // optional: battery telemetry in, state mirror out
	History   *influxdb.Client // optional: position/battery history
	Audit     audit.Repository // optional: command audit trail
	Version   string
}

// Server is the HTTP API server for the care-bed backend.
type Server struct {
	cfg      config.APIConfig
	wsCfg    config.WebSocketConfig
	secCfg   config.SecurityConfig
	bedID    string
	logger   *logging.Logger
	bed      *bed.Controller
	sessions *auth.Manager
	dir      *auth.Directory
	store    *storage.Store
	sleep    *sleep.Service
	mqtt     *mqtt.Client
	history  *influxdb.Client
	audit    audit.Repository
	version  string

	server  *http.Server
	hub     *Hub
	tickets *ticketStore
	cancel  context.CancelFunc
}

// New creates an API server with the given dependencies.
// The server is not started until Start() is called.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if deps.Bed == nil {
		return nil, fmt.Errorf("bed controller is required")
	}
	if deps.Sessions == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if deps.Directory == nil {
		return nil, fmt.Errorf("user directory is required")
	}
	// MQTT and InfluxDB are optional; bed control works without them.

	return &Server{
		cfg:      deps.Config,
		wsCfg:    deps.WS,
		secCfg:   deps.Security,
		bedID:    deps.BedID,
		logger:   deps.Logger,
		bed:      deps.Bed,
		sessions: deps.Sessions,
		dir:      deps.Directory,
		store:    deps.Store,
		sleep:    deps.Sleep,
		mqtt:     deps.MQTT,
		history:  deps.History,
		audit:    deps.Audit,
		version:  deps.Version,
		tickets:  newTicketStore(),
	}, nil
}

// Start begins listening for HTTP connections.
//
// It starts the WebSocket hub, hooks bed state changes into the hub and
// the optional history/MQTT sinks, subscribes to battery telemetry, and
// launches the HTTP listener in a background goroutine.
func (s *Server) Start(ctx context.Context) error {
	var srvCtx context.Context
	srvCtx, s.cancel = context.WithCancel(ctx)

	s.hub = NewHub(s.wsCfg, s.logger)
	go s.hub.Run(srvCtx)
	go s.cleanTicketsLoop(srvCtx)

	s.wireBedEvents()

	if err := s.subscribeBatteryTelemetry(); err != nil {
		s.logger.Warn("failed to subscribe to battery telemetry", "error", err)
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       time.Duration(s.cfg.Timeouts.Read) * time.Second,
		ReadHeaderTimeout: time.Duration(s.cfg.Timeouts.Read) * time.Second,
		WriteTimeout:      time.Duration(s.cfg.Timeouts.Write) * time.Second,
		IdleTimeout:       time.Duration(s.cfg.Timeouts.Idle) * time.Second,
	}

	go func() {
		var err error
		if s.cfg.TLS.Enabled {
			s.logger.Info("API server starting with TLS",
				"address", s.server.Addr,
				"cert", s.cfg.TLS.CertFile,
			)
			err = s.server.ListenAndServeTLS(s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = s.server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("API server error", "error", err)
		}
	}()

	return nil
}

// wireBedEvents fans committed bed state changes out to WebSocket
// clients, the retained MQTT state topic, and the history sink.
func (s *Server) wireBedEvents() {
	s.bed.OnChange(func(state bed.State) {
		s.hub.Broadcast(ChannelBedState, state)

		if s.history != nil {
			s.history.WritePositionSample(s.bedID,
				state.Position.Back, state.Position.Leg, state.Position.Height,
				state.IsLocked)
			s.history.WriteBatterySample(s.bedID, state.BatteryLevel)
		}

		if s.mqtt != nil {
			payload, err := json.Marshal(state)
			if err != nil {
				return
			}
			if err := s.mqtt.PublishRetained(mqtt.Topics{}.BedState(s.bedID), payload); err != nil {
				s.logger.Debug("bed state mirror failed", "error", err)
			}
		}
	})
}

// subscribeBatteryTelemetry feeds battery reports from the bed hardware
// into the controller. Payload: {"level": 0..100}.
func (s *Server) subscribeBatteryTelemetry() error {
	if s.mqtt == nil {
		return nil
	}

	topic := mqtt.Topics{}.BedBattery(s.bedID)
	s.logger.Info("subscribing to battery telemetry", "topic", topic)

	return s.mqtt.Subscribe(topic, 1, func(_ string, payload []byte) error {
		var report struct {
			Level *int `json:"level"`
		}
		if err := json.Unmarshal(payload, &report); err != nil || report.Level == nil {
			// Tolerate a bare numeric payload as well.
			if level, convErr := strconv.Atoi(string(payload)); convErr == nil {
				s.bed.SetBatteryLevel(level)
				return nil
			}
			s.logger.Warn("unparseable battery report", "payload", string(payload))
			return nil
		}
		s.bed.SetBatteryLevel(*report.Level)
		return nil
	})
}

// Close gracefully shuts down the API server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}

	if s.cancel != nil {
		s.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("API server shutting down")
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down API server: %w", err)
	}
	return nil
}

// HealthCheck verifies the API server is running.
func (s *Server) HealthCheck(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("api health check: %w", ctx.Err())
	default:
	}

	if s.server == nil {
		return fmt.Errorf("api server not started")
	}
	return nil
}
