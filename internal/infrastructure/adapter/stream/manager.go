// Package stream serves the gateway's push channel: long-lived HTTP
// responses carrying server-sent events.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"viterbit-gateway/internal/domain/entity"
)

// Event names written to the wire.
const (
	eventConnected = "connected"
	eventTools     = "tools"
	eventPing      = "ping"
)

// DefaultPingInterval is the liveness pulse cadence when none is configured.
const DefaultPingInterval = 30 * time.Second

var (
	// ErrStreamingUnsupported is returned when the response writer cannot
	// flush incrementally.
	ErrStreamingUnsupported = errors.New("response writer does not support streaming")

	// ErrManagerClosed is returned when a session is requested after
	// shutdown began.
	ErrManagerClosed = errors.New("stream manager is shut down")

	// ErrNilCatalog is returned when a manager is built without a catalog.
	ErrNilCatalog = errors.New("operation catalog is required")
)

// ManagerConfig carries the stream settings.
type ManagerConfig struct {
	// PingInterval is the cadence of liveness pulses.
	PingInterval time.Duration

	// Version is reported in the connected event.
	Version string
}

// Manager owns every live stream session. Each session is served by the
// goroutine of its own HTTP request; the manager tracks membership and
// provides the single shutdown path.
type Manager struct {
	catalog *entity.Catalog
	cfg     ManagerConfig

	mu       sync.RWMutex
	sessions map[string]*entity.StreamSession
	closed   bool

	done chan struct{}
}

// NewManager creates a stream manager over the given catalog.
func NewManager(catalog *entity.Catalog, cfg ManagerConfig) (*Manager, error) {
	if catalog == nil {
		return nil, ErrNilCatalog
	}
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	return &Manager{
		catalog:  catalog,
		cfg:      cfg,
		sessions: make(map[string]*entity.StreamSession),
		done:     make(chan struct{}),
	}, nil
}

// Serve runs one stream session over w until the request context is
// cancelled, the manager shuts down, or a write fails. Errors are returned
// only before any event is written; once the stream is live there is no
// channel left to report on, so teardown is silent.
func (m *Manager) Serve(ctx context.Context, w http.ResponseWriter, credential string) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return ErrStreamingUnsupported
	}

	session, err := m.register(credential)
	if err != nil {
		return err
	}
	defer m.release(session)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	connected := map[string]string{"status": "connected", "version": m.cfg.Version}
	if err := writeEvent(w, flusher, eventConnected, connected); err != nil {
		return nil
	}
	if err := session.Open(); err != nil {
		return nil
	}

	toolsEvent := struct {
		Type  string          `json:"type"`
		Tools json.RawMessage `json:"tools"`
	}{Type: "tools", Tools: m.catalog.Snapshot()}
	if err := writeEvent(w, flusher, eventTools, toolsEvent); err != nil {
		return nil
	}

	slog.Info("stream session opened", "session", session.ID(), "sessions", m.Count())

	ticker := time.NewTicker(m.cfg.PingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-m.done:
			return nil
		case now := <-ticker.C:
			if err := writeEvent(w, flusher, eventPing, map[string]int64{"timestamp": now.Unix()}); err != nil {
				return nil
			}
			if err := session.MarkPing(now); err != nil {
				return nil
			}
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Shutdown closes every live session and refuses new ones. Safe to call
// more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true
	close(m.done)
}

func (m *Manager) register(credential string) (*entity.StreamSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrManagerClosed
	}

	session, err := entity.NewStreamSession(uuid.NewString(), credential)
	if err != nil {
		return nil, err
	}
	m.sessions[session.ID()] = session
	return session, nil
}

func (m *Manager) release(session *entity.StreamSession) {
	session.Close()
	m.mu.Lock()
	delete(m.sessions, session.ID())
	m.mu.Unlock()
	slog.Info("stream session closed", "session", session.ID())
}

// writeEvent frames one server-sent event and flushes it to the client.
func writeEvent(w io.Writer, flusher http.Flusher, event string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
