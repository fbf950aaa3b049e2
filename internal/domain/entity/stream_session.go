package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Stream session states. A session starts in StreamStateConnecting, moves
// to StreamStateOpen once the transport accepted the handshake, and ends in
// StreamStateClosed. Closed is terminal.
const (
	StreamStateConnecting = "connecting"
	StreamStateOpen       = "open"
	StreamStateClosed     = "closed"
)

var (
	ErrEmptySessionID       = errors.New("stream session ID cannot be empty")
	ErrSessionNotConnecting = errors.New("stream session is not connecting")
	ErrSessionNotOpen       = errors.New("stream session is not open")
)

// StreamSession tracks one long-lived push connection: its identity, the
// credential it was opened with, and its liveness. Sessions are owned by a
// single serving goroutine; the stream manager only tracks membership.
type StreamSession struct {
	id         string
	credential string
	state      string
	createdAt  time.Time
	lastPingAt time.Time
}

// NewStreamSession creates a session in the connecting state. The
// credential may be empty when the gateway runs with authentication
// disabled.
func NewStreamSession(id, credential string) (*StreamSession, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptySessionID
	}
	return &StreamSession{
		id:         id,
		credential: credential,
		state:      StreamStateConnecting,
		createdAt:  time.Now(),
	}, nil
}

// ID returns the session's unique identifier.
func (s *StreamSession) ID() string { return s.id }

// Credential returns the credential the session was opened with.
func (s *StreamSession) Credential() string { return s.credential }

// State returns the current session state.
func (s *StreamSession) State() string { return s.state }

// CreatedAt returns when the session was created.
func (s *StreamSession) CreatedAt() time.Time { return s.createdAt }

// LastPingAt returns when the last liveness pulse was written, or the zero
// time if none has been sent yet.
func (s *StreamSession) LastPingAt() time.Time { return s.lastPingAt }

// Open transitions the session from connecting to open. It fails on any
// other starting state.
func (s *StreamSession) Open() error {
	if s.state != StreamStateConnecting {
		return fmt.Errorf("%w: state is %s", ErrSessionNotConnecting, s.state)
	}
	s.state = StreamStateOpen
	return nil
}

// MarkPing records a liveness pulse. Only open sessions receive pulses.
func (s *StreamSession) MarkPing(at time.Time) error {
	if s.state != StreamStateOpen {
		return fmt.Errorf("%w: state is %s", ErrSessionNotOpen, s.state)
	}
	s.lastPingAt = at
	return nil
}

// Close moves the session to the terminal closed state. Closing an already
// closed session is a no-op, so every teardown path can call it safely.
func (s *StreamSession) Close() {
	s.state = StreamStateClosed
}

// IsClosed reports whether the session reached its terminal state.
func (s *StreamSession) IsClosed() bool {
	return s.state == StreamStateClosed
}
