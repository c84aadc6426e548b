package stream

import (
	"encoding/json"
	"sync"
	"time"

	"ciba-checkout/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrClosed       = errs.New("response stream already closed")
	ErrPendingAsync = errs.New("response stream has a pending async producer")
	ErrNotTerminal  = errs.New("event does not end the stream")
)

type EventType string

const (
	EventAuthorizationRequested EventType = "authorization_requested"
	EventStatus                 EventType = "status"
	EventCompleted              EventType = "completed"
	EventRejected               EventType = "rejected"
	EventExpired                EventType = "expired"
	EventTimedOut               EventType = "timed_out"
	EventNotFound               EventType = "not_found"
	EventCanceled               EventType = "canceled"
	EventError                  EventType = "error"
)

func (t EventType) IsTerminal() bool {
	switch t {
	case EventCompleted, EventRejected, EventExpired, EventTimedOut, EventNotFound, EventCanceled, EventError:
		return true
	default:
		return false
	}
}

type Event struct {
	Type           EventType       `json:"type"`
	RequestID      uuid.UUID       `json:"auth_req_id"`
	State          string          `json:"state,omitempty"`
	BindingMessage string          `json:"binding_message,omitempty"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	Attempt        int             `json:"attempt,omitempty"`
	Result         json.RawMessage `json:"result,omitempty"`
	Message        string          `json:"message,omitempty"`
}

// ResponseStream carries events of one streamed checkout to its consumer.
//
// A producer marks itself with BeginAsync and later ends the stream with
// Finish, which emits exactly one terminal event and closes the channel.
// Close refuses to run while an async producer is pending, so the stream
// cannot end before its terminal event. Abandon is called when the consumer
// goes away: blocked producers are released and registered cancel funcs run.
type ResponseStream struct {
	mu      sync.Mutex
	events  chan Event
	closed  bool
	pending bool

	abandonMu sync.Mutex
	abandoned chan struct{}
	isAbandon bool
	onAbandon []func()
}

func New(buffer int) *ResponseStream {
	if buffer < 0 {
		buffer = 0
	}
	return &ResponseStream{
		events:    make(chan Event, buffer),
		abandoned: make(chan struct{}),
	}
}

func (s *ResponseStream) Events() <-chan Event {
	return s.events
}

// Emit sends a non-terminal event. It reports false once the stream is closed,
// the consumer abandoned it, or ev is terminal.
func (s *ResponseStream) Emit(ev Event) bool {
	if ev.Type.IsTerminal() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	return s.send(ev)
}

func (s *ResponseStream) BeginAsync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.pending = true
	return nil
}

func (s *ResponseStream) HasPendingAsync() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// Finish emits the terminal event and closes the stream. Only the first call
// has an effect; later calls return ErrClosed.
func (s *ResponseStream) Finish(ev Event) error {
	if !ev.Type.IsTerminal() {
		return ErrNotTerminal
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.send(ev)
	s.pending = false
	s.closed = true
	close(s.events)
	return nil
}

// Close ends a stream that has no async producer.
func (s *ResponseStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrPendingAsync
	}
	if s.closed {
		return ErrClosed
	}
	s.closed = true
	close(s.events)
	return nil
}

func (s *ResponseStream) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// OnAbandon registers fn to run when the consumer abandons the stream. If that
// already happened fn runs immediately.
func (s *ResponseStream) OnAbandon(fn func()) {
	s.abandonMu.Lock()
	if s.isAbandon {
		s.abandonMu.Unlock()
		fn()
		return
	}
	s.onAbandon = append(s.onAbandon, fn)
	s.abandonMu.Unlock()
}

func (s *ResponseStream) Abandon() {
	s.abandonMu.Lock()
	if s.isAbandon {
		s.abandonMu.Unlock()
		return
	}
	s.isAbandon = true
	close(s.abandoned)
	fns := s.onAbandon
	s.onAbandon = nil
	s.abandonMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *ResponseStream) Abandoned() <-chan struct{} {
	return s.abandoned
}

// send must be called with mu held.
func (s *ResponseStream) send(ev Event) bool {
	select {
	case <-s.abandoned:
		return false
	default:
	}
	select {
	case s.events <- ev:
		return true
	case <-s.abandoned:
		return false
	}
}
