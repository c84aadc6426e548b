package authstore

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"

	"github.com/google/uuid"
)

type memoryEntry struct {
	mu      sync.Mutex
	req     *authreq.Request
	deleted bool
}

// MemoryStore is the in-process store. Each entry carries its own lock so
// transitions on different requests never contend.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]*memoryEntry
	clock   clock.Clock
	logger  *slog.Logger
}

func NewMemoryStore(clk clock.Clock, logger *slog.Logger) *MemoryStore {
	return &MemoryStore{
		entries: make(map[uuid.UUID]*memoryEntry),
		clock:   clk,
		logger:  logger,
	}
}

func (s *MemoryStore) Create(_ context.Context, req *authreq.Request) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[req.ID()]; exists {
		return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "authorization request already exists", nil)
	}
	s.entries[req.ID()] = &memoryEntry{req: req.ViewAt(req.CreatedAt())}
	return req.ID(), nil
}

func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*authreq.Request, error) {
	var view *authreq.Request
	err := s.withEntry(id, func(e *memoryEntry) error {
		view = e.req.ViewAt(s.clock.Now())
		return nil
	})
	return view, err
}

func (s *MemoryStore) Transition(_ context.Context, id, actorUserID uuid.UUID, to authreq.State) (*authreq.Request, error) {
	var view *authreq.Request
	err := s.withEntry(id, func(e *memoryEntry) error {
		now := s.clock.Now()
		if err := e.req.TransitionTo(actorUserID, to, now); err != nil {
			if errors.Is(err, authreq.ErrAlreadyTerminal) {
				view = e.req.ViewAt(now)
			}
			return err
		}
		view = e.req.ViewAt(now)
		return nil
	})
	return view, err
}

func (s *MemoryStore) Complete(_ context.Context, id uuid.UUID, result []byte) (*authreq.Request, error) {
	var view *authreq.Request
	err := s.withEntry(id, func(e *memoryEntry) error {
		now := s.clock.Now()
		if err := e.req.MarkCompleted(result, now); err != nil {
			if err == authreq.ErrAlreadyCompleted {
				view = e.req.ViewAt(now)
			}
			return err
		}
		view = e.req.ViewAt(now)
		return nil
	})
	return view, err
}

func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	e, ok := s.entries[id]
	delete(s.entries, id)
	s.mu.Unlock()

	if ok {
		e.mu.Lock()
		e.deleted = true
		e.mu.Unlock()
	}
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, e := range s.entries {
		e.mu.Lock()
		if e.req.ExpiresAt().Before(before) {
			e.deleted = true
			delete(s.entries, id)
			removed++
		}
		e.mu.Unlock()
	}
	return removed, nil
}

func (s *MemoryStore) withEntry(id uuid.UUID, fn func(e *memoryEntry) error) error {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return infra.NotFound("authorization request not found")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.deleted {
		return infra.NotFound("authorization request not found")
	}
	return fn(e)
}
