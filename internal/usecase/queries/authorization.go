package queries

import (
	"context"
	"sync"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
)

// throttleSweepThreshold bounds the last-poll table before stale entries are pruned.
const throttleSweepThreshold = 1024

type AuthorizationView struct {
	RequestID      uuid.UUID
	State          authreq.State
	BindingMessage string
	ExpiresAt      time.Time
	Result         []byte
	// NextPollAfter is how long the owner should wait before polling again.
	// Status sets it on pending views and together with errs.ErrSlowDown.
	NextPollAfter time.Duration
}

type AuthorizationQueries interface {
	// Status is the Poll/Status operation for the request owner. Polls closer
	// together than the minimum interval fail with errs.ErrSlowDown. A record
	// the store cannot serve fails with errs.ErrPollRejected.
	Status(ctx context.Context, id, callerUserID uuid.UUID) (*AuthorizationView, error)
	// Describe is the approver's view of a request. It is not throttled.
	Describe(ctx context.Context, id, approverUserID uuid.UUID) (*AuthorizationView, error)
}

type authorizationQueriesImpl struct {
	store           shared.AuthorizationRequestStore
	clock           clock.Clock
	minPollInterval time.Duration
	pollHint        time.Duration

	mu       sync.Mutex
	lastPoll map[uuid.UUID]time.Time
}

// NewAuthorizationQueries hints pending pollers to wait minPollInterval, or
// pollInterval when no minimum is enforced.
func NewAuthorizationQueries(
	store shared.AuthorizationRequestStore,
	clk clock.Clock,
	minPollInterval time.Duration,
	pollInterval time.Duration,
) AuthorizationQueries {
	hint := minPollInterval
	if hint <= 0 {
		hint = pollInterval
	}
	return &authorizationQueriesImpl{
		store:           store,
		clock:           clk,
		minPollInterval: minPollInterval,
		pollHint:        hint,
		lastPoll:        make(map[uuid.UUID]time.Time),
	}
}

func (q *authorizationQueriesImpl) Status(ctx context.Context, id, callerUserID uuid.UUID) (*AuthorizationView, error) {
	req, err := q.load(ctx, id, callerUserID)
	if err != nil {
		return nil, err
	}

	view := toView(req)
	if view.State.IsTerminal() {
		q.forget(id)
		return view, nil
	}
	if wait := q.throttle(id); wait > 0 {
		return &AuthorizationView{RequestID: id, State: view.State, NextPollAfter: wait}, errs.ErrSlowDown
	}
	view.NextPollAfter = q.pollHint
	return view, nil
}

func (q *authorizationQueriesImpl) Describe(ctx context.Context, id, approverUserID uuid.UUID) (*AuthorizationView, error) {
	req, err := q.load(ctx, id, approverUserID)
	if err != nil {
		return nil, err
	}
	view := toView(req)
	view.Result = nil
	return view, nil
}

func (q *authorizationQueriesImpl) load(ctx context.Context, id, userID uuid.UUID) (*authreq.Request, error) {
	if userID == uuid.Nil {
		return nil, errs.ErrUnauthenticated
	}

	req, err := q.store.Get(ctx, id)
	if err != nil {
		switch {
		case infra.IsKind(err, infra.KindNotFound):
			return nil, errs.ErrAuthorizationNotFound
		case infra.IsKind(err, infra.KindConflict), errs.Is(err, authreq.ErrInvalidStoredState):
			return nil, errs.Mark(err, errs.ErrPollRejected)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if !req.IsOwnedBy(userID) {
		return nil, errs.ErrForbidden
	}
	return req, nil
}

// throttle records a poll and returns how long the caller should have waited.
// A rejected poll does not reset the window.
func (q *authorizationQueriesImpl) throttle(id uuid.UUID) time.Duration {
	if q.minPollInterval <= 0 {
		return 0
	}

	now := q.clock.Now()
	q.mu.Lock()
	defer q.mu.Unlock()

	if last, ok := q.lastPoll[id]; ok {
		if elapsed := now.Sub(last); elapsed < q.minPollInterval {
			return q.minPollInterval - elapsed
		}
	}
	q.lastPoll[id] = now

	if len(q.lastPoll) > throttleSweepThreshold {
		for k, t := range q.lastPoll {
			if now.Sub(t) > q.minPollInterval {
				delete(q.lastPoll, k)
			}
		}
	}
	return 0
}

func (q *authorizationQueriesImpl) forget(id uuid.UUID) {
	q.mu.Lock()
	delete(q.lastPoll, id)
	q.mu.Unlock()
}

func toView(req *authreq.Request) *AuthorizationView {
	return &AuthorizationView{
		RequestID:      req.ID(),
		State:          req.State(),
		BindingMessage: req.BindingMessage(),
		ExpiresAt:      req.ExpiresAt(),
		Result:         req.Result(),
	}
}
