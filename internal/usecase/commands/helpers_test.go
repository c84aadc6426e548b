package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"ciba-checkout/internal/infra/authstore"
	"ciba-checkout/internal/infra/cartstore"
	"ciba-checkout/internal/pkg/clock"
	"ciba-checkout/internal/usecase/shared"
	"ciba-checkout/tests/common/builder"

	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions []shared.Transition
}

func (o *recordingObserver) ObserveTransition(_ context.Context, t shared.Transition) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, t)
}

func (o *recordingObserver) all() []shared.Transition {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]shared.Transition, len(o.transitions))
	copy(out, o.transitions)
	return out
}

// recordingNotifier hands each event to onNotify, which tests use to play the approver.
type recordingNotifier struct {
	mu       sync.Mutex
	events   []shared.AuthorizationRequested
	err      error
	onNotify func(shared.AuthorizationRequested)
}

func (n *recordingNotifier) NotifyAuthorizationRequested(_ context.Context, ev shared.AuthorizationRequested) error {
	n.mu.Lock()
	n.events = append(n.events, ev)
	fn := n.onNotify
	n.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
	return n.err
}

type fixture struct {
	clock    *clock.MockClock
	store    *authstore.MemoryStore
	carts    *cartstore.MemoryStore
	observer *recordingObserver
	notifier *recordingNotifier
}

func newFixture() *fixture {
	clk := clock.NewMockClock(baseTime)
	return &fixture{
		clock:    clk,
		store:    authstore.NewMemoryStore(clk, discardLogger()),
		carts:    cartstore.NewMemoryStore(clk),
		observer: &recordingObserver{},
		notifier: &recordingNotifier{},
	}
}

func (f *fixture) putCart(t *testing.T, b *builder.CartBuilder) {
	t.Helper()
	require.NoError(t, f.carts.Put(context.Background(), b.BuildDomain(t)))
}
