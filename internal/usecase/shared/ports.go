package shared

import (
	"context"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/domain/cart"

	"github.com/google/uuid"
)

// AuthorizationRequestStore keeps authorization requests keyed by id.
//
// Implementations must make Transition and Complete atomic per id: of two
// concurrent transitions on the same pending request exactly one succeeds and
// the other observes ErrAlreadyTerminal. Reads apply lazy expiry. Unknown ids
// fail with an infra.RepositoryError of kind KindNotFound.
type AuthorizationRequestStore interface {
	Create(ctx context.Context, req *authreq.Request) (uuid.UUID, error)
	Get(ctx context.Context, id uuid.UUID) (*authreq.Request, error)
	// Transition returns the stored request alongside authreq.ErrAlreadyTerminal
	// so callers can compare the winning state with their own decision. The call
	// that persists a lazily observed expiry gets authreq.ErrExpired instead.
	Transition(ctx context.Context, id, actorUserID uuid.UUID, to authreq.State) (*authreq.Request, error)
	// Complete records the result of an approved request once. A second call
	// returns the stored request alongside authreq.ErrAlreadyCompleted.
	Complete(ctx context.Context, id uuid.UUID, result []byte) (*authreq.Request, error)
	// Delete is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

type CartRepository interface {
	// Get returns an empty cart for users that never stored one.
	Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error)
	Put(ctx context.Context, c *cart.Cart) error
}

type OrderRepository interface {
	// PlaceOrder stores order and clears the owner's cart. When an order already
	// exists for order.AuthorizationRequestID the stored one is returned with replayed set.
	PlaceOrder(ctx context.Context, order *cart.Order) (stored *cart.Order, replayed bool, err error)
}

// ActionPayload is the frozen action an approver signs off on.
type ActionPayload interface {
	IsEmpty() bool
	BindingMessage() string
	Marshal() ([]byte, error)
}

// ActionApplier performs the protected side effect of an approved request.
// It must be idempotent per authorization request id.
type ActionApplier interface {
	ApplyApprovedAction(ctx context.Context, authReqID, ownerUserID uuid.UUID, payload []byte) (result []byte, err error)
}

type AuthorizationRequested struct {
	RequestID      uuid.UUID `json:"auth_req_id"`
	UserID         uuid.UUID `json:"user_id"`
	BindingMessage string    `json:"binding_message"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ApprovalNotifier tells the approver's device that a request awaits a decision.
type ApprovalNotifier interface {
	NotifyAuthorizationRequested(ctx context.Context, event AuthorizationRequested) error
}

// Channels through which a transition can be observed.
const (
	ChannelInitiator = "initiator"
	ChannelPush      = "push"
	ChannelPopup     = "popup"
	ChannelPoller    = "poller"
	ChannelStatus    = "status"
)

type Transition struct {
	RequestID uuid.UUID
	From      string
	To        string
	// Actor is uuid.Nil for expiry.
	Actor     uuid.UUID
	Channel   string
	At        time.Time
}

// TransitionObserver receives every state change for auditing.
type TransitionObserver interface {
	ObserveTransition(ctx context.Context, t Transition)
}
