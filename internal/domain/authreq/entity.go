package authreq

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyPayload       = errors.New("payload cannot be empty")
	ErrEmptyBinding       = errors.New("binding message cannot be empty")
	ErrNonPositiveTTL     = errors.New("ttl must be positive")
	ErrOwnerMismatch      = errors.New("actor is not the owner of the authorization request")
	ErrAlreadyTerminal    = errors.New("authorization request already reached a terminal state")
	ErrInvalidTransition  = errors.New("target state is not terminal")
	ErrNotApproved        = errors.New("authorization request is not approved")
	ErrAlreadyCompleted   = errors.New("authorization request already has a result")
	ErrEmptyResult        = errors.New("result cannot be empty")
	ErrInvalidStoredState = errors.New("invalid stored state")

	// ErrExpired is the ErrAlreadyTerminal returned to the one transition that
	// turns a lazily observed expiry into the stored state.
	ErrExpired = fmt.Errorf("%w: expired before a decision", ErrAlreadyTerminal)
)

// Request is a single backchannel authorization request.
//
// Exactly one terminal transition happens per request. A pending request past
// expiresAt reads as expired (see StateAt) even when nothing has written the expiry.
type Request struct {
	id             uuid.UUID
	ownerUserID    uuid.UUID
	payload        []byte
	bindingMessage string
	state          State
	result         []byte
	createdAt      time.Time
	expiresAt      time.Time
	decidedAt      *time.Time
	completedAt    *time.Time
}

func NewRequest(ownerUserID uuid.UUID, payload []byte, bindingMessage string, now time.Time, ttl time.Duration) (*Request, error) {
	if len(payload) == 0 {
		return nil, ErrEmptyPayload
	}
	if bindingMessage == "" {
		return nil, ErrEmptyBinding
	}
	if ttl <= 0 {
		return nil, ErrNonPositiveTTL
	}

	return &Request{
		id:             uuid.New(),
		ownerUserID:    ownerUserID,
		payload:        payload,
		bindingMessage: bindingMessage,
		state:          StatePending,
		createdAt:      now,
		expiresAt:      now.Add(ttl),
	}, nil
}

func ReconstructRequest(
	id, ownerUserID uuid.UUID,
	payload []byte,
	bindingMessage string,
	state State,
	result []byte,
	createdAt, expiresAt time.Time,
	decidedAt, completedAt *time.Time,
) (*Request, error) {
	if !state.IsValid() {
		return nil, ErrInvalidStoredState
	}
	return &Request{
		id:             id,
		ownerUserID:    ownerUserID,
		payload:        payload,
		bindingMessage: bindingMessage,
		state:          state,
		result:         result,
		createdAt:      createdAt,
		expiresAt:      expiresAt,
		decidedAt:      decidedAt,
		completedAt:    completedAt,
	}, nil
}

// StateAt applies read-through expiry.
func (r *Request) StateAt(now time.Time) State {
	if r.state == StatePending && now.After(r.expiresAt) {
		return StateExpired
	}
	return r.state
}

// ViewAt returns a copy whose stored state reflects expiry at now.
func (r *Request) ViewAt(now time.Time) *Request {
	cp := *r
	cp.state = r.StateAt(now)
	return &cp
}

// TransitionTo performs the single terminal transition on behalf of actor.
// On ErrAlreadyTerminal the receiver holds the state that won, including a
// lazily observed expiry, so callers can persist or echo it. Targeting
// StateExpired only records an expiry that has already happened.
func (r *Request) TransitionTo(actor uuid.UUID, to State, now time.Time) error {
	if actor != r.ownerUserID {
		return ErrOwnerMismatch
	}
	if !to.IsTerminal() {
		return ErrInvalidTransition
	}

	current := r.StateAt(now)
	if current.IsTerminal() {
		if r.state == StatePending {
			r.state = current
			return ErrExpired
		}
		return ErrAlreadyTerminal
	}
	if to == StateExpired {
		return ErrInvalidTransition
	}

	r.state = to
	decided := now
	r.decidedAt = &decided
	return nil
}

// MarkCompleted records the result of the approved action. It succeeds once.
func (r *Request) MarkCompleted(result []byte, now time.Time) error {
	if len(result) == 0 {
		return ErrEmptyResult
	}
	if r.state != StateApproved {
		return ErrNotApproved
	}
	if r.result != nil {
		return ErrAlreadyCompleted
	}
	r.result = result
	completed := now
	r.completedAt = &completed
	return nil
}

func (r *Request) IsOwnedBy(userID uuid.UUID) bool { return r.ownerUserID == userID }
func (r *Request) HasResult() bool                  { return r.result != nil }

func (r *Request) ID() uuid.UUID           { return r.id }
func (r *Request) OwnerUserID() uuid.UUID  { return r.ownerUserID }
func (r *Request) Payload() []byte         { return r.payload }
func (r *Request) BindingMessage() string  { return r.bindingMessage }
func (r *Request) State() State            { return r.state }
func (r *Request) Result() []byte          { return r.result }
func (r *Request) CreatedAt() time.Time    { return r.createdAt }
func (r *Request) ExpiresAt() time.Time    { return r.expiresAt }
func (r *Request) DecidedAt() *time.Time   { return r.decidedAt }
func (r *Request) CompletedAt() *time.Time { return r.completedAt }
