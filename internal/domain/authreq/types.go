package authreq

import "errors"

var ErrInvalidDecision = errors.New("decision must be approve or deny")

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
	StateDenied   State = "denied"
	StateExpired  State = "expired"
)

func (s State) String() string {
	return string(s)
}

func (s State) IsValid() bool {
	switch s {
	case StatePending, StateApproved, StateDenied, StateExpired:
		return true
	default:
		return false
	}
}

func (s State) IsTerminal() bool {
	switch s {
	case StateApproved, StateDenied, StateExpired:
		return true
	default:
		return false
	}
}

type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

func NewDecision(value string) (Decision, error) {
	d := Decision(value)
	switch d {
	case DecisionApprove, DecisionDeny:
		return d, nil
	default:
		return "", ErrInvalidDecision
	}
}

func (d Decision) TargetState() State {
	if d == DecisionApprove {
		return StateApproved
	}
	return StateDenied
}
