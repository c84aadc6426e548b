package authstore

import (
	"encoding/json"
	"time"

	"ciba-checkout/internal/domain/authreq"

	"github.com/google/uuid"
)

// record is the serialized form of an authorization request.
type record struct {
	ID             uuid.UUID  `json:"id"`
	OwnerUserID    uuid.UUID  `json:"owner_user_id"`
	Payload        []byte     `json:"payload"`
	BindingMessage string     `json:"binding_message"`
	State          string     `json:"state"`
	Result         []byte     `json:"result,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	ExpiresAt      time.Time  `json:"expires_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

func toRecord(r *authreq.Request) record {
	return record{
		ID:             r.ID(),
		OwnerUserID:    r.OwnerUserID(),
		Payload:        r.Payload(),
		BindingMessage: r.BindingMessage(),
		State:          r.State().String(),
		Result:         r.Result(),
		CreatedAt:      r.CreatedAt(),
		ExpiresAt:      r.ExpiresAt(),
		DecidedAt:      r.DecidedAt(),
		CompletedAt:    r.CompletedAt(),
	}
}

func (rec record) toDomain() (*authreq.Request, error) {
	return authreq.ReconstructRequest(
		rec.ID, rec.OwnerUserID,
		rec.Payload,
		rec.BindingMessage,
		authreq.State(rec.State),
		rec.Result,
		rec.CreatedAt, rec.ExpiresAt,
		rec.DecidedAt, rec.CompletedAt,
	)
}

func encodeRecord(r *authreq.Request) ([]byte, error) {
	return json.Marshal(toRecord(r))
}

func decodeRecord(data []byte) (*authreq.Request, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, err
	}
	return rec.toDomain()
}
