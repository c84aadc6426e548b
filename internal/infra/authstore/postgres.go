package authstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/infra/db"
	"ciba-checkout/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const selectColumns = `id, owner_user_id, payload, binding_message, state, result,
	created_at, expires_at, decided_at, completed_at`

// PostgresStore serializes Transition and Complete per id with SELECT ... FOR UPDATE.
type PostgresStore struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, clock: clk, logger: logger}
}

func (s *PostgresStore) Create(ctx context.Context, req *authreq.Request) (uuid.UUID, error) {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO authorization_requests (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		req.ID(), req.OwnerUserID(), req.Payload(), req.BindingMessage(), req.State().String(), req.Result(),
		req.CreatedAt(), req.ExpiresAt(), req.DecidedAt(), req.CompletedAt(),
	)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "authorization request already exists", err)
		}
		return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to insert authorization request", err)
	}
	return req.ID(), nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*authreq.Request, error) {
	req, err := s.selectOne(ctx, s.pool, id, false)
	if err != nil {
		return nil, err
	}
	return req.ViewAt(s.clock.Now()), nil
}

func (s *PostgresStore) Transition(ctx context.Context, id, actorUserID uuid.UUID, to authreq.State) (*authreq.Request, error) {
	type outcome struct {
		view *authreq.Request
		err  error
	}

	out, err := db.WithDefaultRetry(ctx, s.pool, func(tx pgx.Tx) (outcome, error) {
		req, err := s.selectOne(ctx, tx, id, true)
		if err != nil {
			return outcome{}, err
		}

		now := s.clock.Now()
		prev := req.State()
		terr := req.TransitionTo(actorUserID, to, now)
		if terr != nil && !errors.Is(terr, authreq.ErrAlreadyTerminal) {
			return outcome{}, terr
		}
		if req.State() != prev {
			if _, err := tx.Exec(ctx,
				`UPDATE authorization_requests SET state = $2, decided_at = $3 WHERE id = $1`,
				id, req.State().String(), req.DecidedAt(),
			); err != nil {
				return outcome{}, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to update authorization request", err)
			}
		}
		return outcome{view: req.ViewAt(now), err: terr}, nil
	})
	if err != nil {
		return nil, err
	}
	return out.view, out.err
}

func (s *PostgresStore) Complete(ctx context.Context, id uuid.UUID, result []byte) (*authreq.Request, error) {
	now := s.clock.Now()

	// single-statement compare-and-set
	row := s.pool.QueryRow(ctx, `
		UPDATE authorization_requests
		SET result = $2, completed_at = $3
		WHERE id = $1 AND state = 'approved' AND result IS NULL
		RETURNING `+selectColumns,
		id, result, now,
	)
	req, err := scanRequest(row)
	if err == nil {
		return req.ViewAt(now), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to complete authorization request", err)
	}

	current, err := s.selectOne(ctx, s.pool, id, false)
	if err != nil {
		return nil, err
	}
	if err := current.MarkCompleted(result, now); err != nil {
		if errors.Is(err, authreq.ErrAlreadyCompleted) {
			return current.ViewAt(now), err
		}
		return nil, err
	}
	// The row changed between the two statements; report it as a conflict.
	return nil, infra.WrapRepoErr(s.logger, infra.KindConflict, "authorization request changed during completion", nil)
}

func (s *PostgresStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM authorization_requests WHERE id = $1`, id); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to delete authorization request", err)
	}
	return nil
}

func (s *PostgresStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM authorization_requests WHERE expires_at < $1`, before)
	if err != nil {
		return 0, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to delete expired authorization requests", err)
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) selectOne(ctx context.Context, q db.DBTX, id uuid.UUID, forUpdate bool) (*authreq.Request, error) {
	query := `SELECT ` + selectColumns + ` FROM authorization_requests WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	req, err := scanRequest(q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.NotFound("authorization request not found")
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read authorization request", err)
	}
	return req, nil
}

func scanRequest(row pgx.Row) (*authreq.Request, error) {
	var rec record
	if err := row.Scan(
		&rec.ID, &rec.OwnerUserID, &rec.Payload, &rec.BindingMessage, &rec.State, &rec.Result,
		&rec.CreatedAt, &rec.ExpiresAt, &rec.DecidedAt, &rec.CompletedAt,
	); err != nil {
		return nil, err
	}
	return rec.toDomain()
}
