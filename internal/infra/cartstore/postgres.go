package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/cart"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/infra/db"
	"ciba-checkout/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool   *pgxpool.Pool
	clock  clock.Clock
	logger *slog.Logger
}

func NewPostgresStore(pool *pgxpool.Pool, clk clock.Clock, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{pool: pool, clock: clk, logger: logger}
}

func (s *PostgresStore) Get(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	var (
		raw       []byte
		updatedAt time.Time
	)
	row := s.pool.QueryRow(ctx, `SELECT items, updated_at FROM carts WHERE user_id = $1`, userID)
	if err := row.Scan(&raw, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cart.NewCart(userID, nil, s.clock.Now()), nil
		}
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read cart", err)
	}

	var stored []cart.SnapshotItem
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode cart items", err)
	}
	items := make([]cart.Item, 0, len(stored))
	for _, si := range stored {
		it, err := cart.NewItem(si.ProductID, si.Quantity, si.UnitPriceCents)
		if err != nil {
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "stored cart item is invalid", err)
		}
		items = append(items, it)
	}
	return cart.NewCart(userID, items, updatedAt), nil
}

func (s *PostgresStore) Put(ctx context.Context, c *cart.Cart) error {
	raw, err := json.Marshal(cart.NewSnapshot(c).Items)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode cart items", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO carts (user_id, items, updated_at) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET items = EXCLUDED.items, updated_at = EXCLUDED.updated_at`,
		c.UserID(), raw, c.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to store cart", err)
	}
	return nil
}

type placeResult struct {
	order    *cart.Order
	replayed bool
}

func (s *PostgresStore) PlaceOrder(ctx context.Context, order *cart.Order) (*cart.Order, bool, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return nil, false, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode order items", err)
	}

	res, err := db.WithDefaultRetry(ctx, s.pool, func(tx pgx.Tx) (placeResult, error) {
		tag, err := tx.Exec(ctx, `
			INSERT INTO orders (id, authorization_request_id, user_id, items, item_count, total_cents, placed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (authorization_request_id) DO NOTHING`,
			order.ID, order.AuthorizationRequestID, order.UserID, items, order.ItemCount, order.TotalCents, order.PlacedAt,
		)
		if err != nil {
			return placeResult{}, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to insert order", err)
		}

		if tag.RowsAffected() == 0 {
			existing, err := s.orderByAuthorization(ctx, tx, order.AuthorizationRequestID)
			if err != nil {
				return placeResult{}, err
			}
			return placeResult{order: existing, replayed: true}, nil
		}

		if _, err := tx.Exec(ctx, `DELETE FROM carts WHERE user_id = $1`, order.UserID); err != nil {
			return placeResult{}, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to clear cart", err)
		}
		return placeResult{order: order}, nil
	})
	if err != nil {
		return nil, false, err
	}
	return res.order, res.replayed, nil
}

func (s *PostgresStore) orderByAuthorization(ctx context.Context, q db.DBTX, authReqID uuid.UUID) (*cart.Order, error) {
	var (
		o   cart.Order
		raw []byte
	)
	err := q.QueryRow(ctx, `
		SELECT id, authorization_request_id, user_id, items, item_count, total_cents, placed_at
		FROM orders WHERE authorization_request_id = $1`, authReqID,
	).Scan(&o.ID, &o.AuthorizationRequestID, &o.UserID, &raw, &o.ItemCount, &o.TotalCents, &o.PlacedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, infra.NotFound("order not found")
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read order", err)
	}
	if err := json.Unmarshal(raw, &o.Items); err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode order items", err)
	}
	return &o, nil
}
