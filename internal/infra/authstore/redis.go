package authstore

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"ciba-checkout/internal/domain/authreq"
	"ciba-checkout/internal/infra"
	"ciba-checkout/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix   = "checkout:authreq:"
	redisMaxCASRetry = 10
)

// RedisStore keeps each request as a JSON value whose key outlives expiresAt by
// retention. Transition and Complete are optimistic WATCH/MULTI/EXEC sections.
type RedisStore struct {
	client    *redis.Client
	clock     clock.Clock
	retention time.Duration
	logger    *slog.Logger
}

func NewRedisStore(client *redis.Client, clk clock.Clock, retention time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{client: client, clock: clk, retention: retention, logger: logger}
}

func redisKey(id uuid.UUID) string {
	return redisKeyPrefix + id.String()
}

func (s *RedisStore) Create(ctx context.Context, req *authreq.Request) (uuid.UUID, error) {
	data, err := encodeRecord(req)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode authorization request", err)
	}

	ttl := req.ExpiresAt().Sub(s.clock.Now()) + s.retention
	if ttl <= 0 {
		ttl = s.retention
	}

	ok, err := s.client.SetNX(ctx, redisKey(req.ID()), data, ttl).Result()
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to store authorization request", err)
	}
	if !ok {
		return uuid.Nil, infra.WrapRepoErr(s.logger, infra.KindDuplicateKey, "authorization request already exists", nil)
	}
	return req.ID(), nil
}

func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*authreq.Request, error) {
	req, err := s.load(ctx, s.client, id)
	if err != nil {
		return nil, err
	}
	return req.ViewAt(s.clock.Now()), nil
}

func (s *RedisStore) Transition(ctx context.Context, id, actorUserID uuid.UUID, to authreq.State) (*authreq.Request, error) {
	return s.mutate(ctx, id, func(req *authreq.Request, now time.Time) (bool, error) {
		prev := req.State()
		err := req.TransitionTo(actorUserID, to, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, authreq.ErrAlreadyTerminal):
			// persist an expiry that was only observed lazily
			return prev != req.State(), err
		default:
			return false, err
		}
	}, authreq.ErrAlreadyTerminal)
}

func (s *RedisStore) Complete(ctx context.Context, id uuid.UUID, result []byte) (*authreq.Request, error) {
	return s.mutate(ctx, id, func(req *authreq.Request, now time.Time) (bool, error) {
		if err := req.MarkCompleted(result, now); err != nil {
			return false, err
		}
		return true, nil
	}, authreq.ErrAlreadyCompleted)
}

func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, redisKey(id)).Err(); err != nil {
		return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to delete authorization request", err)
	}
	return nil
}

// DeleteExpired scans the key space. Redis key TTLs already evict records, so
// this only matters when retention was raised after records were written.
func (s *RedisStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	var removed int64
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read authorization request", err)
		}
		req, err := decodeRecord(data)
		if err != nil || req.ExpiresAt().Before(before) {
			n, err := s.client.Del(ctx, key).Result()
			if err != nil {
				return removed, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to delete authorization request", err)
			}
			removed += n
		}
	}
	if err := iter.Err(); err != nil {
		return removed, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to scan authorization requests", err)
	}
	return removed, nil
}

type redisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (s *RedisStore) load(ctx context.Context, c redisGetter, id uuid.UUID) (*authreq.Request, error) {
	data, err := c.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, infra.NotFound("authorization request not found")
	}
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to read authorization request", err)
	}
	req, err := decodeRecord(data)
	if err != nil {
		return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to decode authorization request", err)
	}
	return req, nil
}

// mutate runs fn inside a WATCH section. fn reports whether the request must be
// written back. When fn fails with echoErr the current view is returned with it.
func (s *RedisStore) mutate(
	ctx context.Context,
	id uuid.UUID,
	fn func(req *authreq.Request, now time.Time) (bool, error),
	echoErr error,
) (*authreq.Request, error) {
	key := redisKey(id)

	for attempt := 0; attempt < redisMaxCASRetry; attempt++ {
		var (
			view  *authreq.Request
			fnErr error
		)

		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			req, err := s.load(ctx, tx, id)
			if err != nil {
				return err
			}

			now := s.clock.Now()
			write, err := fn(req, now)
			fnErr = err
			if err != nil && !errors.Is(err, echoErr) {
				return err
			}
			view = req.ViewAt(now)
			if !write {
				return nil
			}

			data, err := encodeRecord(req)
			if err != nil {
				return infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to encode authorization request", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.SetArgs(ctx, key, data, redis.SetArgs{KeepTTL: true})
				return nil
			})
			return err
		}, key)

		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case err != nil && fnErr != nil && errors.Is(err, fnErr):
			return nil, fnErr
		case err != nil:
			if infra.IsKind(err, infra.KindNotFound) || infra.IsKind(err, infra.KindDBFailure) {
				return nil, err
			}
			return nil, infra.WrapRepoErr(s.logger, infra.KindDBFailure, "failed to update authorization request", err)
		}

		if fnErr != nil {
			return view, fnErr
		}
		return view, nil
	}

	return nil, infra.WrapRepoErr(s.logger, infra.KindConflict, "authorization request kept changing during update", nil)
}
