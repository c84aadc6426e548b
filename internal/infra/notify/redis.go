package notify

import (
	"context"
	"encoding/json"
	"time"

	"ciba-checkout/internal/pkg/errs"
	"ciba-checkout/internal/usecase/shared"

	"github.com/redis/go-redis/v9"
)

const publishTimeout = 2 * time.Second

// RedisNotifier publishes the request-created event as JSON on a pub/sub channel
// that approval devices (or a push gateway) subscribe to.
type RedisNotifier struct {
	client  *redis.Client
	channel string
}

func NewRedisNotifier(client *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{client: client, channel: channel}
}

func (n *RedisNotifier) NotifyAuthorizationRequested(ctx context.Context, event shared.AuthorizationRequested) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errs.Wrap(err, "failed to encode authorization requested event")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := n.client.Publish(ctx, n.channel, body).Err(); err != nil {
		return errs.Wrap(err, "failed to publish authorization requested event")
	}
	return nil
}
