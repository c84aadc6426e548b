package notify

import (
	"context"
	"log/slog"

	"ciba-checkout/internal/usecase/shared"
)

// LogNotifier stands in for a push provider in development deployments.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyAuthorizationRequested(ctx context.Context, event shared.AuthorizationRequested) error {
	n.logger.InfoContext(ctx, "Authorization requested",
		slog.String("request_id", event.RequestID.String()),
		slog.String("user_id", event.UserID.String()),
		slog.String("binding_message", event.BindingMessage),
		slog.Time("expires_at", event.ExpiresAt))
	return nil
}
