package audit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"ciba-checkout/internal/infra/audit"
	"ciba-checkout/internal/pkg/metrics"
	"ciba-checkout/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m := metrics.NewMetrics(prometheus.NewRegistry())
	r := audit.NewRecorder(logger, m)

	id := uuid.New()
	r.ObserveTransition(context.Background(), shared.Transition{
		RequestID: id,
		From:      "pending",
		To:        "approved",
		Actor:     uuid.New(),
		Channel:   shared.ChannelPopup,
		At:        time.Date(2026, 1, 15, 9, 1, 0, 0, time.UTC),
	})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Authorization state transition", line["msg"])
	assert.Equal(t, id.String(), line["request_id"])
	assert.Equal(t, "approved", line["to"])
	assert.Equal(t, "popup", line["channel"])

	assert.Equal(t, 1.0, promtest.ToFloat64(m.TransitionCounter.WithLabelValues("pending", "approved", "popup")))
}
