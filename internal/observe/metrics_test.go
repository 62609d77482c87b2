package observe

import (
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister_IsolatedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	Register(reg)

	HTTPRequests.WithLabelValues("/health", "200").Inc()
	HTTPDuration.WithLabelValues("/health").Observe(0)
	StoreQueryDuration.WithLabelValues("pharmacies", "ok").Observe(0)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	for _, want := range []string{
		"locator_http_requests_total",
		"locator_http_request_duration_seconds",
		"locator_store_query_duration_seconds",
		"locator_invalid_coordinates_total",
	} {
		assert.True(t, names[want], "collector %s not registered", want)
	}

	assert.Panics(t, func() { Register(reg) }, "double registration must panic")
}

func TestInitLogger_Levels(t *testing.T) {
	cases := map[string]bool{"debug": true, "INFO": false, "warn": false, "bogus": false}
	for level, debugEnabled := range cases {
		logger := InitLogger(level)
		assert.Equal(t, debugEnabled, logger.Enabled(context.Background(), slog.LevelDebug), "level %s", level)
	}
}
