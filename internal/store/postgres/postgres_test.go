package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"ATRAX_BACK-END/internal/config"
	"ATRAX_BACK-END/internal/store/storetest"
)

// Runs against a real database only when TEST_DB_PASSWORD is set; the other
// DB_* variables fall back to the usual defaults.
func TestStoreConformance(t *testing.T) {
	if os.Getenv("TEST_DB_PASSWORD") == "" {
		t.Skip("TEST_DB_PASSWORD not set; skipping PostgreSQL integration test")
	}
	t.Setenv("DB_PASSWORD", os.Getenv("TEST_DB_PASSWORD"))
	t.Setenv("JWT_SECRET", "test")
	t.Setenv("STORE_DRIVER", config.DriverPostgres)

	cfg, err := config.Parse()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)

	ctx := context.Background()
	s, err := New(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(ctx) })

	storetest.Run(t, s)
}
