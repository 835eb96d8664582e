package progress

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/tramind/internal/engine"
	"github.com/abhisek/tramind/internal/platform/logger"
	"github.com/abhisek/tramind/internal/progression"
	"github.com/abhisek/tramind/internal/screen"
	"github.com/abhisek/tramind/internal/store"
)

func screenEnv(t *testing.T) screen.Env {
	t.Helper()
	clk := engine.NewFakeClock(time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC))
	repo := store.NewProfileRepo(store.NewMemory(), store.WithNow(clk.Now))
	svc, err := progression.NewService(context.Background(), repo, logger.Discard())
	require.NoError(t, err)
	return screen.Env{Progress: svc, Clock: clk}
}
