package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/starcatalog-backend/internal/data/db"
	"github.com/yungbote/starcatalog-backend/internal/platform/logger"
	"github.com/yungbote/starcatalog-backend/internal/platform/redisbus"
)

func TestNewWiresSQLiteApp(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DB_DRIVER", db.DriverSQLite)
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "app.db"))
	t.Setenv("DB_MAX_OPEN_CONNS", "1")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	ctx := context.Background()
	a, err := New(ctx, cfg, logger.NewNop())
	require.NoError(t, err)

	assert.IsType(t, redisbus.Nop{}, a.Clients.Events)
	assert.True(t, a.DB.Migrator().HasTable("observations"))

	rec := httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stars", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, a.Shutdown(ctx))
}
