package bootstrap

import (
	"context"
	"path/filepath"
	"testing"

	"yatube/internal/cache"
	"yatube/internal/config"
	"yatube/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRuntime_SQLiteWithoutRedis(t *testing.T) {
	cfg := &config.Config{
		Env:          "test",
		DBDriver:     "sqlite",
		DBSQLitePath: filepath.Join(t.TempDir(), "yatube.sqlite3"),
		DBSchemaMode: "auto",
		RedisURL:     "127.0.0.1:1",
	}

	db, rdb, err := InitRuntime(cfg, Options{SeedBuiltIns: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
		cache.SetClient(nil)
	})

	assert.Nil(t, rdb)

	var groups int64
	require.NoError(t, db.Model(&models.Group{}).Count(&groups).Error)
	assert.Positive(t, groups)

	// Seeding twice keeps one row per slug.
	db2, _, err := InitRuntime(cfg, Options{SeedBuiltIns: true})
	require.NoError(t, err)
	if sqlDB, err := db2.DB(); err == nil {
		_ = sqlDB.Close()
	}
	var again int64
	require.NoError(t, db.Model(&models.Group{}).Count(&again).Error)
	assert.Equal(t, groups, again)
}

func TestInitTracing_Disabled(t *testing.T) {
	shutdown, err := InitTracing(&config.Config{Env: "test"})
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}
