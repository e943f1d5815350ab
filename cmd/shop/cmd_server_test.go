package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopql/config"
	_ "github.com/shashiranjanraj/shopql/database/migrations"
	"github.com/shashiranjanraj/shopql/pkg/database"
)

func openEnv(t *testing.T, vars map[string]string) *env {
	t.Helper()

	cfg, err := config.Parse(vars)
	require.NoError(t, err)

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	return &env{cfg: cfg, db: db, flush: func() {}}
}

func TestBuildKernelWithoutSecretLeavesDatabaseAlone(t *testing.T) {
	e := openEnv(t, map[string]string{"AUTO_MIGRATE": "true"})

	_, err := buildKernel(context.Background(), e)
	require.Error(t, err)

	assert.False(t, e.db.Migrator().HasTable("shop_migrations"))
	assert.False(t, e.db.Migrator().HasTable("users"))
}

func TestBuildKernelMigrates(t *testing.T) {
	e := openEnv(t, map[string]string{"AUTO_MIGRATE": "true", "JWT_SECRET": "s3cret", "HASH_WORKERS": "1"})

	k, err := buildKernel(context.Background(), e)
	require.NoError(t, err)
	t.Cleanup(k.Close)

	assert.True(t, e.db.Migrator().HasTable("users"))
	assert.True(t, e.db.Migrator().HasTable("orders"))
}
