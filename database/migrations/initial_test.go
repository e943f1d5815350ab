package migrations_test

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopql/app/models"
	_ "github.com/shashiranjanraj/shopql/database/migrations"
	"github.com/shashiranjanraj/shopql/pkg/database"
	"github.com/shashiranjanraj/shopql/pkg/migration"
)

func TestSchemaUpAndDown(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	r := migration.New(db, migration.WithOutput(io.Discard))
	ctx := context.Background()

	n, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	m := db.Migrator()
	assert.True(t, m.HasTable(&models.User{}))
	assert.True(t, m.HasTable(&models.Product{}))
	assert.True(t, m.HasTable(&models.Order{}))
	assert.True(t, m.HasIndex(&models.User{}, "Email"))

	n, err = r.Rollback(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.False(t, m.HasTable(&models.Order{}))
	assert.False(t, m.HasTable(&models.User{}))
}
