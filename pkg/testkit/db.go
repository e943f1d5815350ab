package testkit

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopql/pkg/database"
	"github.com/shashiranjanraj/shopql/pkg/migration"
)

// NewDB opens a private in-memory sqlite database, applies every registered
// migration and closes it when the test ends. Blank-import
// database/migrations in the calling test to register the schema.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	_, err = migration.New(db, migration.WithOutput(io.Discard)).Run(context.Background())
	require.NoError(t, err)
	return db
}
