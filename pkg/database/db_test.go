package database_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/shopql/pkg/database"
	"github.com/shashiranjanraj/shopql/pkg/metrics"
)

func TestOpenSQLiteMemory(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Ping(context.Background(), db))

	require.NoError(t, db.Exec("CREATE TABLE things (id TEXT PRIMARY KEY)").Error)
	require.NoError(t, db.Exec("INSERT INTO things (id) VALUES ('a')").Error)

	var n int64
	require.NoError(t, db.Table("things").Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "whatever")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestQueriesAreTimed(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	before := testutil.CollectAndCount(metrics.DBQueryDuration)

	var out []map[string]any
	require.NoError(t, db.Raw("SELECT 1 AS one").Scan(&out).Error)

	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), 1)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(metrics.DBQueryDuration), before)
}

func TestPingFailsAfterClose(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Close(db))

	assert.Error(t, database.Ping(context.Background(), db))
}
