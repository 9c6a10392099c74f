package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_EmptyDSN(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestOpenSQLite_InMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	gdb, err := OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)

	require.NoError(t, Ping(ctx, gdb))

	var one int
	require.NoError(t, gdb.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	require.NoError(t, Close(gdb))
	assert.Error(t, Ping(ctx, gdb))
}
