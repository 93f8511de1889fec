package sink

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteSink_PersistQuery(t *testing.T) {
	s, err := NewSQLiteSink("file:sink_test.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	b := testBatch(t)
	ctx := context.Background()
	require.NoError(t, s.WriteBatch(ctx, b))

	got, err := s.Observations(ctx, b.RunID)
	require.NoError(t, err)
	assert.Equal(t, b.Rows, got)

	other, err := s.Observations(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSQLiteSink_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bikes.db")
	s, err := NewSQLiteSink(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	b := testBatch(t)
	require.NoError(t, s.WriteBatch(context.Background(), b))
	assert.FileExists(t, path)
}

func TestSQLiteSink_DuplicateRunRollsBack(t *testing.T) {
	s, err := NewSQLiteSink("file:sink_dup_test.db?mode=memory&cache=shared")
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	b := testBatch(t)
	ctx := context.Background()
	require.NoError(t, s.WriteBatch(ctx, b))
	assert.Error(t, s.WriteBatch(ctx, b))

	got, err := s.Observations(ctx, b.RunID)
	require.NoError(t, err)
	assert.Len(t, got, len(b.Rows))
}
