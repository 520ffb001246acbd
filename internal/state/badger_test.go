package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBadgerInMemoryRoundTrip(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "b", []byte(`{"v":"b"}`)))
	require.NoError(t, s.Put(ctx, "a", []byte(`{"v":"a"}`)))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"v":"a"}`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Delete(ctx, "a"))
	_, err = s.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := OpenBadger(BadgerConfig{Dir: dir, SyncWrites: true, Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, s1.Put(ctx, "slot", []byte(`[1,2,3]`)))
	require.NoError(t, s1.Close())

	s2, err := OpenBadger(BadgerConfig{Dir: dir})
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, `[1,2,3]`, string(got))
}

func TestBadgerRequiresDir(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}
