package preferences

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/kvserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.preferences_pb")
	return New(path, nil, nil)
}

func TestScalarRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	editor := s.Edit()
	require.NoError(t, editor.PutString("name", "Santiago"))
	require.NoError(t, editor.PutInt32("age", 30))
	require.NoError(t, editor.PutInt64("bignum", 9000000000))
	require.NoError(t, editor.PutFloat32("ratio", 1.5))
	require.NoError(t, editor.PutBool("premium", true))
	require.NoError(t, editor.Commit(ctx))

	name, err := s.GetString(ctx, "name", "?")
	require.NoError(t, err)
	assert.Equal(t, "Santiago", name)

	age, err := s.GetInt32(ctx, "age", 0)
	require.NoError(t, err)
	assert.Equal(t, int32(30), age)

	big, err := s.GetInt64(ctx, "bignum", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(9000000000), big)

	ratio, err := s.GetFloat32(ctx, "ratio", 0)
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), ratio)

	premium, err := s.GetBool(ctx, "premium", false)
	require.NoError(t, err)
	assert.True(t, premium)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	contains, err := s.Contains(ctx, "name")
	require.NoError(t, err)
	assert.True(t, contains)
}

func TestMissingKeyReturnsDefault(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	v, err := s.GetString(ctx, "missing", "fallback")
	require.NoError(t, err)
	assert.Equal(t, "fallback", v)

	ok, err := s.Contains(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseFailureReturnsDefaultNotError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	editor := s.Edit()
	require.NoError(t, editor.PutString("count", "not-a-number"))
	require.NoError(t, editor.Commit(ctx))

	v, err := s.GetInt32(ctx, "count", -1)
	require.NoError(t, err)
	assert.Equal(t, int32(-1), v)
}

func TestEditorFailsAfterCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	editor := s.Edit()
	require.NoError(t, editor.PutString("a", "1"))
	require.NoError(t, editor.Commit(ctx))

	err := editor.PutString("b", "2")
	assert.True(t, kvserrors.Is(err, kvserrors.KindInvalidState))

	err = editor.Commit(ctx)
	assert.True(t, kvserrors.Is(err, kvserrors.KindInvalidState))
}

func TestClearRemovesEverythingBeforeReapplyingBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := s.Edit()
	require.NoError(t, first.PutString("a", "1"))
	require.NoError(t, first.PutString("b", "2"))
	require.NoError(t, first.Commit(ctx))

	second := s.Edit()
	require.NoError(t, second.Clear())
	require.NoError(t, second.PutString("c", "3"))
	require.NoError(t, second.Commit(ctx))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, all)
}

func TestRemoveThenPutSameKeyKeepsPut(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seed := s.Edit()
	require.NoError(t, seed.PutString("a", "1"))
	require.NoError(t, seed.Commit(ctx))

	edit := s.Edit()
	require.NoError(t, edit.Remove("a"))
	require.NoError(t, edit.PutString("a", "2"))
	require.NoError(t, edit.Commit(ctx))

	v, err := s.GetString(ctx, "a", "?")
	require.NoError(t, err)
	assert.Equal(t, "2", v)
}

func TestStringStreamDeduplicatesUnrelatedKeyChanges(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := s.StringStream("watched", "def").Subscribe()
	defer sub.Close()

	<-sub.Chan() // initial default

	e1 := s.Edit()
	require.NoError(t, e1.PutString("watched", "value"))
	require.NoError(t, e1.Commit(ctx))
	assert.Equal(t, "value", <-sub.Chan())

	e2 := s.Edit()
	require.NoError(t, e2.PutString("unrelated", "noise"))
	require.NoError(t, e2.Commit(ctx))

	select {
	case v := <-sub.Chan():
		t.Fatalf("unexpected emission %q for an unrelated key change", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestAllStreamEmitsFullMapAndDeduplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sub := s.AllStream().Subscribe()
	defer sub.Close()

	<-sub.Chan()

	e := s.Edit()
	require.NoError(t, e.PutString("a", "1"))
	require.NoError(t, e.Commit(ctx))

	got := <-sub.Chan()
	assert.Equal(t, map[string]string{"a": "1"}, got)
}
