package ttl

import (
	"context"
	"testing"
	"time"

	"github.com/santimattius/kmp-kvs-storage/internal/kvserrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditorFailsAfterCommit(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()

	editor := e.Edit()
	require.NoError(t, editor.PutString("a", "1", nil))
	require.NoError(t, editor.Commit(ctx))

	err := editor.PutString("b", "2", nil)
	assert.True(t, kvserrors.Is(err, kvserrors.KindInvalidState))

	err = editor.Commit(ctx)
	assert.True(t, kvserrors.Is(err, kvserrors.KindInvalidState))
}

func TestEditorMarksEntriesEncryptedWhenEngineEncrypts(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()
	e.encrypted = true

	editor := e.Edit()
	require.NoError(t, editor.PutString("a", "1", nil))
	require.NoError(t, editor.Commit(ctx))

	state, err := e.cell.Read(ctx)
	require.NoError(t, err)
	assert.True(t, state["a"].Encrypted)
}

func TestExpirationResolvedAtCommitTimeNotPutTime(t *testing.T) {
	clock := NewFakeClock(0)
	e, _ := newTestEngine(t, nil, clock)
	ctx := context.Background()

	duration := 10 * time.Second
	editor := e.Edit()
	require.NoError(t, editor.PutString("k", "v", &duration))

	clock.Advance(5 * time.Second)
	require.NoError(t, editor.Commit(ctx))

	state, err := e.cell.Read(ctx)
	require.NoError(t, err)
	require.NotNil(t, state["k"].ExpiresAt)
	assert.Equal(t, int64(5000+10000), *state["k"].ExpiresAt)
}

func TestPersistedDurationIsRenderedAsISO8601(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()

	duration := 90 * time.Minute
	editor := e.Edit()
	require.NoError(t, editor.PutString("k", "v", &duration))
	require.NoError(t, editor.Commit(ctx))

	state, err := e.cell.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, "PT1H30M", state["k"].Duration)
}

func TestClearRemovesEverythingBeforeReapplyingBatch(t *testing.T) {
	e, _ := newTestEngine(t, nil, nil)
	ctx := context.Background()

	first := e.Edit()
	require.NoError(t, first.PutString("a", "1", nil))
	require.NoError(t, first.PutString("b", "2", nil))
	require.NoError(t, first.Commit(ctx))

	second := e.Edit()
	require.NoError(t, second.Clear())
	require.NoError(t, second.PutString("c", "3", nil))
	require.NoError(t, second.Commit(ctx))

	all, err := e.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"c": "3"}, all)
}
