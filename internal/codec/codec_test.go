package codec

import (
	"testing"

	"github.com/santimattius/kmp-kvs-storage/internal/ttlentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceCodecRoundTrip(t *testing.T) {
	c := NewPreferenceCodec()
	state := map[string]string{"b": "2", "a": "1"}

	encoded, err := c.Encode(state)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1","b":"2"}`, string(encoded))

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestPreferenceCodecDefaultAndEmptyInput(t *testing.T) {
	c := NewPreferenceCodec()
	assert.Equal(t, map[string]string{}, c.Default())

	decoded, err := c.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{}, decoded)
}

func TestPreferenceCodecDecodeInvalidJSON(t *testing.T) {
	c := NewPreferenceCodec()
	_, err := c.Decode([]byte("not json"))
	assert.Error(t, err)
}

func TestTTLCodecRoundTrip(t *testing.T) {
	c := NewTTLCodec()
	expiresAt := int64(1234)
	state := ttlentry.State{
		"session": ttlentry.Entry{Key: "session", Value: "abc", ExpiresAt: &expiresAt},
	}

	encoded, err := c.Encode(state)
	require.NoError(t, err)

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, state, decoded)
}

func TestTTLCodecDefaultAndEmptyInput(t *testing.T) {
	c := NewTTLCodec()
	assert.Equal(t, ttlentry.State{}, c.Default())

	decoded, err := c.Decode(nil)
	require.NoError(t, err)
	assert.Equal(t, ttlentry.State{}, decoded)
}

func TestDocumentCodecIsIdentity(t *testing.T) {
	c := NewDocumentCodec()
	assert.Equal(t, "", c.Default())

	encoded, err := c.Encode("hello world")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(encoded))

	decoded, err := c.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, "hello world", decoded)
}
