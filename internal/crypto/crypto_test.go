package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughIsIdentity(t *testing.T) {
	p := Passthrough{}
	data := []byte("hello world")

	encrypted, err := p.Encrypt(data)
	require.NoError(t, err)
	assert.Equal(t, data, encrypted)

	decrypted, err := p.Decrypt(encrypted)
	require.NoError(t, err)
	assert.Equal(t, data, decrypted)
}

func TestAESGCMRoundTrip(t *testing.T) {
	e, err := NewAESGCM("correct horse battery staple")
	require.NoError(t, err)

	plaintext := []byte(`{"key":"value"}`)
	ciphertext, err := e.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := e.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestAESGCMEmptyPassphraseFails(t *testing.T) {
	_, err := NewAESGCM("")
	assert.Error(t, err)
}

func TestAESGCMDecryptWithWrongKeyFails(t *testing.T) {
	e1, err := NewAESGCM("key-one")
	require.NoError(t, err)
	e2, err := NewAESGCM("key-two")
	require.NoError(t, err)

	ciphertext, err := e1.Encrypt([]byte("secret"))
	require.NoError(t, err)

	_, err = e2.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestAESGCMDecryptTruncatedFails(t *testing.T) {
	e, err := NewAESGCM("key")
	require.NoError(t, err)

	_, err = e.Decrypt([]byte("x"))
	assert.Error(t, err)
}

func TestAESGCMProducesDistinctCiphertextsForSamePlaintext(t *testing.T) {
	e, err := NewAESGCM("key")
	require.NoError(t, err)

	c1, err := e.Encrypt([]byte("same"))
	require.NoError(t, err)
	c2, err := e.Encrypt([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, c1, c2, "random nonce should make repeated encryption non-deterministic")
}
