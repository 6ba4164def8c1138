package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"
)

// AESGCM is the reference encrypted Encryptor: AES-256-GCM with a key
// derived from a caller-supplied passphrase via SHA-256. Ciphertext layout
// is iv || ciphertext || tag, exactly as cipher.AEAD.Seal produces when the
// nonce is used as the destination prefix.
type AESGCM struct {
	aead cipher.AEAD
}

// NewAESGCM derives a 256-bit key from passphrase via SHA-256 and builds an
// AES-GCM AEAD around it.
func NewAESGCM(passphrase string) (*AESGCM, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("kvs/crypto: passphrase must not be empty")
	}

	key := sha256.Sum256([]byte(passphrase))

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("kvs/crypto: create cipher: %w", err)
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("kvs/crypto: create GCM: %w", err)
	}

	return &AESGCM{aead: aead}, nil
}

// Encrypt seals plaintext, prefixing the nonce onto the returned ciphertext.
func (e *AESGCM) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("kvs/crypto: generate nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens ciphertext produced by Encrypt. It fails closed: a
// truncated or tampered buffer returns an error rather than partial or
// garbage plaintext.
func (e *AESGCM) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := e.aead.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, fmt.Errorf("kvs/crypto: ciphertext too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("kvs/crypto: decrypt: %w", err)
	}
	return plaintext, nil
}
