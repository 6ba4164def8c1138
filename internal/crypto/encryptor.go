// Package crypto implements the Encryptor capability: a symmetric
// byte-in/byte-out transform that sits below the codec, decoupling
// serialization from confidentiality.
package crypto

// Encryptor is a symmetric transform pair. The pass-through variant is
// identity; the AES-GCM variant is the reference encrypted implementation.
// The pair MUST round-trip for any byte sequence encrypt can produce.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Passthrough is the identity Encryptor: encrypted stores that don't
// configure a passphrase get plain canonical JSON on disk.
type Passthrough struct{}

func (Passthrough) Encrypt(plaintext []byte) ([]byte, error) {
	return plaintext, nil
}

func (Passthrough) Decrypt(ciphertext []byte) ([]byte, error) {
	return ciphertext, nil
}
