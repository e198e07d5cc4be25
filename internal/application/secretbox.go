package application

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
)

// DefaultPassphrase is the application-embedded secret the static key is
// derived from. It only hides credentials from casual inspection of the
// database file; anyone holding the binary can recover it.
const DefaultPassphrase = "portfolio-gh-key"

// KeyProvider supplies the 32-byte AES-256 key used to seal stored credentials.
type KeyProvider interface {
	Key(ctx context.Context) ([]byte, error)
}

// StaticKeyProvider derives the key as SHA-256 of a fixed passphrase.
type StaticKeyProvider struct {
	passphrase string
}

// NewStaticKeyProvider returns a provider for passphrase, or for
// DefaultPassphrase when passphrase is empty.
func NewStaticKeyProvider(passphrase string) StaticKeyProvider {
	if passphrase == "" {
		passphrase = DefaultPassphrase
	}
	return StaticKeyProvider{passphrase: passphrase}
}

// Key returns SHA-256(passphrase).
func (p StaticKeyProvider) Key(_ context.Context) ([]byte, error) {
	sum := sha256.Sum256([]byte(p.passphrase))
	return sum[:], nil
}

// SecretBox seals and opens small payloads with AES-256-GCM.
type SecretBox struct {
	keys KeyProvider
}

// NewSecretBox creates a SecretBox drawing keys from keys.
func NewSecretBox(keys KeyProvider) *SecretBox {
	return &SecretBox{keys: keys}
}

// Seal encrypts plaintext and returns a base64-encoded string containing the
// nonce (12 bytes) prepended to the ciphertext.
func (b *SecretBox) Seal(ctx context.Context, plaintext []byte) (string, error) {
	gcm, err := b.aead(ctx)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	sealed := gcm.Seal(nonce, nonce, plaintext, nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open decrypts a string produced by Seal.
func (b *SecretBox) Open(ctx context.Context, encoded string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := b.aead(ctx)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("gcm.Open: %w", err)
	}

	return plaintext, nil
}

func (b *SecretBox) aead(ctx context.Context) (cipher.AEAD, error) {
	key, err := b.keys.Key(ctx)
	if err != nil {
		return nil, fmt.Errorf("load key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
