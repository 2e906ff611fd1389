// Package fieldcrypt decrypts customer fields stored encrypted at rest.
//
// Each field is sealed with AES-256-GCM under a key derived with PBKDF2-SHA256
// from the service secret and a per-field salt. Ciphertext, IV, tag and salt are
// stored base64-encoded in separate columns.
package fieldcrypt

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/driano7/XocoCafe-sub000/internal/service/models/customer"
	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 100_000
	keyLen            = 32
	saltLen           = 16
)

var (
	ErrNoKey          = errors.New("field encryption key is not configured")
	ErrIncompleteSeal = errors.New("encrypted field is missing iv, tag or salt")
)

// Cipher derives per-field keys from a shared secret.
type Cipher struct {
	secret     []byte
	iterations int
}

// New creates a Cipher. Non-positive iterations select DefaultIterations.
func New(secret string, iterations int) *Cipher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	return &Cipher{
		secret:     []byte(secret),
		iterations: iterations,
	}
}

func (c *Cipher) gcm(salt []byte) (cipher.AEAD, error) {
	key := pbkdf2.Key(c.secret, salt, c.iterations, keyLen, sha256.New)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return gcm, nil
}

// Decrypt opens one sealed field.
func (c *Cipher) Decrypt(field customer.Sealed) (string, error) {
	if len(c.secret) == 0 {
		return "", ErrNoKey
	}
	if field.IV == "" || field.Tag == "" || field.Salt == "" {
		return "", ErrIncompleteSeal
	}

	parts := make([][]byte, 4)
	for i, s := range []string{field.Ciphertext, field.IV, field.Tag, field.Salt} {
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", fmt.Errorf("failed to decode base64: %w", err)
		}
		parts[i] = b
	}
	ciphertext, iv, tag, salt := parts[0], parts[1], parts[2], parts[3]

	gcm, err := c.gcm(salt)
	if err != nil {
		return "", err
	}
	if len(iv) != gcm.NonceSize() {
		return "", fmt.Errorf("invalid iv length %d", len(iv))
	}
	if len(tag) != gcm.Overhead() {
		return "", fmt.Errorf("invalid tag length %d", len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	return string(plaintext), nil
}

// Encrypt seals plaintext with a fresh salt and IV. Used by seeding and tests.
func (c *Cipher) Encrypt(plaintext string) (customer.Sealed, error) {
	if len(c.secret) == 0 {
		return customer.Sealed{}, ErrNoKey
	}

	salt := make([]byte, saltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return customer.Sealed{}, fmt.Errorf("failed to generate salt: %w", err)
	}

	gcm, err := c.gcm(salt)
	if err != nil {
		return customer.Sealed{}, err
	}

	iv := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, iv); err != nil {
		return customer.Sealed{}, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(plaintext), nil)
	split := len(sealed) - gcm.Overhead()

	enc := base64.StdEncoding.EncodeToString

	return customer.Sealed{
		Ciphertext: enc(sealed[:split]),
		IV:         enc(iv),
		Tag:        enc(sealed[split:]),
		Salt:       enc(salt),
	}, nil
}
