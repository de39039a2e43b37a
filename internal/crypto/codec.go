// Package crypto provides the reversible encoding applied to sensitive
// credential fields (email and password) before they reach storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

const (
	// aeadPrefix tags values sealed by AEADCodec.
	aeadPrefix = "AEAD_"
	// legacyPrefix tags values written by the old base64-only encoder.
	legacyPrefix = "ENC_"
)

// ErrMalformed is returned when a tagged value cannot be decoded.
var ErrMalformed = errors.New("malformed encoded value")

// FieldCodec encodes sensitive fields for storage and reverses the encoding on read.
type FieldCodec interface {
	// Encode returns the storage representation of plain.
	Encode(plain string) (string, error)
	// Decode returns the plaintext for a stored value.
	Decode(stored string) (string, error)
	// Fingerprint returns a deterministic digest usable for equality lookups.
	Fingerprint(plain string) string
}

// AEADCodec seals values with AES-256-GCM under a managed key.
type AEADCodec struct {
	aead   cipher.AEAD
	macKey []byte
}

// NewAEADCodec derives an AES-256-GCM cipher and a fingerprint key from secret.
// secret is the configured field-encryption key; it must not be empty.
func NewAEADCodec(secret []byte) (*AEADCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("empty field encryption key")
	}
	key := sha256.Sum256(secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create AEAD: %w", err)
	}
	mac := sha256.Sum256(append([]byte("fingerprint:"), secret...))
	return &AEADCodec{aead: aead, macKey: mac[:]}, nil
}

// Encode seals plain with a random nonce. The empty string stays empty.
func (c *AEADCodec) Encode(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	// result = nonce || ciphertext
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return aeadPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode opens AEAD_ values, unwraps legacy ENC_ values and returns
// anything else unchanged as legacy plaintext.
func (c *AEADCodec) Decode(stored string) (string, error) {
	switch {
	case strings.HasPrefix(stored, aeadPrefix):
		raw, err := base64.StdEncoding.DecodeString(stored[len(aeadPrefix):])
		if err != nil || len(raw) < c.aead.NonceSize() {
			return "", ErrMalformed
		}
		nonce, data := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
		plain, err := c.aead.Open(nil, nonce, data, nil)
		if err != nil {
			return "", fmt.Errorf("open sealed value: %w", err)
		}
		return string(plain), nil
	case strings.HasPrefix(stored, legacyPrefix):
		return decodeLegacy(stored)
	default:
		return stored, nil
	}
}

// Fingerprint returns hex(HMAC-SHA256(lower(trim(plain)))).
func (c *AEADCodec) Fingerprint(plain string) string {
	m := hmac.New(sha256.New, c.macKey)
	m.Write([]byte(strings.ToLower(strings.TrimSpace(plain))))
	return hex.EncodeToString(m.Sum(nil))
}

// LegacyEncode returns plain in the old base64-only encoding, for
// matching rows written before sealing.
func LegacyEncode(plain string) string {
	if plain == "" {
		return ""
	}
	return legacyPrefix + base64.StdEncoding.EncodeToString([]byte(plain))
}

func decodeLegacy(stored string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(stored[len(legacyPrefix):])
	if err != nil {
		return "", ErrMalformed
	}
	return string(raw), nil
}
