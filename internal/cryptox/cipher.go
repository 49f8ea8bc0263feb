package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrDecryptFailed is returned for any integrity failure during decryption:
// a blob shorter than one nonce, a failed authentication check (corrupted
// ciphertext, wrong key, tampering) or plaintext that is not valid UTF-8.
// No partial or fallback plaintext is ever returned.
var ErrDecryptFailed = errors.New("decryption failed")

// FieldCipher encrypts and decrypts individual plaintext strings with the
// process-wide key. Each blob is self-contained: nonce || ciphertext, with
// the authentication tag appended by AES-GCM. A fresh random nonce is
// generated on every call, so two encryptions of the same plaintext differ.
//
// The zero value is unusable; construct with NewFieldCipher. A FieldCipher
// is safe for concurrent use.
type FieldCipher struct {
	aead cipher.AEAD
}

// NewFieldCipher builds a FieldCipher over the given key.
func NewFieldCipher(key Key) (*FieldCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyInvalid, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: aead}, nil
}

// EncryptField encrypts a UTF-8 plaintext string into a nonce||ciphertext blob.
func (c *FieldCipher) EncryptField(plaintext string) ([]byte, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	// Seal appends the ciphertext and tag to the nonce.
	return c.aead.Seal(nonce, nonce, []byte(plaintext), nil), nil
}

// DecryptField reverses EncryptField. All failure modes surface as
// ErrDecryptFailed so callers cannot distinguish truncation from tampering.
func (c *FieldCipher) DecryptField(blob []byte) (string, error) {
	ns := c.aead.NonceSize()
	if len(blob) < ns {
		return "", fmt.Errorf("%w: blob shorter than nonce", ErrDecryptFailed)
	}

	nonce, ciphertext := blob[:ns], blob[ns:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid UTF-8", ErrDecryptFailed)
	}
	return string(plaintext), nil
}
