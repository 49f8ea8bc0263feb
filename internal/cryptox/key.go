// Package cryptox implements the symmetric encryption used for vault fields:
// loading and validating the process-wide key, and encrypting/decrypting
// individual plaintext strings into self-contained blobs.
package cryptox

import (
	"encoding/base64"
	"errors"
	"fmt"
)

var (
	// ErrKeyMissing is returned when the configured key value is empty.
	// A missing key is a deployment error: the process must not start.
	ErrKeyMissing = errors.New("encryption key is not set")

	// ErrKeyInvalid is returned when the configured key value is not valid
	// base64 or does not decode to an acceptable AES key length.
	ErrKeyInvalid = errors.New("encryption key is invalid")
)

// Key is the immutable process-wide symmetric key. It is loaded once at
// startup and injected into the FieldCipher; there is no reload operation.
type Key []byte

// LoadKey decodes a base64-encoded key value and validates its length.
// Acceptable lengths are 16, 24 and 32 bytes (AES-128/192/256).
//
// Failures here must abort startup, never be handled per-request.
func LoadKey(encoded string) (Key, error) {
	if encoded == "" {
		return nil, ErrKeyMissing
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: base64 decode: %v", ErrKeyInvalid, err)
	}

	switch len(raw) {
	case 16, 24, 32:
		return Key(raw), nil
	default:
		return nil, fmt.Errorf("%w: length %d, want 16, 24 or 32 bytes", ErrKeyInvalid, len(raw))
	}
}
