package cryptox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dunkey/dunkey-server/internal/common"
)

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := NewFieldCipher(Key(common.GenerateRandByteArray(32)))
	if err != nil {
		t.Fatalf("NewFieldCipher: %v", err)
	}
	return c
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	cases := []string{
		"",
		"hunter2",
		"пароль-с-юникодом-🔑",
		strings.Repeat("block-spanning-plaintext-", 20),
	}
	for _, plaintext := range cases {
		blob, err := c.EncryptField(plaintext)
		if err != nil {
			t.Fatalf("EncryptField(%q): %v", plaintext, err)
		}
		got, err := c.DecryptField(blob)
		if err != nil {
			t.Fatalf("DecryptField(%q): %v", plaintext, err)
		}
		if got != plaintext {
			t.Fatalf("round trip mismatch: got %q, want %q", got, plaintext)
		}
	}
}

func TestFieldCipher_FreshNoncePerCall(t *testing.T) {
	c := newTestCipher(t)

	blob1, err := c.EncryptField("same plaintext")
	if err != nil {
		t.Fatal(err)
	}
	blob2, err := c.EncryptField("same plaintext")
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(blob1, blob2) {
		t.Fatalf("two encryptions of the same plaintext produced identical blobs")
	}

	for _, blob := range [][]byte{blob1, blob2} {
		got, err := c.DecryptField(blob)
		if err != nil || got != "same plaintext" {
			t.Fatalf("decrypt: got %q, %v", got, err)
		}
	}
}

func TestFieldCipher_TamperDetection(t *testing.T) {
	c := newTestCipher(t)

	blob, err := c.EncryptField("sensitive value")
	if err != nil {
		t.Fatal(err)
	}

	// Flip every byte in turn; each corruption must fail closed.
	for i := range blob {
		tampered := make([]byte, len(blob))
		copy(tampered, blob)
		tampered[i] ^= 0xff

		if _, err := c.DecryptField(tampered); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("byte %d flipped: expected ErrDecryptFailed, got %v", i, err)
		}
	}
}

func TestFieldCipher_TruncatedBlob(t *testing.T) {
	c := newTestCipher(t)

	for _, blob := range [][]byte{nil, {}, {1, 2, 3}, make([]byte, 11)} {
		if _, err := c.DecryptField(blob); !errors.Is(err, ErrDecryptFailed) {
			t.Fatalf("blob of %d bytes: expected ErrDecryptFailed, got %v", len(blob), err)
		}
	}
}

func TestFieldCipher_WrongKey(t *testing.T) {
	c1 := newTestCipher(t)
	c2 := newTestCipher(t)

	blob, err := c1.EncryptField("secret")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c2.DecryptField(blob); !errors.Is(err, ErrDecryptFailed) {
		t.Fatalf("expected ErrDecryptFailed with wrong key, got %v", err)
	}
}

func TestNewFieldCipher_RejectsBadKeyLength(t *testing.T) {
	if _, err := NewFieldCipher(Key(make([]byte, 20))); !errors.Is(err, ErrKeyInvalid) {
		t.Fatalf("expected ErrKeyInvalid for 20-byte key, got %v", err)
	}
}
