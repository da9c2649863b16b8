package cryptox

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Key purposes. Each purpose yields an independent key from the same secret.
const (
	PurposeCookieSigning = "payportal/cookie-signing/v1"
)

// DeriveKey expands secret into a 32 byte key bound to purpose using HKDF-SHA256.
// The same secret and purpose always yield the same key.
func DeriveKey(secret []byte, purpose string) ([]byte, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("cryptox: empty secret")
	}

	key := make([]byte, 32)
	r := hkdf.New(sha256.New, secret, nil, []byte(purpose))
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("cryptox: derive key: %w", err)
	}

	return key, nil
}
