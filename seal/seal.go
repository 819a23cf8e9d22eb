package seal

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the required symmetric key length in bytes.
	KeySize = chacha20poly1305.KeySize
	// NonceSize is the XChaCha20-Poly1305 nonce length in bytes.
	NonceSize = chacha20poly1305.NonceSizeX
	// Overhead is the Poly1305 authentication tag length in bytes.
	Overhead = chacha20poly1305.Overhead
)

// Header is the fixed format tag bound into the associated data of every
// sealed payload. The token package uses the same bytes as the wire prefix,
// so a token cannot be replayed under a different format or version.
const Header = "v1.seal."

// ErrCrypto is the root of the primitive-layer error taxonomy. All errors
// returned by this package satisfy errors.Is(err, ErrCrypto).
var ErrCrypto = errors.New("crypto failure")

var (
	// ErrKeySize is returned when the supplied key is not exactly KeySize bytes.
	ErrKeySize = fmt.Errorf("%w: key must be %d bytes", ErrCrypto, KeySize)
	// ErrOpenFailed is returned for every Open failure other than a bad key
	// size: truncated input, tampering, wrong key, or footer mismatch. The
	// cause is deliberately not distinguishable.
	ErrOpenFailed = fmt.Errorf("%w: sealed bytes rejected", ErrCrypto)
)

// NewKey generates a fresh random symmetric key from crypto/rand.
func NewKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}
	return key, nil
}

// Seal encrypts message under key and returns nonce ‖ ciphertext ‖ tag.
// The footer is authenticated but not encrypted; Open must be given the
// identical footer bytes. A fresh random nonce is generated per call.
func Seal(message, key, footer []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	nonce := make([]byte, NonceSize, NonceSize+len(message)+Overhead)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	return aead.Seal(nonce, nonce, message, associatedData(nonce, footer)), nil
}

// Open authenticates and decrypts sealed bytes produced by Seal. It fails
// with ErrOpenFailed when the input is shorter than a nonce plus tag, when
// authentication fails, or when the footer differs from the one sealed.
func Open(sealed, key, footer []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	if len(sealed) < NonceSize+Overhead {
		return nil, ErrOpenFailed
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCrypto, err)
	}

	nonce, ciphertext := sealed[:NonceSize], sealed[NonceSize:]

	message, err := aead.Open(nil, nonce, ciphertext, associatedData(nonce, footer))
	if err != nil {
		return nil, ErrOpenFailed
	}

	return message, nil
}

// associatedData builds the canonical associated data for one sealed payload:
// format tag, nonce, footer, and an empty implicit-assertion placeholder
// reserved for a future format revision.
func associatedData(nonce, footer []byte) []byte {
	return LenPrefixed([]byte(Header), nonce, footer, nil)
}

// ConstantTimeEqual compares two byte slices without an early exit on the
// first differing byte. A length mismatch returns false immediately; equal
// lengths are always scanned in full.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}

	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
