package token

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/goSeal/seal"
)

// Prefix is the version/mode prefix every wire token starts with. It is the
// same byte string the seal package binds into the associated data.
const Prefix = seal.Header

// ErrTokenInvalid covers every decode-side failure: wrong prefix, malformed
// segments, bad base64, failed authentication, or an undecodable body. The
// underlying cause is deliberately folded away so a caller holding a forged
// token learns nothing from the error.
var ErrTokenInvalid = errors.New("invalid token")

// Encode serializes claims, seals them under key, and assembles the wire
// token. The footer, when non-empty, is authenticated cleartext appended as
// a third dot segment. Subject and Expiry must be set.
func Encode(c *Claims, key, footer []byte) (string, error) {
	if err := c.CheckRequired(); err != nil {
		return "", err
	}

	body, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode claims: %w", err)
	}

	sealed, err := seal.Seal(body, key, footer)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.Grow(len(Prefix) + base64.RawURLEncoding.EncodedLen(len(sealed)) + 1 + base64.RawURLEncoding.EncodedLen(len(footer)))
	b.WriteString(Prefix)
	b.WriteString(base64.RawURLEncoding.EncodeToString(sealed))
	if len(footer) > 0 {
		b.WriteByte('.')
		b.WriteString(base64.RawURLEncoding.EncodeToString(footer))
	}

	return b.String(), nil
}

// Decode parses a wire token and returns the claims and the footer bytes,
// if any. Fields absent from the wire payload are left zero; no validation
// beyond authenticity happens here.
func Decode(tok string, key []byte) (*Claims, []byte, error) {
	rest, ok := strings.CutPrefix(tok, Prefix)
	if !ok {
		return nil, nil, ErrTokenInvalid
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 2 {
		return nil, nil, ErrTokenInvalid
	}
	for _, part := range parts {
		if part == "" {
			return nil, nil, ErrTokenInvalid
		}
	}

	sealed, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, ErrTokenInvalid
	}

	var footer []byte
	if len(parts) == 2 {
		if footer, err = base64.RawURLEncoding.DecodeString(parts[1]); err != nil {
			return nil, nil, ErrTokenInvalid
		}
	}

	body, err := seal.Open(sealed, key, footer)
	if err != nil {
		if errors.Is(err, seal.ErrKeySize) {
			// A wrong-sized key is a caller bug, not a hostile token.
			return nil, nil, err
		}
		return nil, nil, ErrTokenInvalid
	}

	var c Claims
	if err := json.Unmarshal(body, &c); err != nil {
		return nil, nil, ErrTokenInvalid
	}

	return &c, footer, nil
}
