package goSeal

import (
	"errors"

	"github.com/MrEthical07/goSeal/seal"
	"github.com/MrEthical07/goSeal/token"
)

// The four error classes callers branch on. ErrCrypto and ErrValidation are
// aliases of the sentinels the subpackages wrap, so errors.Is works the same
// whether a failure is matched here or against seal/token directly.
var (
	// ErrCrypto covers primitive-layer failures: wrong key size, malformed
	// sealed bytes, authentication failure. Never recoverable.
	ErrCrypto = seal.ErrCrypto
	// ErrTokenInvalid covers bad wire format and every decode/auth failure,
	// folded together so the error never acts as a decryption oracle.
	ErrTokenInvalid = token.ErrTokenInvalid
	// ErrValidation covers missing required claims, malformed duration
	// strings, and failing temporal or identity rules. The wrapped message
	// names the specific rule.
	ErrValidation = token.ErrValidation
	// ErrTokenRevoked is returned when the token ID or subject has been
	// revoked. Distinct from ErrTokenInvalid so callers can log revocation
	// differently from tampering.
	ErrTokenRevoked = errors.New("token revoked")
)

// ErrEngineNotReady is returned when an Engine method is called on a nil or
// incompletely built engine.
var ErrEngineNotReady = errors.New("engine not initialized")
