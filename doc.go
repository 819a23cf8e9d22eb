// Package goSeal issues and validates compact, encrypted, tamper-proof
// authorization tokens and enforces a role/permission model over their
// contents. Tokens are sealed with XChaCha20-Poly1305 under a 32-byte
// symmetric key; nothing in a token is readable or forgeable without it.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// goSeal is the public surface. It exposes [Engine], [Builder],
// [TokenBuilder], [Config], and the error sentinels. The primitive crypto
// lives in the seal package, the claims codec in token, capability matching
// in permission, and revocation backends in revocation; the validation
// cache is internal and never exported.
//
// # Validation contract
//
// Validate is the hot path. The cache only ever saves the decrypt and
// deserialize cost of a repeat token: temporal rules re-run on every call,
// and the revocation store is consulted on every call regardless of cache
// status. A cached "valid" answer can never outlive a revocation.
package goSeal
