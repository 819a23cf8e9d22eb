// Package seal implements the authenticated-encryption primitives behind
// goSeal tokens: XChaCha20-Poly1305 sealing and opening with a 32-byte
// symmetric key, fresh 24-byte random nonces, and the canonical
// length-prefixed associated-data encoding that makes the token envelope
// tamper-evident.
//
// # Architecture boundaries
//
// This package works on raw bytes only. It knows nothing about claims, JSON,
// base64, or the dot-separated wire format — those belong to the token
// package. It performs no I/O beyond crypto/rand.
//
// # What this package must NOT do
//
//   - Import goSeal or any sibling package.
//   - Distinguish authentication failures from one another (no decryption
//     oracle: wrong key, tampering, and footer mismatch all look identical).
//   - Reuse a nonce. Nonces come from crypto/rand on every Seal call and are
//     never cached or derived.
package seal
