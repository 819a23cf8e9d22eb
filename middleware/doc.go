// Package middleware exposes HTTP middleware adapters that enforce goSeal
// token validation and permission checks on wrapped handlers.
//
// # Guards
//
//   - [Guard] — validates the bearer token and injects claims into context.
//   - [RequirePermission] — Guard plus a single capability check.
//   - [RequireAny] / [RequireAll] — Guard plus multi-capability checks.
//
// Each guard reads the Authorization header, calls Engine.Validate, and
// injects the validated claims into the request context for downstream
// handlers to read via [ClaimsFromContext].
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement validation logic itself — all decisions are delegated to
// Engine.Validate and the permission matcher.
//
// # What this package must NOT do
//
//   - Decrypt or issue tokens directly (delegates to Engine).
//   - Touch the revocation store (Engine handles I/O).
//   - Make authorization decisions beyond pass/reject from Validate and
//     the permission checks.
package middleware
