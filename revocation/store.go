package revocation

import (
	"context"
	"time"
)

// Store is the pluggable revocation backend consulted on every validation.
// Implementations must be safe for concurrent use. Methods take a context
// because remote backends perform I/O; MemoryStore ignores it.
type Store interface {
	// Revoke marks a token ID revoked until expiresAt. Passing the token's
	// own expiry is the usual choice: once the token has expired the entry
	// carries no information and may be pruned.
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error

	// IsRevoked reports whether the token ID is currently revoked. An entry
	// whose expiry has passed reads as not revoked even before Cleanup
	// removes it.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)

	// RevokeSubject marks every token for the subject revoked from this
	// moment onward, until ReinstateSubject reverses it.
	RevokeSubject(ctx context.Context, subjectID string) error

	// IsSubjectRevoked reports whether the subject is revoked.
	IsSubjectRevoked(ctx context.Context, subjectID string) (bool, error)

	// ReinstateSubject removes a subject revocation. Reinstating a subject
	// that is not revoked is a no-op.
	ReinstateSubject(ctx context.Context, subjectID string) error

	// Cleanup prunes token-level entries whose expiry has passed. Subject
	// revocations are never pruned. The embedding application owns the
	// schedule; the store assumes no ambient timer.
	Cleanup(ctx context.Context) error
}
