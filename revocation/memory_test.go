package revocation

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStoreRevoke(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if revoked, _ := store.IsRevoked(ctx, "t1"); revoked {
		t.Fatal("fresh store reported t1 revoked")
	}

	if err := store.Revoke(ctx, "t1", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	if revoked, _ := store.IsRevoked(ctx, "t1"); !revoked {
		t.Fatal("expected t1 revoked")
	}
	if revoked, _ := store.IsRevoked(ctx, "t2"); revoked {
		t.Fatal("t2 was never revoked")
	}
}

func TestMemoryStoreRevocationLapses(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Revoke(ctx, "t1", time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	// Past-expiry entries read as not revoked even before Cleanup runs.
	if revoked, _ := store.IsRevoked(ctx, "t1"); revoked {
		t.Fatal("expired revocation still reported revoked")
	}
}

func TestMemoryStoreCleanupAsymmetry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.Revoke(ctx, "dead", time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.Revoke(ctx, "alive", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := store.RevokeSubject(ctx, "user-1"); err != nil {
		t.Fatalf("RevokeSubject failed: %v", err)
	}

	if err := store.Cleanup(ctx); err != nil {
		t.Fatalf("Cleanup failed: %v", err)
	}

	tokens, subjects := store.Len()
	if tokens != 1 {
		t.Fatalf("expected only the live token entry to survive, got %d", tokens)
	}

	// Subject revocations deliberately survive Cleanup: they persist until
	// the subject is reinstated, unlike token-level entries.
	if subjects != 1 {
		t.Fatalf("expected subject revocation to survive Cleanup, got %d", subjects)
	}
	if revoked, _ := store.IsSubjectRevoked(ctx, "user-1"); !revoked {
		t.Fatal("subject revocation lost by Cleanup")
	}
}

func TestMemoryStoreSubjectReinstate(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if err := store.RevokeSubject(ctx, "user-1"); err != nil {
		t.Fatalf("RevokeSubject failed: %v", err)
	}
	if revoked, _ := store.IsSubjectRevoked(ctx, "user-1"); !revoked {
		t.Fatal("expected user-1 revoked")
	}

	if err := store.ReinstateSubject(ctx, "user-1"); err != nil {
		t.Fatalf("ReinstateSubject failed: %v", err)
	}
	if revoked, _ := store.IsSubjectRevoked(ctx, "user-1"); revoked {
		t.Fatal("expected user-1 reinstated")
	}

	// Reinstating an unknown subject is a no-op.
	if err := store.ReinstateSubject(ctx, "ghost"); err != nil {
		t.Fatalf("ReinstateSubject on unknown subject failed: %v", err)
	}
}

func TestMemoryStoreConcurrency(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 500; i++ {
			_ = store.Revoke(ctx, "tok", time.Now().Add(time.Hour))
			_ = store.RevokeSubject(ctx, "sub")
			_ = store.Cleanup(ctx)
		}
	}()

	for i := 0; i < 500; i++ {
		_, _ = store.IsRevoked(ctx, "tok")
		_, _ = store.IsSubjectRevoked(ctx, "sub")
	}
	<-done
}
