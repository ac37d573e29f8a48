package services

import (
	"context"
	"fmt"
	"testing"
	"time"
)

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryTokenStore(24 * time.Hour)
	store.now = func() time.Time { return now }

	if revoked, _ := store.IsRevoked(ctx, "jti-1"); revoked {
		t.Fatal("unknown token reported revoked")
	}

	if err := store.Revoke(ctx, "jti-1", time.Hour); err != nil {
		t.Fatalf("Revoke() error: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "jti-1"); !revoked {
		t.Error("revoked token not reported")
	}

	now = now.Add(2 * time.Hour)
	if revoked, _ := store.IsRevoked(ctx, "jti-1"); revoked {
		t.Error("token still revoked after it expired")
	}

	if err := store.Revoke(ctx, "jti-2", 0); err != nil {
		t.Fatalf("Revoke() with zero ttl error: %v", err)
	}
	if revoked, _ := store.IsRevoked(ctx, "jti-2"); revoked {
		t.Error("already-expired token was stored")
	}
}

func TestMemoryTokenStore_KeepsEveryRevocation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryTokenStore(time.Hour)

	ids := make([]string, 0, 5000)
	for i := 0; i < 5000; i++ {
		id := fmt.Sprintf("jti-%d", i)
		ids = append(ids, id)
		if err := store.Revoke(ctx, id, time.Hour); err != nil {
			t.Fatalf("Revoke(%s) error: %v", id, err)
		}
	}

	for _, id := range []string{ids[0], ids[1], ids[2499], ids[4999]} {
		if revoked, _ := store.IsRevoked(ctx, id); !revoked {
			t.Errorf("IsRevoked(%s) = false after more revocations were added", id)
		}
	}
}
