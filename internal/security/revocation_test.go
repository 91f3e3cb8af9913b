package security

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRevocationStore_RevokeAndIsRevoked(t *testing.T) {
	store := NewRevocationStore()

	if store.IsRevoked("tok") {
		t.Error("empty store should not report revoked")
	}
	store.Revoke("tok")
	if !store.IsRevoked("tok") {
		t.Error("IsRevoked should observe a prior Revoke")
	}
	if store.IsRevoked("other") {
		t.Error("unrelated token should not be revoked")
	}
}

func TestRevocationStore_Revoke_Idempotent(t *testing.T) {
	store := NewRevocationStore()

	store.Revoke("tok")
	store.Revoke("tok")
	store.Revoke("tok")

	if got := store.Len(); got != 1 {
		t.Errorf("Len = %d, want 1", got)
	}
}

func TestRevocationStore_Sweep_KeepsUnexpiredRemovesExpired(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	store := NewRevocationStore()
	t0 := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// expiresAt = t0 + 1h
	tok, _, err := codec.Issue("user-1", t0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	store.Revoke(tok)

	if removed := store.Sweep(t0.Add(30*time.Minute), codec); removed != 0 {
		t.Errorf("sweep at t0+30m removed %d, want 0", removed)
	}
	if !store.IsRevoked(tok) {
		t.Error("token must stay revoked before expiry")
	}

	if removed := store.Sweep(t0.Add(61*time.Minute), codec); removed != 1 {
		t.Errorf("sweep at t0+61m removed %d, want 1", removed)
	}
	if store.IsRevoked(tok) {
		t.Error("token should be dropped once expired")
	}
}

func TestRevocationStore_Sweep_DropsUndecodableEntries(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	store := NewRevocationStore()
	now := time.Now().UTC()

	good, _, err := codec.Issue("user-1", now)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	store.Revoke(good)
	store.Revoke("not-a-token")
	store.Revoke("also.not.valid")

	if removed := store.Sweep(now, codec); removed != 2 {
		t.Errorf("sweep removed %d, want 2", removed)
	}
	if !store.IsRevoked(good) {
		t.Error("live token must survive a sweep that drops garbage entries")
	}
}

func TestRevocationStore_ConcurrentRevokeAndSweep(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour)
	store := NewRevocationStore()
	now := time.Now().UTC()

	tokens := make([]string, 50)
	for i := range tokens {
		tok, _, err := codec.Issue(fmt.Sprintf("user-%d", i), now)
		if err != nil {
			t.Fatalf("Issue: %v", err)
		}
		tokens[i] = tok
	}

	var wg sync.WaitGroup
	for _, tok := range tokens {
		wg.Add(1)
		go func(tok string) {
			defer wg.Done()
			store.Revoke(tok)
			store.IsRevoked(tok)
		}(tok)
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Sweep(now, codec)
		}()
	}
	wg.Wait()

	// Nothing is expired at now, so every revocation must survive.
	for _, tok := range tokens {
		if !store.IsRevoked(tok) {
			t.Fatal("unexpired token lost during concurrent revoke/sweep")
		}
	}
}

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(4) // min cost keeps the test fast

	hash, err := h.Hash([]byte("correct horse battery staple"))
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if err := h.Compare(hash, []byte("correct horse battery staple")); err != nil {
		t.Errorf("Compare with right password: %v", err)
	}
	if err := h.Compare(hash, []byte("wrong password")); err == nil {
		t.Error("Compare with wrong password should fail")
	}
}
