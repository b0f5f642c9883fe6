package cache

import (
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	store := NewStore()

	store.Set("key", "value", time.Minute)
	got, ok := store.Get("key")
	if !ok {
		t.Fatal("Expected value present")
	}
	if got.(string) != "value" {
		t.Errorf("Expected 'value', got %v", got)
	}

	store.Delete("key")
	if _, ok := store.Get("key"); ok {
		t.Error("Expected value gone after delete")
	}
}

func TestStoreExpiry(t *testing.T) {
	store := NewStore()

	store.Set("key", "value", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	if _, ok := store.Get("key"); ok {
		t.Error("Expected value expired")
	}
}

func TestStoreMissingKey(t *testing.T) {
	store := NewStore()

	if _, ok := store.Get("nope"); ok {
		t.Error("Expected miss for unknown key")
	}
}

func TestAcquireGuardSingleFlight(t *testing.T) {
	store := NewStore()

	if !store.AcquireGuard(KeySyncGuard, time.Minute) {
		t.Fatal("First acquire must succeed")
	}
	if store.AcquireGuard(KeySyncGuard, time.Minute) {
		t.Error("Second acquire must fail while held")
	}

	store.ReleaseGuard(KeySyncGuard)
	if !store.AcquireGuard(KeySyncGuard, time.Minute) {
		t.Error("Acquire must succeed after release")
	}
}

func TestAcquireGuardExpires(t *testing.T) {
	store := NewStore()

	if !store.AcquireGuard(KeySyncGuard, 10*time.Millisecond) {
		t.Fatal("First acquire must succeed")
	}
	time.Sleep(30 * time.Millisecond)

	if !store.AcquireGuard(KeySyncGuard, time.Minute) {
		t.Error("An expired guard must be reclaimable")
	}
}
