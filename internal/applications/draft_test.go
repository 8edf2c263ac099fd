package applications

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"testing"
)

func TestMemoryDraftStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()
	fields := Fields{"groupName": "Taiko Club", "email": "taro@example.com"}

	if err := store.Put(ctx, "sid-1", KindPerformer, fields); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, err := store.Get(ctx, "sid-1", KindPerformer)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, fields) {
		t.Errorf("Get = %v, want %v", got, fields)
	}

	// Idempotent reads: two gets without an intervening put agree.
	again, err := store.Get(ctx, "sid-1", KindPerformer)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(got, again) {
		t.Errorf("second Get = %v, want %v", again, got)
	}
}

func TestMemoryDraftStorePutReplacesWholeMap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()

	if err := store.Put(ctx, "sid-1", KindStall, Fields{"groupName": "A", "items": "coffee"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := store.Put(ctx, "sid-1", KindStall, Fields{"groupName": "B"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, _ := store.Get(ctx, "sid-1", KindStall)
	if _, ok := got["items"]; ok {
		t.Error("old field survived a replacing Put")
	}
	if got["groupName"] != "B" {
		t.Errorf("groupName = %q, want B", got["groupName"])
	}
}

func TestMemoryDraftStoreMissingDraftIsEmpty(t *testing.T) {
	store := NewMemoryDraftStore()
	got, err := store.Get(context.Background(), "nobody", KindPerformer)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Get for missing draft = %v, want empty map", got)
	}
}

func TestMemoryDraftStoreClear(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()
	_ = store.Put(ctx, "sid-1", KindPerformer, Fields{"groupName": "A"})

	if err := store.Clear(ctx, "sid-1", KindPerformer); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ := store.Get(ctx, "sid-1", KindPerformer)
	if len(got) != 0 {
		t.Errorf("draft survived Clear: %v", got)
	}

	// Clearing again is not an error.
	if err := store.Clear(ctx, "sid-1", KindPerformer); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestMemoryDraftStoreKindsAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()
	_ = store.Put(ctx, "sid-1", KindPerformer, Fields{"performance": "Drumming"})
	_ = store.Put(ctx, "sid-1", KindStall, Fields{"boothType": "food"})

	_ = store.Clear(ctx, "sid-1", KindPerformer)
	got, _ := store.Get(ctx, "sid-1", KindStall)
	if got["boothType"] != "food" {
		t.Error("clearing the performer draft touched the stall draft")
	}
}

func TestMemoryDraftStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryDraftStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Put(ctx, "sid-1", KindPerformer, Fields{"groupName": fmt.Sprintf("group-%d", i)})
		}(i)
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "sid-1", KindPerformer)
		}()
	}
	wg.Wait()

	got, err := store.Get(ctx, "sid-1", KindPerformer)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	// Last writer wins; the map must still be coherent.
	if len(got) != 1 || got["groupName"] == "" {
		t.Errorf("corrupted draft after concurrent access: %v", got)
	}
}
