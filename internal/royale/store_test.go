package royale

import (
	"context"
	"reflect"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStoreWithRedis(t *testing.T) (*Store, *miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewStore(rdb), mr, rdb
}

func TestStoreSnapshot_RoundTrip(t *testing.T) {
	store, _, _ := newTestStoreWithRedis(t)
	ctx := context.Background()

	sess := newSession(t, "Alice", "Bob", "Cara")
	sess.Round = 2
	sess.Survivors = []string{"Alice", "Cara"}
	sess.Eliminated = []string{"Bob"}
	sess.History = []RoundRecord{
		{
			Round:               1,
			FactionDescriptions: map[string]string{"Crimson Vanguard": "held the ridge"},
			Eliminations:        []EliminationEvent{{Warrior: "Bob", EliminatedBy: "Alice", Method: "ambushed"}},
			Narrative:           "It begins.",
			Survivors:           []string{"Alice", "Cara"},
		},
	}

	if err := store.SaveSnapshot(ctx, sess); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	got, err := store.LoadSnapshot(ctx, sess.Room)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if got == nil {
		t.Fatal("snapshot missing")
	}

	if got.ID != sess.ID || got.Round != sess.Round || got.Phase != sess.Phase {
		t.Fatalf("header fields lost: %+v", got)
	}
	if !reflect.DeepEqual(got.Survivors, sess.Survivors) ||
		!reflect.DeepEqual(got.Eliminated, sess.Eliminated) ||
		!reflect.DeepEqual(got.Factions, sess.Factions) ||
		!reflect.DeepEqual(got.History, sess.History) {
		t.Fatalf("snapshot round trip lost data:\n got %+v\nwant %+v", got, sess)
	}
	if !got.CreatedAt.Equal(sess.CreatedAt) {
		t.Fatalf("created_at drifted: %v vs %v", got.CreatedAt, sess.CreatedAt)
	}
}

func TestStoreSnapshot_MissingAndDeleted(t *testing.T) {
	store, _, _ := newTestStoreWithRedis(t)
	ctx := context.Background()

	got, err := store.LoadSnapshot(ctx, "empty-room")
	if err != nil || got != nil {
		t.Fatalf("missing snapshot should be (nil, nil), got (%v, %v)", got, err)
	}

	sess := newSession(t, "Alice", "Bob")
	if err := store.SaveSnapshot(ctx, sess); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}
	if err := store.DeleteSnapshot(ctx, sess.Room); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if got, _ := store.LoadSnapshot(ctx, sess.Room); got != nil {
		t.Fatal("snapshot survived deletion")
	}
}

func TestStoreSweepStale(t *testing.T) {
	store, mr, rdb := newTestStoreWithRedis(t)
	ctx := context.Background()

	old := newSession(t, "Alice", "Bob")
	old.Room = "old-room"
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	if err := store.SaveSnapshot(ctx, old); err != nil {
		t.Fatalf("SaveSnapshot old: %v", err)
	}

	fresh := newSession(t, "Cara", "Dan")
	fresh.Room = "fresh-room"
	if err := store.SaveSnapshot(ctx, fresh); err != nil {
		t.Fatalf("SaveSnapshot fresh: %v", err)
	}

	// corrupted blobs count as stale
	if err := rdb.Set(ctx, "royale:game:broken", "{not json", time.Hour).Err(); err != nil {
		t.Fatalf("seed broken snapshot: %v", err)
	}

	removed, err := store.SweepStale(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("SweepStale: %v", err)
	}
	if removed != 2 {
		t.Fatalf("removed = %d, want 2", removed)
	}
	if got, _ := store.LoadSnapshot(ctx, "fresh-room"); got == nil {
		t.Fatal("fresh snapshot was swept")
	}
	if mr.Exists("royale:game:old-room") {
		t.Fatal("stale snapshot survived the sweep")
	}
}
