package store

import (
	"context"
	"errors"
	"testing"
	"time"

	pperrors "github.com/pathprobe/pathprobe/pkg/errors"
	"github.com/pathprobe/pathprobe/pkg/lsdb"
)

func sampleSnapshot(id string, created time.Time) *Snapshot {
	db := &lsdb.Database{
		RouterLSAs: []lsdb.RouterLSA{
			{RouterID: "1.1.1.1", AreaID: "0", Links: []lsdb.Link{{LinkID: "10.0.0.1", Metric: 10}}},
		},
		NetworkLSAs: []lsdb.NetworkLSA{
			{NetworkID: "10.0.0.1", AttachedRouters: []string{"1.1.1.1"}, AreaID: "0"},
		},
	}
	return &Snapshot{
		ID:        id,
		Name:      "core-" + id,
		Source:    "lsdb.txt",
		CreatedAt: created,
		Stats:     db.Stats(),
		Database:  db,
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	snap := sampleSnapshot("snap1", time.Now().UTC().Truncate(time.Second))
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := s.Get(ctx, "snap1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != snap.Name || got.Source != snap.Source {
		t.Errorf("metadata mismatch: got %+v", got)
	}
	if got.Stats.Routers != 1 || got.Stats.Networks != 1 {
		t.Errorf("stats mismatch: got %+v", got.Stats)
	}
	if got.Database == nil || len(got.Database.RouterLSAs) != 1 {
		t.Error("database payload should round trip")
	}
	if got.Database.RouterLSAs[0].RouterID != "1.1.1.1" {
		t.Errorf("router ID mismatch: got %q", got.Database.RouterLSAs[0].RouterID)
	}
}

func TestFileStoreGetMissing(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}

	_, err = s.Get(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if pperrors.GetCode(err) != pperrors.ErrCodeSnapshotNotFound {
		t.Errorf("expected SNAPSHOT_NOT_FOUND code, got %v", pperrors.GetCode(err))
	}
}

func TestFileStoreListNewestFirst(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"old", "mid", "new"} {
		snap := sampleSnapshot(id, base.Add(time.Duration(i)*time.Minute))
		if err := s.Save(ctx, snap); err != nil {
			t.Fatalf("Save %s failed: %v", id, err)
		}
	}

	snaps, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(snaps) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(snaps))
	}
	if snaps[0].ID != "new" || snaps[2].ID != "old" {
		t.Errorf("expected newest first, got %s, %s, %s", snaps[0].ID, snaps[1].ID, snaps[2].ID)
	}
	for _, snap := range snaps {
		if snap.Database != nil {
			t.Errorf("List should omit database payload for %s", snap.ID)
		}
	}
}

func TestFileStoreDelete(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	snap := sampleSnapshot("snap1", time.Now())
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Delete(ctx, "snap1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(ctx, "snap1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "snap1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for double delete, got %v", err)
	}
}

func TestFileStoreSaveOverwrites(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	ctx := context.Background()

	snap := sampleSnapshot("snap1", time.Now())
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	snap.Name = "renamed"
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	got, err := s.Get(ctx, "snap1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Name != "renamed" {
		t.Errorf("expected overwrite, got name %q", got.Name)
	}
}
