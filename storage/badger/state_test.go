package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/recallit/core"
)

func TestSourceStateRoundTrip(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	ctx := context.Background()
	mtime := time.Now().UTC().Truncate(time.Microsecond)

	state := &core.SourceState{
		SourcePath: "notes/journal.md",
		FileMtime:  mtime,
		ChunkCount: 7,
	}
	if err := repos.States.SaveSourceState(ctx, state); err != nil {
		t.Fatalf("Failed to save source state: %v", err)
	}

	loaded, err := repos.States.LoadSourceState(ctx, "notes/journal.md")
	if err != nil {
		t.Fatalf("Failed to load source state: %v", err)
	}
	if loaded == nil {
		t.Fatal("Expected state, got nil")
	}
	if !loaded.FileMtime.Equal(mtime) {
		t.Fatalf("Expected mtime %v, got %v", mtime, loaded.FileMtime)
	}
	if loaded.ChunkCount != 7 {
		t.Fatalf("Expected chunk count 7, got %d", loaded.ChunkCount)
	}
	if loaded.UpdatedAt.IsZero() {
		t.Fatal("Expected UpdatedAt to be set")
	}
}

func TestSourceStateMissing(t *testing.T) {
	repos, err := NewMemoryRepositories()
	if err != nil {
		t.Fatalf("Failed to create repositories: %v", err)
	}
	defer repos.Close()

	loaded, err := repos.States.LoadSourceState(context.Background(), "never/seen.md")
	if err != nil {
		t.Fatalf("Expected no error for missing state, got %v", err)
	}
	if loaded != nil {
		t.Fatalf("Expected nil state, got %+v", loaded)
	}
}
