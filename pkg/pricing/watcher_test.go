package pricing

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestWatcher_ReloadsOnChange(t *testing.T) {
	path := writeTableFile(t, `
tiers:
  - label: flat
    min_units: 1
    max_units: 100
    rate: "0.50"
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	engine := NewEngine(table)

	watcher, err := NewWatcher(path, engine, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchDone := make(chan error, 1)
	go func() {
		watchDone <- watcher.Watch(ctx)
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	updated := `
tiers:
  - label: flat
    min_units: 1
    max_units: 200
    rate: "0.40"
`
	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		t.Fatalf("Failed to rewrite table file: %v", err)
	}

	// Wait for the swap to land.
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if engine.Table().MaxUnits() == 200 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}

	if engine.Table().MaxUnits() != 200 {
		t.Error("Expected engine to pick up the updated table")
	}

	cancel()
	select {
	case <-watchDone:
	case <-time.After(2 * time.Second):
		t.Error("Watcher did not stop after context cancellation")
	}
}

func TestWatcher_KeepsTableOnInvalidReload(t *testing.T) {
	path := writeTableFile(t, `
tiers:
  - label: flat
    min_units: 1
    max_units: 100
    rate: "0.50"
`)

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("LoadTable failed: %v", err)
	}
	engine := NewEngine(table)

	watcher, err := NewWatcher(path, engine, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = watcher.Watch(ctx) }()
	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("tiers: [broken"), 0o644); err != nil {
		t.Fatalf("Failed to rewrite table file: %v", err)
	}

	// The invalid table must be rejected; the engine keeps serving the old one.
	time.Sleep(500 * time.Millisecond)
	if engine.Table().MaxUnits() != 100 {
		t.Error("Expected engine to keep the previous table after invalid reload")
	}
}

func TestWatcher_WatchFailsOnMissingDirectory(t *testing.T) {
	engine := NewEngine(DefaultTable())

	watcher, err := NewWatcher("/nonexistent-dir/tiers.yaml", engine, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer watcher.Stop()

	// The failure surfaces from Watch itself; callers must not discard it.
	if err := watcher.Watch(context.Background()); err == nil {
		t.Error("Expected Watch to fail for a missing table directory")
	}
}
