package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"menusales/internal/core"
)

type countingLoader struct {
	calls atomic.Int32
	gate  chan struct{}
	err   error
}

func (l *countingLoader) Load(_ context.Context, category core.Category) (core.SalesTable, error) {
	l.calls.Add(1)
	if l.gate != nil {
		<-l.gate
	}
	if l.err != nil {
		return core.SalesTable{}, l.err
	}
	return core.SalesTable{Category: category, Rows: []string{"cola"}, Columns: []string{"2022-01"}}, nil
}

func TestTableCacheStampChange(t *testing.T) {
	loader := &countingLoader{}
	stamp := "v1"
	c := NewTableCache(loader, func(context.Context, core.Category) (string, bool) { return stamp, true }, 4, time.Minute)

	for i := 0; i < 3; i++ {
		if _, err := c.Load(context.Background(), "drink"); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("underlying loads = %d, want 1", got)
	}

	stamp = "v2"
	if _, err := c.Load(context.Background(), "drink"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := loader.calls.Load(); got != 2 {
		t.Fatalf("changed source was not reloaded: %d loads", got)
	}
}

func TestTableCacheDropsEntryWhenStampUnavailable(t *testing.T) {
	loader := &countingLoader{}
	available := true
	c := NewTableCache(loader, func(context.Context, core.Category) (string, bool) { return "v1", available }, 4, time.Minute)

	if _, err := c.Load(context.Background(), "drink"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d, want 1", c.Size())
	}

	available = false
	if _, err := c.Load(context.Background(), "drink"); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Size() != 0 {
		t.Fatalf("stale entry kept, size = %d", c.Size())
	}
}

func TestTableCacheBypassAndErrors(t *testing.T) {
	loader := &countingLoader{err: &core.NotFoundError{Category: "drink"}}
	c := NewTableCache(loader, func(context.Context, core.Category) (string, bool) { return "", false }, 4, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := c.Load(context.Background(), "drink"); !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	}
	if loader.calls.Load() != 2 || c.Size() != 0 {
		t.Fatalf("calls=%d size=%d", loader.calls.Load(), c.Size())
	}
}

func TestTableCacheCoalescesConcurrentMisses(t *testing.T) {
	loader := &countingLoader{gate: make(chan struct{})}
	c := NewTableCache(loader, nil, 4, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Load(context.Background(), "drink"); err != nil {
				t.Errorf("Load: %v", err)
			}
		}()
	}
	// Let the goroutines pile up on the in-flight load before releasing it.
	for loader.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	if got := loader.calls.Load(); got > 8 || got < 1 {
		t.Fatalf("underlying loads = %d", got)
	}
	if _, err := c.Load(context.Background(), "drink"); err != nil {
		t.Fatal(err)
	}
	before := loader.calls.Load()
	if _, err := c.Load(context.Background(), "drink"); err != nil || loader.calls.Load() != before {
		t.Fatalf("expected cache hit after warm-up")
	}
}

func TestFileStamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "book.xlsx")
	stamp := FileStamp(path)
	if _, ok := stamp(context.Background(), "drink"); ok {
		t.Fatal("missing file should bypass the cache")
	}
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	s1, ok := stamp(context.Background(), "drink")
	if !ok {
		t.Fatal("expected stamp for existing file")
	}
	if err := os.WriteFile(path, []byte("longer"), 0o644); err != nil {
		t.Fatal(err)
	}
	s2, _ := stamp(context.Background(), "drink")
	if s1 == s2 {
		t.Fatalf("stamp did not change after rewrite: %s", s1)
	}
}
