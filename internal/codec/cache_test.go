package codec

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func writeTestBitmap(t *testing.T, dir, name string, width, height int, hasAlpha bool) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := SaveFile(path, createPatternBuffer(t, width, height, hasAlpha)); err != nil {
		t.Fatalf("SaveFile failed: %v", err)
	}
	return path
}

func TestBufferCache_Load(t *testing.T) {
	dir := t.TempDir()
	path := writeTestBitmap(t, dir, "a.bmp", 4, 4, false)

	cache := NewBufferCache()
	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}

	// Deleting the file proves the second load is served from memory.
	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("cached Load failed: %v", err)
	}
	if first != second {
		t.Error("second Load should return the cached buffer")
	}
}

func TestBufferCache_LoadError(t *testing.T) {
	cache := NewBufferCache()
	if _, err := cache.Load(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Fatal("Load should fail for a missing file")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads must not be cached, Len=%d", cache.Len())
	}
}

func TestBufferCache_EvictAndClear(t *testing.T) {
	dir := t.TempDir()
	a := writeTestBitmap(t, dir, "a.bmp", 2, 2, false)
	b := writeTestBitmap(t, dir, "b.bmp", 3, 3, true)

	cache := NewBufferCache()
	for _, p := range []string{a, b} {
		if _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s) failed: %v", p, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("after Evict Len: got %d, want 1", cache.Len())
	}
	cache.Evict("never-loaded.bmp")
	if cache.Len() != 1 {
		t.Errorf("evicting an unknown path changed Len to %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("after Clear Len: got %d, want 0", cache.Len())
	}
}

func TestBufferCache_LoadInfo(t *testing.T) {
	path := writeTestBitmap(t, t.TempDir(), "info.bmp", 5, 2, false)

	cache := NewBufferCache()
	info, err := cache.LoadInfo(path)
	if err != nil {
		t.Fatalf("LoadInfo failed: %v", err)
	}
	if info.Width != 5 || info.Height != 2 || info.BitsPerPixel != 24 || info.HasAlpha {
		t.Errorf("info: got %+v", info)
	}
	wantSize := int64(headersLen + 16*2)
	if info.FileSize != wantSize {
		t.Errorf("FileSize: got %d, want %d", info.FileSize, wantSize)
	}
	if cache.Len() != 1 {
		t.Errorf("LoadInfo should warm the cache, Len=%d", cache.Len())
	}
}

func TestBufferCache_Concurrent(t *testing.T) {
	path := writeTestBitmap(t, t.TempDir(), "c.bmp", 8, 8, true)
	cache := NewBufferCache()

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Load(path); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}
}
