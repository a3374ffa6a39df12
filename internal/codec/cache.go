package codec

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/bmp-tools-mcp/internal/bitmap"
)

// BufferCache provides thread-safe caching of decoded bitmaps to avoid redundant disk reads.
//
// Buffers are keyed by the exact path string passed to Load. Cached buffers are shared
// between callers and must be treated as read-only; transform a Clone instead.
//
// # Memory Management
//
// Cached buffers remain in memory until explicitly removed via Evict() or Clear().
//
// # Example Usage
//
//	cache := codec.NewBufferCache()
//	buf, err := cache.Load("/path/to/image.bmp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	work := buf.Clone()
type BufferCache struct {
	mu      sync.RWMutex
	buffers map[string]*bitmap.Buffer
}

// NewBufferCache creates an empty cache that is safe for concurrent use.
func NewBufferCache() *BufferCache {
	return &BufferCache{
		buffers: make(map[string]*bitmap.Buffer),
	}
}

// Load returns the cached buffer for path, decoding the file on first use.
func (c *BufferCache) Load(path string) (*bitmap.Buffer, error) {
	c.mu.RLock()
	if b, ok := c.buffers[path]; ok {
		c.mu.RUnlock()
		return b, nil
	}
	c.mu.RUnlock()

	b, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.buffers[path] = b
	c.mu.Unlock()

	return b, nil
}

// Clear removes all buffers from the cache.
func (c *BufferCache) Clear() {
	c.mu.Lock()
	c.buffers = make(map[string]*bitmap.Buffer)
	c.mu.Unlock()
}

// Evict removes the buffer cached for path, if any.
func (c *BufferCache) Evict(path string) {
	c.mu.Lock()
	delete(c.buffers, path)
	c.mu.Unlock()
}

// Len returns the number of cached buffers.
func (c *BufferCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

// LoadInfo returns header metadata and file size for the BMP at path and warms the
// cache with its decoded pixels.
func (c *BufferCache) LoadInfo(path string) (*Info, error) {
	if _, err := c.Load(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open bitmap: %w", err)
	}
	defer f.Close()

	info, err := ReadInfo(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	info.FileSize = stat.Size()
	return info, nil
}
