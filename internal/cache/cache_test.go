package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/wploader-go/internal/domain"
)

func newMemoryCache(t *testing.T) *BadgerCache {
	t.Helper()
	c, err := NewBadgerCache(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestEntry_RoundTrip(t *testing.T) {
	resp := &domain.Response{
		StatusCode:  200,
		Body:        []byte(`[{"id":1}]`),
		Headers:     domain.Header{"X-Wp-Totalpages": {"3"}},
		ContentType: "application/json",
		URL:         "https://example.com/wp-json/wp/v2/posts?page=1",
	}

	data, err := NewEntry(resp, time.Hour).Marshal()
	require.NoError(t, err)

	entry, err := UnmarshalEntry(data)
	require.NoError(t, err)
	assert.False(t, entry.IsExpired())

	restored := entry.Response()
	assert.True(t, restored.FromCache)
	assert.Equal(t, resp.Body, restored.Body)
	assert.Equal(t, "3", restored.Headers.Get("X-WP-TotalPages"))
	assert.Equal(t, resp.URL, restored.URL)
}

func TestUnmarshalEntry_Corrupt(t *testing.T) {
	_, err := UnmarshalEntry([]byte("not json"))
	assert.Error(t, err)
}

func TestEntry_Expiry(t *testing.T) {
	tests := []struct {
		name      string
		expiresAt time.Time
		expired   bool
		minTTL    time.Duration
		maxTTL    time.Duration
	}{
		{name: "live", expiresAt: time.Now().Add(time.Hour), minTTL: 59 * time.Minute, maxTTL: time.Hour},
		{name: "expired", expiresAt: time.Now().Add(-time.Hour), expired: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &Entry{ExpiresAt: tt.expiresAt}
			assert.Equal(t, tt.expired, e.IsExpired())
			assert.GreaterOrEqual(t, e.TTL(), tt.minTTL)
			assert.LessOrEqual(t, e.TTL(), tt.maxTTL)
		})
	}
}

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()
	assert.Empty(t, opts.Directory)
	assert.False(t, opts.InMemory)
	assert.False(t, opts.Logger)
}

func TestGenerateKey(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		same bool
	}{
		{
			name: "host case and default port",
			a:    "https://Example.com:443/wp-json/wp/v2/posts",
			b:    "https://example.com/wp-json/wp/v2/posts",
			same: true,
		},
		{
			name: "trailing slash and fragment",
			a:    "https://example.com/wp-json/#top",
			b:    "https://example.com/wp-json",
			same: true,
		},
		{
			name: "query order",
			a:    "https://example.com/wp-json/wp/v2/posts?page=2&per_page=100",
			b:    "https://example.com/wp-json/wp/v2/posts?per_page=100&page=2",
			same: true,
		},
		{
			name: "different page",
			a:    "https://example.com/wp-json/wp/v2/posts?page=1",
			b:    "https://example.com/wp-json/wp/v2/posts?page=2",
			same: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := GenerateKey(tt.a), GenerateKey(tt.b)
			assert.Len(t, ka, 64)
			if tt.same {
				assert.Equal(t, ka, kb)
			} else {
				assert.NotEqual(t, ka, kb)
			}
		})
	}
}

func TestResponseKey(t *testing.T) {
	key := ResponseKey("https://example.com/wp-json/")
	assert.Regexp(t, `^response:[0-9a-f]{64}$`, key)
}

func TestNewBadgerCache(t *testing.T) {
	t.Run("in memory", func(t *testing.T) {
		c := newMemoryCache(t)
		assert.NotNil(t, c)
	})

	t.Run("directory", func(t *testing.T) {
		c, err := NewBadgerCache(Options{Directory: filepath.Join(t.TempDir(), "cache")})
		require.NoError(t, err)
		assert.NoError(t, c.Close())
	})

	t.Run("default location under home", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		c, err := NewBadgerCache(Options{})
		require.NoError(t, err)
		require.NoError(t, c.Close())

		assert.DirExists(t, filepath.Join(home, ".wploader", "cache"))
	})
}

func TestBadgerCache_Operations(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)
	key := ResponseKey("https://example.com/wp-json/wp/v2/posts?page=1")

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
	assert.False(t, c.Has(ctx, key))

	require.NoError(t, c.Set(ctx, key, []byte("first"), time.Hour))
	require.NoError(t, c.Set(ctx, key, []byte("second"), 0))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), got)
	assert.True(t, c.Has(ctx, key))
	assert.Equal(t, int64(1), c.Size())

	stats := c.Stats()
	assert.Equal(t, int64(1), stats["entries"])
	assert.Contains(t, stats, "lsm_size")

	require.NoError(t, c.Delete(ctx, key))
	assert.False(t, c.Has(ctx, key))
	assert.NoError(t, c.Delete(ctx, key))
}

func TestBadgerCache_Clear(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), time.Hour))
	}
	assert.Equal(t, int64(3), c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, int64(0), c.Size())
}

func TestBadgerCache_CancelledContext(t *testing.T) {
	c := newMemoryCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), time.Hour), context.Canceled)
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBadgerCache_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	c := newMemoryCache(t)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		key := fmt.Sprintf("key-%d", i)
		go func() {
			defer wg.Done()
			_ = c.Set(ctx, key, []byte("content"), time.Hour)
		}()
		go func() {
			defer wg.Done()
			_, _ = c.Get(ctx, key)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), c.Size())
}
