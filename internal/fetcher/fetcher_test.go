package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/wploader-go/internal/cache"
	"github.com/quantmind-br/wploader-go/internal/domain"
)

func TestDefaultClientOptions(t *testing.T) {
	opts := DefaultClientOptions()

	assert.Equal(t, 30*time.Second, opts.Timeout)
	assert.Equal(t, 3, opts.MaxRetries)
	assert.False(t, opts.EnableCache)
	assert.Equal(t, time.Hour, opts.CacheTTL)
	assert.Empty(t, opts.UserAgent)
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name  string
		opts  ClientOptions
		check func(t *testing.T, c *Client)
	}{
		{
			name: "default options",
			opts: DefaultClientOptions(),
			check: func(t *testing.T, c *Client) {
				assert.NotNil(t, c.tlsClient)
				assert.Equal(t, 3, c.retrier.MaxRetries())
				assert.NotNil(t, c.logger)
			},
		},
		{
			name: "zero values get defaults",
			opts: ClientOptions{},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, 3, c.retrier.MaxRetries())
			},
		},
		{
			name: "custom user agent",
			opts: ClientOptions{UserAgent: "wploader-test/1.0"},
			check: func(t *testing.T, c *Client) {
				assert.Equal(t, "wploader-test/1.0", c.userAgent)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts)
			require.NoError(t, err)
			defer client.Close()
			tt.check(t, client)
		})
	}
}

func TestClient_Get(t *testing.T) {
	t.Run("returns body and headers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.Header.Get("Accept"), "application/json")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(TotalPagesHeader, "4")
			w.Write([]byte(`[{"id":1}]`))
		}))
		defer server.Close()

		client, err := NewClient(ClientOptions{})
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, []byte(`[{"id":1}]`), resp.Body)
		assert.Equal(t, "4", resp.Headers.Get("x-wp-totalpages"))
		assert.Equal(t, "application/json", resp.ContentType)
		assert.False(t, resp.FromCache)
	})

	t.Run("not found is fatal", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client, err := NewClient(ClientOptions{})
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		assert.Nil(t, resp)

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("retries transient status", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if atomic.AddInt32(&hits, 1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client, err := NewClient(ClientOptions{MaxRetries: 2})
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte(`{}`), resp.Body)
		assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
	})

	t.Run("serves cached response with headers", func(t *testing.T) {
		var hits int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&hits, 1)
			w.Header().Set(TotalPagesHeader, "2")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		mc := newMockCache()
		client, err := NewClient(ClientOptions{EnableCache: true, Cache: mc, CacheTTL: time.Hour})
		require.NoError(t, err)
		defer client.Close()

		ctx := context.Background()
		first, err := client.Get(ctx, server.URL)
		require.NoError(t, err)
		assert.False(t, first.FromCache)

		second, err := client.Get(ctx, server.URL)
		require.NoError(t, err)
		assert.True(t, second.FromCache)
		assert.Equal(t, "2", second.Headers.Get(TotalPagesHeader))
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})

	t.Run("ignores expired cache entry", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`"fresh"`))
		}))
		defer server.Close()

		mc := newMockCache()
		stale, err := cache.NewEntry(&domain.Response{StatusCode: 200, Body: []byte(`"stale"`), URL: server.URL}, -time.Minute).Marshal()
		require.NoError(t, err)
		mc.data[cache.ResponseKey(server.URL)] = stale

		client, err := NewClient(ClientOptions{EnableCache: true, Cache: mc})
		require.NoError(t, err)
		defer client.Close()

		resp, err := client.Get(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, []byte(`"fresh"`), resp.Body)
	})
}

func TestClient_GetWithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Basic dGVzdA==" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client, err := NewClient(ClientOptions{})
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.GetWithHeaders(context.Background(), server.URL, map[string]string{"Authorization": "Basic dGVzdA=="})
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), resp.Body)
}

func TestClient_CacheSetters(t *testing.T) {
	client, err := NewClient(DefaultClientOptions())
	require.NoError(t, err)
	defer client.Close()

	mc := newMockCache()
	client.SetCache(mc)
	assert.Equal(t, mc, client.cache)

	client.SetCacheEnabled(true)
	assert.True(t, client.cacheEnabled)
	client.SetCacheEnabled(false)
	assert.False(t, client.cacheEnabled)
}

func TestNewRetrier(t *testing.T) {
	tests := []struct {
		name        string
		opts        RetrierOptions
		wantRetries int
	}{
		{name: "zero uses default", opts: RetrierOptions{}, wantRetries: 3},
		{name: "explicit", opts: RetrierOptions{MaxRetries: 5}, wantRetries: 5},
		{name: "negative disables", opts: RetrierOptions{MaxRetries: -1}, wantRetries: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantRetries, NewRetrier(tt.opts).MaxRetries())
		})
	}
}

func fastRetrier(maxRetries int) *Retrier {
	return NewRetrier(RetrierOptions{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     5 * time.Millisecond,
		Multiplier:      2.0,
	})
}

func retryable() error {
	return &domain.RetryableError{Err: domain.NewFetchError("https://example.com", 503, errors.New("HTTP 503"))}
}

func TestRetrier_Retry(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt succeeds", func(t *testing.T) {
		attempts := 0
		err := fastRetrier(3).Retry(ctx, func() error {
			attempts++
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, attempts)
	})

	t.Run("retries retryable errors", func(t *testing.T) {
		attempts := 0
		err := fastRetrier(3).Retry(ctx, func() error {
			attempts++
			if attempts < 3 {
				return retryable()
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, attempts)
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		attempts := 0
		err := fastRetrier(2).Retry(ctx, func() error {
			attempts++
			return retryable()
		})

		var fetchErr *domain.FetchError
		require.ErrorAs(t, err, &fetchErr)
		assert.Equal(t, 503, fetchErr.StatusCode)
		assert.Equal(t, 3, attempts)
	})

	t.Run("does not retry permanent errors", func(t *testing.T) {
		attempts := 0
		permanent := domain.NewFetchError("https://example.com", 404, errors.New("HTTP 404"))
		err := fastRetrier(3).Retry(ctx, func() error {
			attempts++
			return permanent
		})
		assert.ErrorIs(t, err, permanent)
		assert.Equal(t, 1, attempts)
	})
}

func TestRetryWithValue(t *testing.T) {
	attempts := 0
	result, err := RetryWithValue(context.Background(), fastRetrier(3), func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", retryable()
		}
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, 2, attempts)
}

func TestShouldRetryStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{429, true},
		{502, true},
		{503, true},
		{504, true},
		{520, true},
		{530, true},
		{400, false},
		{401, false},
		{404, false},
		{500, false},
		{531, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ShouldRetryStatus(tt.statusCode), "status %d", tt.statusCode)
	}
}

func TestParseRetryAfter(t *testing.T) {
	assert.Equal(t, 120*time.Second, ParseRetryAfter("120"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter(""))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("0"))
	assert.Equal(t, time.Duration(0), ParseRetryAfter("soon"))

	future := time.Now().Add(90 * time.Second).UTC().Format(http.TimeFormat)
	d := ParseRetryAfter(future)
	assert.Greater(t, d, 80*time.Second)
	assert.LessOrEqual(t, d, 91*time.Second)
}

func TestAPIHeaders(t *testing.T) {
	t.Run("chrome agent adds client hints", func(t *testing.T) {
		h := APIHeaders(UserAgents[0])
		assert.Equal(t, UserAgents[0], h["User-Agent"])
		assert.Contains(t, h["Accept"], "application/json")
		assert.Equal(t, "cors", h["Sec-Fetch-Mode"])
		assert.Contains(t, h, "Sec-CH-UA")
	})

	t.Run("firefox agent has no client hints", func(t *testing.T) {
		h := APIHeaders("Mozilla/5.0 (X11; Linux x86_64; rv:132.0) Gecko/20100101 Firefox/132.0")
		assert.NotContains(t, h, "Sec-CH-UA")
	})

	t.Run("empty agent picks from pool", func(t *testing.T) {
		h := APIHeaders("")
		assert.Contains(t, UserAgents, h["User-Agent"])
	})
}

func TestRandomDelay(t *testing.T) {
	assert.Equal(t, time.Second, RandomDelay(time.Second, time.Second))
	for i := 0; i < 20; i++ {
		d := RandomDelay(10*time.Millisecond, 20*time.Millisecond)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 20*time.Millisecond)
	}
}

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *mockCache) Has(ctx context.Context, key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) Close() error {
	return nil
}
