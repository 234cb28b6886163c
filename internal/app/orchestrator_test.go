package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/wploader-go/internal/config"
	"github.com/quantmind-br/wploader-go/internal/content"
	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/store"
)

const wpPost = `{
	"id": %d, "date": "2024-03-0%dT10:30:00", "date_gmt": "2024-03-0%dT09:30:00",
	"guid": {"rendered": "https://zoo.example/?p=%d"},
	"modified": "2024-03-09T08:00:00", "modified_gmt": "2024-03-09T07:00:00",
	"slug": "post-%d", "status": "publish", "type": "post",
	"link": "https://zoo.example/post-%d/",
	"title": {"rendered": "Post %d"},
	"content": {"rendered": "<p>Body %d</p>", "protected": false},
	"excerpt": {"rendered": "", "protected": false},
	"author": 7, "featured_media": 0, "comment_status": "open", "ping_status": "open",
	"sticky": false, "template": "", "format": "standard", "meta": [],
	"categories": [], "tags": []
}`

const wpPage = `{
	"id": %d, "date": "2024-01-05T12:00:00", "date_gmt": "2024-01-05T12:00:00",
	"guid": {"rendered": "https://zoo.example/?page_id=%d"},
	"modified": "2024-01-06T12:00:00", "modified_gmt": "2024-01-06T12:00:00",
	"slug": "%s", "status": "publish", "type": "page",
	"link": "https://zoo.example/%s/",
	"title": {"rendered": "%s"},
	"content": {"rendered": "<p>%s</p>", "protected": false},
	"excerpt": {"rendered": "", "protected": false},
	"author": 7, "featured_media": 0, "parent": %d, "menu_order": 0,
	"comment_status": "closed", "ping_status": "closed", "template": "", "meta": []
}`

const wpUser = `[{"id": 7, "name": "Ada", "url": "", "description": "",
	"link": "https://zoo.example/author/ada/", "slug": "ada",
	"avatar_urls": {"24": "https://secure.gravatar.com/avatar/x?s=24"}, "meta": []}]`

const wpRoot = `{"name": "Example Zoo", "description": "Animals", "url": "https://zoo.example",
	"home": "https://zoo.example", "gmt_offset": "1", "timezone_string": "",
	"site_logo": 0, "site_icon": 0, "namespaces": ["wp/v2"], "routes": {}}`

// wordpressServer serves a small site: posts over two pages, nested pages,
// one user and the settings root. Every request path is recorded.
func wordpressServer(t *testing.T) (*httptest.Server, *[]string) {
	t.Helper()
	var mu sync.Mutex
	var requests []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		requests = append(requests, r.URL.Path+"?"+r.URL.RawQuery)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/wp-json/":
			fmt.Fprint(w, wpRoot)
		case "/wp-json/wp/v2/posts":
			w.Header().Set("X-WP-TotalPages", "2")
			id := 1
			if r.URL.Query().Get("page") == "2" {
				id = 2
			}
			fmt.Fprintf(w, "["+wpPost+"]", id, id, id, id, id, id, id, id)
		case "/wp-json/wp/v2/pages":
			fmt.Fprintf(w, "[%s,%s]",
				fmt.Sprintf(wpPage, 11, 11, "big-cats", "big-cats", "Big cats", "Cats", 0),
				fmt.Sprintf(wpPage, 12, 12, "lion", "big-cats/lion", "Lion", "Roar", 11))
		case "/wp-json/wp/v2/users":
			fmt.Fprint(w, wpUser)
		case "/wp-json/wp/v2/statuses":
			fmt.Fprint(w, `{}`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server, &requests
}

func testConfig(t *testing.T, endpoint string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Endpoint = endpoint
	cfg.Store.Backend = config.BackendMemory
	cfg.Output.Directory = t.TempDir()
	cfg.Output.JSONIndex = true
	cfg.HTTP.MaxRetries = -1
	cfg.Build.Workers = 2
	cfg.Logging.Level = "error"
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestNewOrchestrator_RequiresConfig(t *testing.T) {
	_, err := NewOrchestrator(OrchestratorOptions{})
	assert.Error(t, err)
}

func TestNewOrchestrator_RejectsBadEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Endpoint = "not a url"

	_, err := NewOrchestrator(OrchestratorOptions{Config: cfg, LogOutput: io.Discard})
	var cfgErr *domain.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestOpenStore_WithoutEndpoint(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendBadger
	cfg.Store.Directory = filepath.Join(t.TempDir(), "store")
	require.NoError(t, cfg.ValidateLocal())

	s, err := OpenStore(cfg)
	require.NoError(t, err)
	defer s.Close()

	entries, err := s.Collection(context.Background(), domain.KindPost)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestOrchestrator_BuildAndExport(t *testing.T) {
	server, requests := wordpressServer(t)
	cfg := testConfig(t, server.URL+"/wp-json")
	ctx := context.Background()

	orch, err := NewOrchestrator(OrchestratorOptions{Config: cfg, LogOutput: io.Discard})
	require.NoError(t, err)
	defer orch.Close()

	report, err := orch.Build(ctx, domain.KindPost, domain.KindPage, domain.KindUser, domain.KindStatus, domain.KindSiteSettings)
	require.NoError(t, err)
	assert.Empty(t, report.Failed)
	assert.Equal(t, 6, report.Stored())

	posts, err := content.Posts(ctx, orch.Store())
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, "post-2", posts[0].Slug, "newest first")

	settings, err := content.SiteSettings(ctx, orch.Store())
	require.NoError(t, err)
	assert.Equal(t, "Example Zoo", settings.Name)
	assert.Equal(t, 1.0, settings.GMTOffset)

	lion, err := content.FindPage(ctx, orch.Store(), "lion")
	require.NoError(t, err)
	slug, err := content.ResolvePageSlug(ctx, orch.Store(), lion)
	require.NoError(t, err)
	assert.Equal(t, "big-cats/lion", slug)

	assert.Contains(t, *requests, "/wp-json/wp/v2/posts?page=1&per_page=100")
	assert.Contains(t, *requests, "/wp-json/wp/v2/posts?page=2&per_page=100")
	rootCalls := 0
	for _, r := range *requests {
		if strings.HasPrefix(r, "/wp-json/?") {
			rootCalls++
		}
	}
	assert.Equal(t, 1, rootCalls, "settings are fetched once")

	exported, err := orch.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, exported.Written)
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "pages", "big-cats", "lion.md"))
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "posts", "post-1.md"))
	assert.FileExists(t, filepath.Join(cfg.Output.Directory, "index.json"))

	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, "posts", "post-2.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "author: Ada")
}

func TestOrchestrator_BuildOnBadgerStore(t *testing.T) {
	server, _ := wordpressServer(t)
	cfg := testConfig(t, server.URL+"/wp-json/")
	cfg.Store.Backend = config.BackendBadger
	cfg.Store.Directory = filepath.Join(t.TempDir(), "store")
	cfg.Build.Workers = config.DefaultWorkers
	ctx := context.Background()

	orch, err := NewOrchestrator(OrchestratorOptions{Config: cfg, LogOutput: io.Discard})
	require.NoError(t, err)
	defer orch.Close()

	kinds := []domain.Kind{domain.KindPost, domain.KindPage, domain.KindUser, domain.KindStatus, domain.KindSiteSettings}
	for round := 1; round <= 3; round++ {
		report, err := orch.Build(ctx, kinds...)
		require.NoError(t, err, "round %d", round)
		assert.Empty(t, report.Failed)
		assert.Equal(t, 6, report.Stored())
	}

	pages, err := content.Pages(ctx, orch.Store())
	require.NoError(t, err)
	assert.Len(t, pages, 2)
}

func TestOrchestrator_BuildReportsFailingKind(t *testing.T) {
	server, _ := wordpressServer(t)
	cfg := testConfig(t, server.URL+"/wp-json/")

	orch, err := NewOrchestrator(OrchestratorOptions{Config: cfg, LogOutput: io.Discard})
	require.NoError(t, err)
	defer orch.Close()

	report, err := orch.Build(context.Background(), domain.KindPost, domain.KindMedia)
	require.Error(t, err)
	assert.Equal(t, []domain.Kind{domain.KindMedia}, report.Failed)
	assert.Contains(t, err.Error(), "failed to load media")

	var fetchErr *domain.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestOrchestrator_UsesProvidedStore(t *testing.T) {
	server, _ := wordpressServer(t)
	cfg := testConfig(t, server.URL+"/wp-json/")
	s := store.NewMemoryStore()

	orch, err := NewOrchestrator(OrchestratorOptions{Config: cfg, Store: s, LogOutput: io.Discard})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	_, err = orch.Build(ctx, domain.KindUser)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	require.NoError(t, orch.Close())
}
