// Package content reads typed records back out of a store.
package content

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/quantmind-br/wploader-go/internal/domain"
	"github.com/quantmind-br/wploader-go/internal/schema"
)

// MaxParentDepth bounds how many ancestors ResolvePageSlug follows
const MaxParentDepth = 64

// SiteSettings returns the stored site settings singleton
func SiteSettings(ctx context.Context, r domain.Reader) (*schema.SiteSettings, error) {
	entry, err := r.Get(ctx, domain.KindSiteSettings, domain.SettingsID)
	if err != nil {
		return nil, fmt.Errorf("failed to read site settings: %w", err)
	}
	var s schema.SiteSettings
	if err := entry.Decode(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Page returns the stored page with the given id
func Page(ctx context.Context, r domain.Reader, id string) (*schema.Page, error) {
	entry, err := r.Get(ctx, domain.KindPage, id)
	if err != nil {
		return nil, err
	}
	var p schema.Page
	if err := entry.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Posts returns every stored post, newest first
func Posts(ctx context.Context, r domain.Reader) ([]*schema.Post, error) {
	posts, err := decodeAll[schema.Post](ctx, r, domain.KindPost)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})
	return posts, nil
}

// Pages returns every stored page in insertion order
func Pages(ctx context.Context, r domain.Reader) ([]*schema.Page, error) {
	return decodeAll[schema.Page](ctx, r, domain.KindPage)
}

// FindPage looks a page up by numeric id, falling back to a slug match
func FindPage(ctx context.Context, r domain.Reader, idOrSlug string) (*schema.Page, error) {
	if _, err := strconv.ParseInt(idOrSlug, 10, 64); err == nil {
		p, err := Page(ctx, r, idOrSlug)
		if err == nil || !errors.Is(err, domain.ErrNotFound) {
			return p, err
		}
	}

	pages, err := Pages(ctx, r)
	if err != nil {
		return nil, err
	}
	for _, p := range pages {
		if p.Slug == idOrSlug {
			return p, nil
		}
	}
	return nil, fmt.Errorf("page %q: %w", idOrSlug, domain.ErrNotFound)
}

// ResolvePageSlug builds the URL path of a page by prefixing the slugs of
// its ancestors, so a "lion" page under "big-cats" becomes "big-cats/lion".
// A parent chain that revisits a page or runs deeper than MaxParentDepth
// fails with domain.ErrParentCycle.
func ResolvePageSlug(ctx context.Context, r domain.Reader, page *schema.Page) (string, error) {
	segments := []string{page.Slug}
	visited := map[string]bool{page.RecordID(): true}

	parent := page.Parent
	for depth := 0; parent != nil; depth++ {
		if depth >= MaxParentDepth {
			return "", fmt.Errorf("page %s: more than %d ancestors: %w", page.RecordID(), MaxParentDepth, domain.ErrParentCycle)
		}
		if visited[parent.ID] {
			return "", fmt.Errorf("page %s: parent %s seen twice: %w", page.RecordID(), parent.ID, domain.ErrParentCycle)
		}
		visited[parent.ID] = true

		p, err := Page(ctx, r, parent.ID)
		if err != nil {
			return "", fmt.Errorf("failed to resolve parent of page %s: %w", page.RecordID(), err)
		}
		segments = append(segments, p.Slug)
		parent = p.Parent
	}

	// ancestors were collected leaf first
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, "/"), nil
}

// Resolve reads the entry a reference points at. When the referenced
// collection has no such id, each fallback collection is tried in order;
// this covers references that may target more than one kind.
func Resolve(ctx context.Context, r domain.Reader, ref domain.Reference, fallbacks ...domain.Kind) (*domain.Entry, error) {
	kinds := append([]domain.Kind{ref.Collection}, fallbacks...)
	for _, kind := range kinds {
		entry, err := r.Get(ctx, kind, ref.ID)
		if err == nil {
			return entry, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("reference %s: %w", ref, domain.ErrNotFound)
}

// CommentPost returns the post or page a comment belongs to
func CommentPost(ctx context.Context, r domain.Reader, c *schema.Comment) (*domain.Entry, error) {
	if c.Post == nil {
		return nil, fmt.Errorf("comment %s has no post: %w", c.RecordID(), domain.ErrNotFound)
	}
	return Resolve(ctx, r, *c.Post, domain.KindPage)
}

// Names maps references to the "name" field of the records they point at.
// References that cannot be resolved keep their id.
func Names(ctx context.Context, r domain.Reader, refs ...domain.Reference) ([]string, error) {
	names := make([]string, 0, len(refs))
	for _, ref := range refs {
		entry, err := r.Get(ctx, ref.Collection, ref.ID)
		if errors.Is(err, domain.ErrNotFound) {
			names = append(names, ref.ID)
			continue
		}
		if err != nil {
			return nil, err
		}

		var named struct {
			Name string `json:"name"`
		}
		if err := entry.Decode(&named); err != nil {
			return nil, err
		}
		if named.Name == "" {
			named.Name = ref.ID
		}
		names = append(names, named.Name)
	}
	return names, nil
}

func decodeAll[T any](ctx context.Context, r domain.Reader, kind domain.Kind) ([]*T, error) {
	entries, err := r.Collection(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", kind, err)
	}
	out := make([]*T, 0, len(entries))
	for i := range entries {
		v := new(T)
		if err := entries[i].Decode(v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
