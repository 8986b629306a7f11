// Package loam loads catalogs from a directory of markdown documents using the
// Loam document store.
//
// Each action lives in its own file: the frontmatter declares what it requires
// and what it changes, the body describes it. An optional document with
// "type: catalog" names the catalog and sets its goal and initial facts.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/waypoint/pkg/catalog"
)

// Loader builds catalogs from a Loam repository.
type Loader struct {
	Repo *loam.TypedRepository[ActionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ActionMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initialises a read-only Loam repository at dir and wraps it.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog dir: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ActionMetadata](repo)), nil
}

type entry struct {
	id    string
	order int
	spec  catalog.Spec
}

// Load lists every document and assembles a validated catalog. The catalog
// name defaults to the repository directory name when no header document
// exists.
func (l *Loader) Load(ctx context.Context) (*catalog.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	c := &catalog.Catalog{}
	var header string
	entries := make([]entry, 0, len(docs))
	seen := make(map[string]string)

	for _, doc := range docs {
		id := trimExtension(doc.ID)
		meta := doc.Data
		body := strings.TrimSpace(doc.Content)

		if meta.Type == DocumentTypeCatalog {
			if header != "" {
				return nil, fmt.Errorf("catalog header defined in both '%s' and '%s'", header, id)
			}
			header = id
			c.Name = meta.Name
			c.Goal = meta.Goal
			c.Initial = meta.Initial
			c.Description = body
			continue
		}

		name := meta.Name
		if name == "" {
			name = filepath.Base(id)
		}
		if existing, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: action '%s' is defined in both '%s' and '%s'", name, existing, id)
		}
		seen[name] = id

		entries = append(entries, entry{
			id:    id,
			order: meta.Order,
			spec: catalog.Spec{
				Name:        name,
				Requires:    meta.Requires,
				Effects:     meta.Effects,
				Cost:        meta.Cost,
				Description: body,
			},
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].id < entries[j].id
	})
	for _, e := range entries {
		c.Actions = append(c.Actions, e.spec)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Watch reports the IDs of changed documents until ctx is done.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- evt.ID:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
