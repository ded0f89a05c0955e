package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/loam"
)

// Library adapts a Loam repository to ports.TemplateSource.
// Every Markdown, JSON or YAML document is one template.
type Library struct {
	Repo *loam.TypedRepository[TemplateMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[TemplateMetadata]) *Library {
	return &Library{
		Repo: repo,
	}
}

// Open initializes a read-only Loam repository rooted at dir.
func Open(dir string) (*Library, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve template dir: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[TemplateMetadata](repo)), nil
}

// Get retrieves a template by name. Loam resolves "greeting" to greeting.md.
func (l *Library) Get(ctx context.Context, name string) (domain.TemplateDoc, error) {
	doc, err := l.Repo.Get(ctx, name)
	if err != nil {
		names, listErr := l.List(ctx)
		if listErr == nil && !slices.Contains(names, name) {
			return domain.TemplateDoc{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
		}
		return domain.TemplateDoc{}, fmt.Errorf("loam get failed for %s: %w", name, err)
	}

	resolved := doc.Data.Name
	if resolved == "" {
		resolved = doc.ID
	}
	tag := doc.Data.Tag
	if tag == "" {
		tag = domain.DefaultTag
	}

	return domain.TemplateDoc{
		Name:      trimExtension(resolved),
		Source:    strings.TrimRight(doc.Content, "\r\n"),
		Tag:       tag,
		Fragments: doc.Data.Fragments,
	}, nil
}

// List lists the names of every template in the repository, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	names := make([]string, 0, len(docs))

	for _, doc := range docs {
		raw := doc.Data.Name
		if raw == "" {
			raw = doc.ID
		}
		name := trimExtension(raw)

		if existingPath, ok := seen[name]; ok {
			return nil, fmt.Errorf("collision detected: template '%s' is defined in both '%s' and '%s'", name, existingPath, doc.ID)
		}
		seen[name] = doc.ID
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

// Watch implements ports.Watchable. It emits the name of every changed template.
func (l *Library) Watch(ctx context.Context) (<-chan string, error) {
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
				// Loam debounces bursts of writes to the same file.
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}
