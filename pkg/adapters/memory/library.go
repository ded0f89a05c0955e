package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/jsonms/pkg/domain"
)

// Library implements ports.TemplateSource using an in-memory map.
type Library struct {
	mu        sync.RWMutex
	templates map[string]domain.TemplateDoc
}

// NewLibrary creates a Library from plain template strings keyed by name.
func NewLibrary(data map[string]string) *Library {
	templates := make(map[string]domain.TemplateDoc, len(data))
	for name, source := range data {
		templates[name] = domain.TemplateDoc{Name: name, Source: source}
	}
	return &Library{templates: templates}
}

// NewFromDocs creates a Library from full template documents.
func NewFromDocs(docs ...domain.TemplateDoc) (*Library, error) {
	templates := make(map[string]domain.TemplateDoc, len(docs))
	for _, d := range docs {
		if d.Name == "" {
			return nil, fmt.Errorf("template missing name")
		}
		templates[d.Name] = d
	}
	return &Library{templates: templates}, nil
}

// Put adds or replaces a template.
func (l *Library) Put(doc domain.TemplateDoc) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[doc.Name] = doc
}

// Get retrieves a template by name.
func (l *Library) Get(ctx context.Context, name string) (domain.TemplateDoc, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	doc, ok := l.templates[name]
	if !ok {
		return domain.TemplateDoc{}, fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, name)
	}
	return doc, nil
}

// List returns all template names, sorted.
func (l *Library) List(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
