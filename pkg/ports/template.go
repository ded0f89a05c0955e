package ports

import (
	"context"

	"github.com/aretw0/jsonms/pkg/domain"
)

// TemplateSource serves named templates.
type TemplateSource interface {
	// Get returns the template with the given name.
	// Returns domain.ErrTemplateNotFound if it does not exist.
	Get(ctx context.Context, name string) (domain.TemplateDoc, error)

	// List returns the names of all templates.
	List(ctx context.Context) ([]string, error)
}

// Watchable defines an interface for sources that can notify about backend changes.
type Watchable interface {
	// Watch returns a channel that receives the name of each template that changed.
	Watch(ctx context.Context) (<-chan string, error)
}
