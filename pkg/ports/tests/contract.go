package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
)

// TemplateSourceContractTest is a reusable test suite that verifies if an adapter complies with ports.TemplateSource.
// setupData maps template names to their expected source strings.
func TemplateSourceContractTest(t *testing.T, source ports.TemplateSource, setupData map[string]string) {
	t.Helper()
	ctx := context.Background()

	t.Run("Get_Success", func(t *testing.T) {
		for name, expected := range setupData {
			doc, err := source.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting template %s: %v", name, err)
			}
			if doc.Source != expected {
				t.Errorf("source mismatch for %s. got %q, want %q", name, doc.Source, expected)
			}
			if doc.Name != name {
				t.Errorf("name mismatch. got %q, want %q", doc.Name, name)
			}
		}
	})

	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := source.Get(ctx, "non-existent-template")
		if !errors.Is(err, domain.ErrTemplateNotFound) {
			t.Errorf("expected ErrTemplateNotFound, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		names, err := source.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing templates: %v", err)
		}

		if len(names) != len(setupData) {
			t.Errorf("expected %d templates, got %d", len(setupData), len(names))
		}

		lookup := make(map[string]bool)
		for _, name := range names {
			lookup[name] = true
		}

		for name := range setupData {
			if !lookup[name] {
				t.Errorf("template %s missing from list", name)
			}
		}
	})
}
