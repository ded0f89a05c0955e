package observability

import (
	"context"
	"testing"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestCompose(t *testing.T) {
	var calls []string
	a := domain.Hooks{
		OnRender: func(context.Context, *domain.RenderEvent) { calls = append(calls, "a") },
	}
	b := domain.Hooks{
		OnRender: func(context.Context, *domain.RenderEvent) { calls = append(calls, "b") },
		OnNotify: func(context.Context, *domain.NotifyEvent) { calls = append(calls, "b-notify") },
	}

	h := Compose(a, domain.Hooks{}, b)
	h.OnRender(context.Background(), &domain.RenderEvent{})
	h.OnNotify(context.Background(), &domain.NotifyEvent{})

	assert.Equal(t, []string{"a", "b", "b-notify"}, calls)
	assert.Nil(t, h.OnSlotWrite)
}
