package observability

import (
	"context"

	"github.com/aretw0/jsonms/pkg/domain"
)

// Compose returns hooks that call every given hook in order.
func Compose(hooks ...domain.Hooks) domain.Hooks {
	var out domain.Hooks
	for _, h := range hooks {
		if h.OnSlotWrite != nil {
			prev, next := out.OnSlotWrite, h.OnSlotWrite
			out.OnSlotWrite = func(ctx context.Context, e *domain.SlotEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnNotify != nil {
			prev, next := out.OnNotify, h.OnNotify
			out.OnNotify = func(ctx context.Context, e *domain.NotifyEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
		if h.OnRender != nil {
			prev, next := out.OnRender, h.OnRender
			out.OnRender = func(ctx context.Context, e *domain.RenderEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				next(ctx, e)
			}
		}
	}
	return out
}
