package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/jsonms/pkg/domain"
)

// LoggingHooks returns hooks that log every event at debug level.
// Failed notifications are logged by the notifier itself.
func LoggingHooks(logger *slog.Logger) domain.Hooks {
	return domain.Hooks{
		OnSlotWrite: func(ctx context.Context, e *domain.SlotEvent) {
			logger.DebugContext(ctx, "slot_write", "slot", e.Slot, "version", e.Version)
		},
		OnNotify: func(ctx context.Context, e *domain.NotifyEvent) {
			if e.Err == nil {
				logger.DebugContext(ctx, "notify", "type", e.Type)
			}
		},
		OnRender: func(ctx context.Context, e *domain.RenderEvent) {
			logger.DebugContext(ctx, "render", "nodes", e.Nodes, "missing", e.Missing)
		},
	}
}
