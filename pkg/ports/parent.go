package ports

import (
	"context"

	"github.com/aretw0/jsonms/pkg/domain"
)

// ParentTarget receives outbound notifications.
// targetOrigin restricts delivery; domain.WildcardOrigin means unrestricted.
type ParentTarget interface {
	PostMessage(ctx context.Context, msg domain.Message, targetOrigin string) error
}

// ParentTargetFunc adapts a function to the ParentTarget interface.
type ParentTargetFunc func(ctx context.Context, msg domain.Message, targetOrigin string) error

// PostMessage implements ParentTarget.
func (f ParentTargetFunc) PostMessage(ctx context.Context, msg domain.Message, targetOrigin string) error {
	return f(ctx, msg, targetOrigin)
}

// OriginAllowed reports whether a receiver at origin may see a message sent to targetOrigin.
func OriginAllowed(targetOrigin, origin string) bool {
	return targetOrigin == "" || targetOrigin == domain.WildcardOrigin || targetOrigin == origin
}
