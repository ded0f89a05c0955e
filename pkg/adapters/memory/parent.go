package memory

import (
	"context"
	"sync"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/ports"
)

// Parent implements ports.ParentTarget by recording delivered messages.
// Messages whose target origin does not match Origin are dropped, like a browser would.
type Parent struct {
	Origin string

	mu       sync.Mutex
	messages []domain.Message
	fail     error
}

// NewParent creates a Parent located at origin.
func NewParent(origin string) *Parent {
	return &Parent{Origin: origin}
}

// PostMessage implements ports.ParentTarget.
func (p *Parent) PostMessage(ctx context.Context, msg domain.Message, targetOrigin string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail != nil {
		return p.fail
	}
	if !ports.OriginAllowed(targetOrigin, p.Origin) {
		return nil
	}
	p.messages = append(p.messages, msg)
	return nil
}

// FailWith makes every subsequent delivery return err. A nil err restores delivery.
func (p *Parent) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = err
}

// Messages returns a copy of every delivered message, oldest first.
func (p *Parent) Messages() []domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.Message(nil), p.messages...)
}

// Reset forgets delivered messages.
func (p *Parent) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = nil
}
