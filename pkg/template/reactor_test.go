package template

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/aretw0/jsonms/pkg/domain"
	"github.com/aretw0/jsonms/pkg/observable"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactor_EagerAndRecompute(t *testing.T) {
	r := NewReactor("Hello {name}!", Slots[string]{"name": Static("Alice")})

	assert.Equal(t, []Node[string]{
		TextOf[string]("Hello "),
		FragmentOf("Alice"),
		TextOf[string]("!"),
	}, r.Nodes())

	var seen [][]Node[string]
	stop := r.Subscribe(func(n []Node[string]) { seen = append(seen, n) })
	defer stop()

	r.SetTemplate("Bye {name}")
	assert.Equal(t, []Node[string]{TextOf[string]("Bye "), FragmentOf("Alice")}, r.Nodes())

	r.SetLookup(Slots[string]{"name": Static("Bob")})
	assert.Equal(t, []Node[string]{TextOf[string]("Bye "), FragmentOf("Bob")}, r.Nodes())

	require.Len(t, seen, 2)
	assert.Equal(t, "Bye {name}", r.Template())
}

func TestReactor_Refresh(t *testing.T) {
	current := "one"
	r := NewReactor("{x}", Slots[string]{"x": func() []string { return []string{current} }})
	assert.Equal(t, []Node[string]{FragmentOf("one")}, r.Nodes())

	current = "two"
	r.Refresh()
	assert.Equal(t, []Node[string]{FragmentOf("two")}, r.Nodes())
}

func TestReactor_Follow(t *testing.T) {
	src := observable.New("A {x}")
	r := NewReactor[string]("", Slots[string]{"x": Static("1")})
	defer r.Close()

	stop := r.Follow(src)
	assert.Equal(t, []Node[string]{TextOf[string]("A "), FragmentOf("1")}, r.Nodes())

	src.Set("B {x}")
	assert.Equal(t, []Node[string]{TextOf[string]("B "), FragmentOf("1")}, r.Nodes())

	stop()
	src.Set("C")
	assert.Equal(t, "B {x}", r.Template())
}

func TestReactor_FollowConcurrentWrites(t *testing.T) {
	for i := 0; i < 50; i++ {
		src := observable.New("v0")
		r := NewReactor[string]("", nil)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 1; j <= 20; j++ {
				src.Set(fmt.Sprintf("v%d", j))
			}
		}()
		r.Follow(src)
		wg.Wait()

		assert.Equal(t, src.Get(), r.Template())
		assert.Equal(t, []Node[string]{TextOf[string](src.Get())}, r.Nodes())
		r.Close()
	}
}

func TestReactor_Close(t *testing.T) {
	src := observable.New("x")
	r := NewReactor[string]("", nil)
	r.Follow(src)
	assert.Equal(t, 1, src.Observers())
	r.Close()
	assert.Equal(t, 0, src.Observers())
}

func TestReactor_RenderHook(t *testing.T) {
	var events []*domain.RenderEvent
	hooks := domain.Hooks{OnRender: func(ctx context.Context, e *domain.RenderEvent) {
		events = append(events, e)
	}}

	r := NewReactor("{a} {b}", Slots[string]{"a": Static("x")}, WithHooks(hooks))
	require.Len(t, events, 1)
	assert.Equal(t, 2, events[0].Nodes)
	assert.Equal(t, 1, events[0].Missing)

	r.SetTemplate("plain")
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[1].Missing)
}
