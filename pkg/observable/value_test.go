package observable_test

import (
	"sync"
	"testing"

	"github.com/aretw0/jsonms/pkg/observable"
	"github.com/stretchr/testify/assert"
)

func TestValue_SetNotifiesInOrder(t *testing.T) {
	v := observable.New("en-US")
	var seen []string

	v.Subscribe(func(s string) { seen = append(seen, "a:"+s) })
	v.Subscribe(func(s string) { seen = append(seen, "b:"+s) })

	v.Set("fr-FR")
	v.Set("de-DE")

	assert.Equal(t, []string{"a:fr-FR", "b:fr-FR", "a:de-DE", "b:de-DE"}, seen)
	assert.Equal(t, "de-DE", v.Get())
	assert.Equal(t, uint64(2), v.Version())
}

func TestValue_Unsubscribe(t *testing.T) {
	v := observable.New(0)
	calls := 0
	stop := v.Subscribe(func(int) { calls++ })

	v.Set(1)
	stop()
	stop()
	v.Set(2)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, v.Observers())
}

func TestValue_ObserverMayReadValue(t *testing.T) {
	v := observable.New(0)
	var got int
	v.Subscribe(func(int) { got = v.Get() })

	v.Set(7)
	assert.Equal(t, 7, got)
}

func TestValue_ConcurrentWrites(t *testing.T) {
	v := observable.New(0)
	var mu sync.Mutex
	count := 0
	v.Subscribe(func(int) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			v.Set(n)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, count)
	assert.Equal(t, uint64(50), v.Version())
}
