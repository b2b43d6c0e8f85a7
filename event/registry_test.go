package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/gviz"
)

func TestRegistry_FiresOnceThenRemoved(t *testing.T) {
	r := NewRegistry()
	calls := 0
	ref := r.Add(Ready, func(Event) { calls++ })
	require.True(t, ref.Valid())

	assert.Equal(t, 1, r.Trigger(Ready, nil))
	assert.True(t, r.Remove(ref))
	assert.Equal(t, 0, r.Trigger(Ready, nil))
	assert.Equal(t, 1, calls)

	assert.False(t, r.Remove(ref))
	assert.False(t, r.Remove(Ref{}))
}

func TestRegistry_RemovesExactlyOne(t *testing.T) {
	r := NewRegistry()
	var got []string
	a := r.Add(Select, func(Event) { got = append(got, "a") })
	r.Add(Select, func(Event) { got = append(got, "b") })
	r.Add(Error, func(Event) { got = append(got, "err") })

	r.Remove(a)
	r.Trigger(Select, nil)
	assert.Equal(t, []string{"b"}, got)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, r.Count(Select))
}

func TestRegistry_RefsAreMonotonic(t *testing.T) {
	r := NewRegistry()
	a := r.Add("x", func(Event) {})
	r.Remove(a)
	b := r.Add("x", func(Event) {})
	assert.Greater(t, b.id, a.id)
	assert.False(t, r.Add("x", nil).Valid())
}

func TestRegistry_RemovalDuringDispatch(t *testing.T) {
	r := NewRegistry()
	var order []string
	var second Ref
	r.Add(Ready, func(Event) {
		order = append(order, "first")
		r.Remove(second)
	})
	second = r.Add(Ready, func(Event) { order = append(order, "second") })

	// the current cycle still sees the snapshot
	r.Trigger(Ready, nil)
	assert.Equal(t, []string{"first", "second"}, order)

	order = nil
	r.Trigger(Ready, nil)
	assert.Equal(t, []string{"first"}, order)
}

func TestRegistry_AddDuringDispatch(t *testing.T) {
	r := NewRegistry()
	calls := 0
	r.Add(Ready, func(Event) {
		r.Add(Ready, func(Event) { calls++ })
	})
	r.Trigger(Ready, nil)
	assert.Equal(t, 0, calls)
	r.Trigger(Ready, nil)
	assert.Equal(t, 1, calls)
}

func TestRegistry_PassesProperties(t *testing.T) {
	r := NewRegistry()
	props := gviz.NewBag()
	props.SetString("message", "boom")
	var seen Event
	r.Add(Error, func(e Event) { seen = e })
	r.Trigger(Error, props)
	assert.Equal(t, Error, seen.Name)
	assert.Equal(t, "boom", seen.Properties.GetString("message"))
}

func TestRegistry_RemoveAll(t *testing.T) {
	r := NewRegistry()
	r.Add(Ready, func(Event) {})
	r.Add(Error, func(Event) {})
	r.RemoveAll()
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 0, r.Trigger(Ready, nil))
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ref := r.Add(Select, func(Event) {})
			r.Trigger(Select, nil)
			r.Remove(ref)
		}()
	}
	wg.Wait()
	assert.Equal(t, 0, r.Len())
}
