package signal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_GetSet(t *testing.T) {
	v := New(10)
	assert.Equal(t, 10, v.Get())

	v.Set(42)
	assert.Equal(t, 42, v.Get())
}

func TestValue_SubscribeAndCancel(t *testing.T) {
	v := New("initial")

	var got []string
	cancel := v.Subscribe(func(s string) { got = append(got, s) })

	v.Set("a")
	v.Set("b")
	require.Equal(t, []string{"a", "b"}, got)

	cancel()
	v.Set("c")
	assert.Equal(t, []string{"a", "b"}, got, "cancelled subscriber must not fire")
}

func TestValue_Update(t *testing.T) {
	v := New([]int{1, 2})

	notified := false
	v.Subscribe(func([]int) { notified = true })

	out := v.Update(func(xs []int) []int { return append(xs, 3) })
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.Equal(t, []int{1, 2, 3}, v.Get())
	assert.True(t, notified)
}

func TestMap_RecomputesOnChange(t *testing.T) {
	src := New(2)
	doubled := Map(src, func(n int) int { return n * 2 })

	assert.Equal(t, 4, doubled.Get(), "derived cell starts from the current value")

	var seen []int
	doubled.Subscribe(func(n int) { seen = append(seen, n) })

	src.Set(5)
	assert.Equal(t, 10, doubled.Get())
	assert.Equal(t, []int{10}, seen)
}

func TestValue_ConcurrentAccess(t *testing.T) {
	v := New(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v.Update(func(n int) int { return n + 1 })
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, v.Get())
}
