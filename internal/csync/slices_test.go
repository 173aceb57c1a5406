package csync

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlice(t *testing.T) {
	t.Parallel()

	t.Run("should not alias the source slice", func(t *testing.T) {
		t.Parallel()
		src := []int{1, 2, 3}
		s := NewSliceFrom(src)
		src[0] = 100
		v, ok := s.Get(0)
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("should prepend append and delete", func(t *testing.T) {
		t.Parallel()
		s := NewSlice[string]()
		s.Append("b", "c")
		s.Prepend("a")
		assert.Equal(t, []string{"a", "b", "c"}, slices.Collect(s.Seq()))

		assert.True(t, s.Delete(1))
		assert.False(t, s.Delete(5))
		assert.Equal(t, []string{"a", "c"}, slices.Collect(s.Seq()))
		assert.True(t, s.Set(1, "z"))
		assert.False(t, s.Set(-1, "nope"))
		assert.Equal(t, 2, s.Len())
	})

	t.Run("should return a bounded copy for range", func(t *testing.T) {
		t.Parallel()
		s := NewSliceFrom([]int{0, 1, 2, 3, 4})
		assert.Equal(t, []int{1, 2, 3}, s.Range(1, 3))
		assert.Equal(t, []int{3, 4}, s.Range(3, 99))
		assert.Nil(t, s.Range(4, 2))
		assert.Nil(t, NewSlice[int]().Range(0, 0))
	})

	t.Run("should be safe for concurrent use", func(t *testing.T) {
		t.Parallel()
		s := NewSlice[int]()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.Append(i)
				_ = s.Len()
				for range s.Seq() {
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 50, s.Len())
	})
}

func TestMap(t *testing.T) {
	t.Parallel()

	m := NewMap[string, int]()
	m.Set("a", 1)
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	calls := 0
	got := m.GetOrSet("b", func() int { calls++; return 2 })
	assert.Equal(t, 2, got)
	got = m.GetOrSet("b", func() int { calls++; return 3 })
	assert.Equal(t, 2, got)
	assert.Equal(t, 1, calls)

	m.Del("a")
	assert.Equal(t, 1, m.Len())

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"b":2}`, string(data))

	var other Map[string, int]
	require.NoError(t, other.UnmarshalJSON([]byte(`{"x":9}`)))
	v, ok = other.Get("x")
	require.True(t, ok)
	assert.Equal(t, 9, v)
}
