package pvec_test

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/pvec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut(t *testing.T) {
	t.Run("Overwrite", func(t *testing.T) {
		v := pvec.FromSlice([]int{1, 2, 3})

		v2, err := v.Put(1, 20)
		require.NoError(t, err)

		assert.Equal(t, []int{1, 20, 3}, v2.ToSlice())
		assert.Equal(t, []int{1, 2, 3}, v.ToSlice(), "original must not change")
		assert.Equal(t, 3, v2.Size())
	})

	t.Run("AtEnd", func(t *testing.T) {
		v := pvec.FromSlice([]int{1, 2, 3})

		v2, err := v.Put(3, 99)
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3, 99}, v2.ToSlice())
		assert.Equal(t, 4, v2.Size())
	})

	t.Run("PastEndGrows", func(t *testing.T) {
		v := pvec.FromSlice([]int{1})

		v2, err := v.Put(10, 7)
		require.NoError(t, err)

		assert.Equal(t, 11, v2.Size())
		assert.Equal(t, 2, v2.Count())
		for i := 1; i < 10; i++ {
			_, ok := v2.Get(i)
			assert.False(t, ok, "slot %d should be unset", i)
		}
	})

	t.Run("IntoCapacity", func(t *testing.T) {
		v, err := pvec.WithCapacity[string](100)
		require.NoError(t, err)

		v, err = v.Put(39, "hi")
		require.NoError(t, err)

		assert.Equal(t, []string{"hi"}, v.ToSlice())
		assert.Equal(t, 100, v.Size())
		assert.Equal(t, 1, v.Count())
	})

	t.Run("Negative", func(t *testing.T) {
		v := pvec.FromSlice([]int{1, 2, 3})

		v2, err := v.Put(-1, 30)
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 30}, v2.ToSlice())
	})

	t.Run("NegativeOutOfRange", func(t *testing.T) {
		v, err := pvec.WithCapacity[string](3)
		require.NoError(t, err)

		v2, err := v.Put(-99, "hi")
		require.ErrorIs(t, err, pvec.ErrInvalidArgument)
		assert.Nil(t, v2)

		var ie *pvec.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "put", ie.Op)
		assert.Equal(t, -99, ie.Index)
		assert.Contains(t, err.Error(), "negative index out of bounds")
	})

	t.Run("MaxInt", func(t *testing.T) {
		_, err := pvec.New[int]().Put(math.MaxInt, 1)
		assert.ErrorIs(t, err, pvec.ErrInvalidArgument)
	})

	t.Run("HugeSparse", func(t *testing.T) {
		v, err := pvec.New[int]().Put(math.MaxInt-1, 1)
		require.NoError(t, err)

		assert.Equal(t, math.MaxInt, v.Size())
		assert.Equal(t, 1, v.Count())
		got, ok := v.Get(-1)
		assert.True(t, ok)
		assert.Equal(t, 1, got)
	})
}

func TestDelete(t *testing.T) {
	v := pvec.FromSlice([]int{1, 2, 3})

	t.Run("InRange", func(t *testing.T) {
		v2 := v.Delete(1)

		_, ok := v2.Get(1)
		assert.False(t, ok)
		assert.Equal(t, 3, v2.Size())
		assert.Equal(t, 2, v2.Count())
		assert.Equal(t, []int{1, 3}, v2.ToSlice())
		assert.Equal(t, 3, v.Count(), "original must not change")
	})

	t.Run("Negative", func(t *testing.T) {
		v2 := v.Delete(-1)
		assert.Equal(t, []int{1, 2}, v2.ToSlice())
		assert.Equal(t, 3, v2.Size())
	})

	t.Run("OutOfRange", func(t *testing.T) {
		for _, i := range []int{3, 100, -4, math.MinInt, math.MaxInt} {
			v2 := v.Delete(i)
			assert.Equal(t, v.ToSlice(), v2.ToSlice())
			assert.Equal(t, v.Size(), v2.Size())
		}
	})

	t.Run("AlreadyUnset", func(t *testing.T) {
		v2 := v.Delete(0).Delete(0)
		assert.Equal(t, 2, v2.Count())
	})

	t.Run("All", func(t *testing.T) {
		v2 := v.Delete(0).Delete(1).Delete(2)
		assert.Equal(t, 0, v2.Count())
		assert.Equal(t, 3, v2.Size())

		v3, err := v2.Append(4)
		require.NoError(t, err)
		assert.Equal(t, []int{4}, v3.ToSlice())
		assert.Equal(t, 4, v3.Size())
	})
}

func TestUpdate(t *testing.T) {
	inc := func(x int) int { return x + 1 }
	v := pvec.FromSlice([]int{1, 2, 3})

	v2, err := v.Update(0, 100, inc)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 3}, v2.ToSlice())

	v3, err := v.Delete(0).Update(0, 100, inc)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 2, 3}, v3.ToSlice())

	v4, err := v.Update(5, 100, inc)
	require.NoError(t, err)
	assert.Equal(t, 6, v4.Size())
	assert.Equal(t, []int{1, 2, 3, 100}, v4.ToSlice())

	_, err = v.Update(-10, 100, inc)
	assert.ErrorIs(t, err, pvec.ErrInvalidArgument)
}

func TestMustUpdate(t *testing.T) {
	double := func(x int) int { return x * 2 }
	v := pvec.FromSlice([]int{1, 2, 3})

	v2, err := v.MustUpdate(-1, double)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 6}, v2.ToSlice())

	_, err = v.MustUpdate(3, double)
	require.ErrorIs(t, err, pvec.ErrOutOfBounds)

	_, err = v.Delete(1).MustUpdate(1, double)
	require.ErrorIs(t, err, pvec.ErrOutOfBounds)

	var ie *pvec.IndexError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "update", ie.Op)
}

func TestGetAndUpdate(t *testing.T) {
	v := pvec.FromSlice([]int{1, 2, 3})

	t.Run("Replace", func(t *testing.T) {
		ret, v2, err := v.GetAndUpdate(1, 0, func(cur int) (int, int, bool) {
			return cur, cur * 10, false
		})
		require.NoError(t, err)

		assert.Equal(t, 2, ret)
		assert.Equal(t, []int{1, 20, 3}, v2.ToSlice())
	})

	t.Run("DefaultWhenAbsent", func(t *testing.T) {
		var seen int
		ret, v2, err := v.GetAndUpdate(4, 42, func(cur int) (int, int, bool) {
			seen = cur
			return -1, cur + 1, false
		})
		require.NoError(t, err)

		assert.Equal(t, 42, seen)
		assert.Equal(t, -1, ret)
		assert.Equal(t, 5, v2.Size())
		assert.Equal(t, []int{1, 2, 3, 43}, v2.ToSlice())
	})

	t.Run("Pop", func(t *testing.T) {
		ret, v2, err := v.GetAndUpdate(0, 0, func(cur int) (int, int, bool) {
			return 0, 0, true
		})
		require.NoError(t, err)

		assert.Equal(t, 1, ret)
		assert.Equal(t, []int{2, 3}, v2.ToSlice())
		assert.Equal(t, 3, v2.Size())
	})

	t.Run("InvalidIndex", func(t *testing.T) {
		_, v2, err := v.GetAndUpdate(-10, 0, func(cur int) (int, int, bool) {
			return cur, cur, false
		})
		require.ErrorIs(t, err, pvec.ErrInvalidArgument)
		assert.Nil(t, v2)
	})
}

func TestPopAt(t *testing.T) {
	v := pvec.FromSlice([]string{"a", "b", "c"})

	got, v2 := v.PopAt(1, "z")
	assert.Equal(t, "b", got)
	assert.Equal(t, []string{"a", "c"}, v2.ToSlice())

	got, v3 := v2.PopAt(1, "z")
	assert.Equal(t, "z", got)
	assert.Equal(t, v2.ToSlice(), v3.ToSlice())

	got, _ = v.PopAt(-1, "z")
	assert.Equal(t, "c", got)
}

func TestAppend(t *testing.T) {
	v, err := pvec.WithCapacity[int](5)
	require.NoError(t, err)

	t.Run("GrowsByOne", func(t *testing.T) {
		v2, err := v.Append(9)
		require.NoError(t, err)

		assert.Equal(t, 6, v2.Size())
		got, ok := v2.Get(-1)
		assert.True(t, ok)
		assert.Equal(t, 9, got)
		assert.Equal(t, 5, v.Size(), "original must not change")
	})

	t.Run("MaxSize", func(t *testing.T) {
		full, err := pvec.New[int]().Put(math.MaxInt-1, 1)
		require.NoError(t, err)
		require.Equal(t, math.MaxInt, full.Size())

		v2, err := full.Append(2)
		require.ErrorIs(t, err, pvec.ErrInvalidArgument)
		assert.Nil(t, v2)

		var ie *pvec.IndexError
		require.True(t, errors.As(err, &ie))
		assert.Equal(t, "append", ie.Op)

		// The receiver is unchanged.
		assert.Equal(t, math.MaxInt, full.Size())
		assert.Equal(t, 1, full.Count())
		assert.Equal(t, []int{1}, full.ToSlice())
	})

	t.Run("MaxCapacity", func(t *testing.T) {
		full, err := pvec.WithCapacity[int](math.MaxInt)
		require.NoError(t, err)

		_, err = full.Append(1)
		assert.ErrorIs(t, err, pvec.ErrInvalidArgument)
	})
}

func TestBuilder_AppendMaxSize(t *testing.T) {
	full, err := pvec.New[int]().Put(math.MaxInt-1, 1)
	require.NoError(t, err)

	b := pvec.BuilderFrom(full)
	require.ErrorIs(t, b.Append(3), pvec.ErrInvalidArgument)

	v := b.Vector()
	assert.Equal(t, math.MaxInt, v.Size())
	assert.Equal(t, 1, v.Count())
}

func TestPersistence(t *testing.T) {
	// 1. Build a shared parent large enough to span several trie levels.
	parent := pvec.New[int]()
	var err error
	for i := range 2000 {
		parent, err = parent.Append(i)
		require.NoError(t, err)
	}

	// 2. Derive two independent children.
	a, err := parent.Put(1000, -1)
	require.NoError(t, err)
	b := parent.Delete(1000)

	// 3. Each sees its own edit; the parent sees neither.
	got, _ := a.Get(1000)
	assert.Equal(t, -1, got)
	_, ok := b.Get(1000)
	assert.False(t, ok)
	got, _ = parent.Get(1000)
	assert.Equal(t, 1000, got)
	assert.Equal(t, 2000, parent.Count())
}
