package pvec_test

import (
	"slices"
	"testing"

	"github.com/hupe1980/pvec"
	"github.com/stretchr/testify/assert"
)

func TestAll(t *testing.T) {
	v := sparse(t, 100, map[int]int{99: 9, 0: 1, 50: 5})

	var idx, vals []int
	for i, x := range v.All() {
		idx = append(idx, i)
		vals = append(vals, x)
	}

	assert.Equal(t, []int{0, 50, 99}, idx)
	assert.Equal(t, []int{1, 5, 9}, vals)
}

func TestValues_Restartable(t *testing.T) {
	v := pvec.FromSlice([]string{"a", "b"})
	seq := v.Values()

	assert.Equal(t, []string{"a", "b"}, slices.Collect(seq))
	assert.Equal(t, []string{"a", "b"}, slices.Collect(seq))
}

func TestValues_Break(t *testing.T) {
	v := pvec.FromSlice([]int{1, 2, 3, 4})

	var got []int
	for x := range v.Values() {
		if x == 3 {
			break
		}
		got = append(got, x)
	}
	assert.Equal(t, []int{1, 2}, got)
}

func TestValues_Snapshot(t *testing.T) {
	v := pvec.FromSlice([]int{1, 2})
	seq := v.Values()

	// Deriving a new vector after taking the iterator does not affect it.
	_, _ = v.Append(3)
	assert.Equal(t, []int{1, 2}, slices.Collect(seq))
}

func TestBackward(t *testing.T) {
	v := sparse(t, 40, map[int]int{1: 10, 33: 330, 7: 70})

	var idx []int
	for i := range v.Backward() {
		idx = append(idx, i)
	}
	assert.Equal(t, []int{33, 7, 1}, idx)
}
