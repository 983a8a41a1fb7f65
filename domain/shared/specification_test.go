package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type greaterThan int

func (g greaterThan) IsSatisfiedBy(_ context.Context, n int) bool { return n > int(g) }

type even struct{}

func (even) IsSatisfiedBy(_ context.Context, n int) bool { return n%2 == 0 }

func TestSpecificationCombinators(t *testing.T) {
	ctx := context.Background()
	items := []int{1, 2, 3, 4, 5, 6}

	assert.Equal(t, []int{4, 6}, Filter[int](ctx, items, And[int](greaterThan(3), even{})))
	assert.Equal(t, []int{2, 4, 5, 6}, Filter[int](ctx, items, Or[int](greaterThan(4), even{})))
	assert.Equal(t, []int{1, 3, 5}, Filter[int](ctx, items, Not[int](even{})))
	assert.Equal(t, items, Filter[int](ctx, items, nil))
}
