package middleware

import (
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
)

func TestContainer_GetAllAndClear(t *testing.T) {
	c := NewContainer()

	calls := 0
	mw := func(ctx huma.Context, next func(huma.Context)) { calls++ }
	c.Add(mw)
	c.Add(mw)

	got := c.GetAllAndClear()
	assert.Len(t, got, 2)

	empty := c.GetAllAndClear()
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}
