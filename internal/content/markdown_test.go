package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RendersAndCaches(t *testing.T) {
	r, err := NewRenderer(2)
	require.NoError(t, err)

	out, err := r.Render("I like **shipping**.")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<strong>shipping</strong>")
	assert.Equal(t, 1, r.Cached())

	again, err := r.Render("I like **shipping**.")
	require.NoError(t, err)
	assert.Equal(t, out, again)
	assert.Equal(t, 1, r.Cached())

	r.MustRender("a")
	r.MustRender("b")
	assert.Equal(t, 2, r.Cached())
}

func TestRenderer_DropsRawHTML(t *testing.T) {
	r, err := NewRenderer(0)
	require.NoError(t, err)

	out := r.MustRender("<script>alert(1)</script>")
	assert.NotContains(t, string(out), "<script>")
}
