package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDescriptionHTML(t *testing.T) {
	out, err := RenderDescriptionHTML("Welcome to your Berlin loft.\n\nBook your stay today.")
	require.NoError(t, err)

	assert.Contains(t, out, "Welcome to your Berlin loft.<br><br>Book your stay today.")
	assert.Contains(t, out, "Your listing, upgraded.")
	assert.Contains(t, out, "AirbnbOptimizer")
	// Template placeholder must be fully resolved.
	assert.NotContains(t, out, "{{ description }}")
}

func TestRenderDescriptionHTMLEscapes(t *testing.T) {
	out, err := RenderDescriptionHTML(`Cozy & bright <loft> "downtown"`)
	require.NoError(t, err)

	assert.Contains(t, out, "Cozy &amp; bright &lt;loft&gt; &#34;downtown&#34;")
	assert.NotContains(t, out, "<loft>")
}

func TestRenderDescriptionHTMLEmpty(t *testing.T) {
	out, err := RenderDescriptionHTML("")
	require.NoError(t, err)
	assert.Contains(t, out, "<!DOCTYPE html>")
}
