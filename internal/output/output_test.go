package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrinter_NoColors(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(&out, &errOut, false)

	p.Success("built %d pages", 3)
	p.Info("output: %s", "dist")
	p.Warning("layout %s missing", "post.html")
	p.Error("boom")

	assert.Contains(t, out.String(), "[OK] built 3 pages")
	assert.Contains(t, out.String(), "output: dist")
	assert.Contains(t, errOut.String(), "[WARN] layout post.html missing")
	assert.Contains(t, errOut.String(), "[ERROR] boom")
}

func TestPrinter_Header(t *testing.T) {
	var out bytes.Buffer
	NewPrinter(&out, &out, false).Header("Routes")

	assert.Equal(t, "\nRoutes\n------\n", out.String())
}

func TestResolveColors(t *testing.T) {
	t.Setenv("TERM", "xterm")
	assert.False(t, ResolveColors(true))

	t.Setenv("NO_COLOR", "1")
	assert.False(t, ResolveColors(false))
}

func TestTable_Render(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Path", "Kind"})
	table.AddRow([]string{"/posts/hello", "post"})
	table.AddRow([]string{"/about", "page"})

	require.NoError(t, table.Render())
	assert.Contains(t, buf.String(), "/posts/hello")
	assert.Contains(t, buf.String(), "/about")
}
