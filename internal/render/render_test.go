// ABOUTME: Tests for reply rendering
// ABOUTME: Covers HTML sanitization and plain text flattening

package render

import (
	"os"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "text": FormatText, "HTML": FormatHTML, "markdown": FormatMarkdown} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestHTML_RendersGFM(t *testing.T) {
	out, err := New().HTML("# Plan\n\n**bold** and ~~gone~~\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)

	assert.Contains(t, out, `<h1 id="plan">Plan</h1>`)
	assert.Contains(t, out, "<strong>bold</strong>")
	assert.Contains(t, out, "<del>gone</del>")
	assert.Contains(t, out, "<table>")
}

func TestHTML_StripsUnsafeContent(t *testing.T) {
	out, err := New().HTML("<script>alert(1)</script>\n\n[click](javascript:alert(1)) **hi**")
	require.NoError(t, err)

	assert.NotContains(t, out, "<script")
	assert.NotContains(t, out, "javascript:")
	assert.Contains(t, out, "<strong>hi</strong>")
}

func TestHTML_KeepsCodeLanguage(t *testing.T) {
	out, err := New().HTML("```go\nfmt.Println(\"hi\")\n```\n")
	require.NoError(t, err)
	assert.Contains(t, out, `class="language-go"`)
}

func TestText_FlattensMarkup(t *testing.T) {
	got := New().Text("# Title\n\nHello **world**, see `main.go`.\n\n- one\n- two\n")
	assert.Equal(t, "Title\n\nHello world, see main.go.\n\n• one\n• two\n", got)
}

func TestText_IndentsCodeBlocks(t *testing.T) {
	got := New().Text("Run:\n\n```sh\ngo test ./...\n```\n")
	assert.Equal(t, "Run:\n\n    go test ./...\n", got)
}

func TestText_NestedLists(t *testing.T) {
	got := New().Text("- outer\n  - inner\n")
	assert.Contains(t, got, "• outer\n")
	assert.Contains(t, got, "  • inner\n")
}

func TestRender_Markdown(t *testing.T) {
	r := New()
	out, err := r.Render("**raw**", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "**raw**", out)

	out, err = r.Render("**raw**", FormatText)
	require.NoError(t, err)
	assert.Equal(t, "raw\n", out)
}
