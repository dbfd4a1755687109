// ABOUTME: Reply rendering for terminal and HTML output
// ABOUTME: Markdown to sanitized HTML via goldmark and bluemonday, or plain text

package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Format selects how a reply is rendered.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts text, markdown, or html. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case "", FormatText:
		return FormatText, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	case FormatHTML:
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

// Renderer converts assistant replies, which are markdown, for display.
type Renderer struct {
	md        goldmark.Markdown
	sanitizer *bluemonday.Policy
}

// New returns a Renderer using GitHub flavored markdown and a UGC sanitizer.
func New() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
		),
		sanitizer: newSanitizer(),
	}
}

func newSanitizer() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// Fenced code blocks carry their language as a class
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre")
	p.AllowAttrs("id").Matching(bluemonday.Paragraph).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	return p
}

// Render formats reply according to f.
func (r *Renderer) Render(reply string, f Format) (string, error) {
	switch f {
	case FormatHTML:
		return r.HTML(reply)
	case FormatMarkdown:
		return reply, nil
	default:
		return r.Text(reply), nil
	}
}

// HTML converts markdown to sanitized HTML. Raw HTML in the reply is
// stripped of anything unsafe.
func (r *Renderer) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return r.sanitizer.Sanitize(buf.String()), nil
}

// Text flattens markdown for a terminal. Headings are bold, code is
// highlighted with color, list items get a bullet, and markup is dropped.
func (r *Renderer) Text(markdown string) string {
	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))

	var out strings.Builder
	bold := color.New(color.Bold)
	code := color.New(color.FgYellow)

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		switch node := n.(type) {
		case *ast.Heading:
			if entering {
				out.WriteString(bold.Sprint(inlineText(node, src)))
				out.WriteString("\n\n")
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock, *ast.CodeBlock:
			if entering {
				lines := n.Lines()
				for i := 0; i < lines.Len(); i++ {
					seg := lines.At(i)
					out.WriteString(code.Sprint("    " + strings.TrimRight(string(seg.Value(src)), "\n")))
					out.WriteString("\n")
				}
				out.WriteString("\n")
			}
			return ast.WalkSkipChildren, nil

		case *ast.CodeSpan:
			if entering {
				out.WriteString(code.Sprint(inlineText(node, src)))
			}
			return ast.WalkSkipChildren, nil

		case *ast.ListItem:
			if entering {
				out.WriteString(strings.Repeat("  ", listDepth(node)-1) + "• ")
			}

		case *ast.Text:
			if entering {
				out.Write(node.Segment.Value(src))
				if node.SoftLineBreak() || node.HardLineBreak() {
					out.WriteString("\n")
				}
			}

		case *ast.String:
			if entering {
				out.Write(node.Value)
			}

		case *ast.AutoLink:
			if entering {
				out.Write(node.URL(src))
			}
			return ast.WalkSkipChildren, nil

		case *ast.TextBlock:
			if !entering {
				out.WriteString("\n")
			}

		case *ast.Paragraph:
			if !entering {
				out.WriteString("\n\n")
			}

		case *ast.ThematicBreak:
			if entering {
				out.WriteString("---\n\n")
			}
		}
		return ast.WalkContinue, nil
	})

	return strings.TrimRight(out.String(), "\n") + "\n"
}

// inlineText concatenates the text segments below n.
func inlineText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

func listDepth(n ast.Node) int {
	depth := 0
	for p := n.Parent(); p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	return depth
}
