// ABOUTME: Terminal output helpers for tables and replies
// ABOUTME: Uses tabwriter for listings and the renderer for assistant text

package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/2389/claude-web/internal/claude"
)

func printOrganizations(w io.Writer, orgs []claude.Organization, current string) {
	if len(orgs) == 0 {
		fmt.Fprintln(w, "No organizations.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  UUID\tNAME\tCREATED")
	fmt.Fprintln(tw, "  ----\t----\t-------")
	for _, o := range orgs {
		marker := " "
		if o.UUID == current {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, o.UUID, truncate(o.Name, 32), formatTime(o.CreatedAt))
	}
	tw.Flush()
}

func printConversations(w io.Writer, convs []claude.Conversation) {
	if len(convs) == 0 {
		fmt.Fprintln(w, "No conversations.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  UUID\tNAME\tUPDATED")
	fmt.Fprintln(tw, "  ----\t----\t-------")
	for _, c := range convs {
		name := c.Name
		if name == "" {
			name = "(untitled)"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.UUID, truncate(name, 40), formatTime(c.UpdatedAt))
	}
	tw.Flush()
}

// printHistory prints every message of conv in order.
func (a *app) printHistory(conv *claude.Conversation) error {
	cyan := color.New(color.FgCyan, color.Bold)
	green := color.New(color.FgGreen, color.Bold)

	title := conv.Name
	if title == "" {
		title = conv.UUID
	}
	cyan.Fprintf(a.out, "%s\n\n", title)

	for _, m := range conv.Messages {
		if m.Sender == claude.RoleHuman {
			green.Fprintln(a.out, "You:")
			fmt.Fprintf(a.out, "%s\n\n", m.Text)
			continue
		}
		cyan.Fprintln(a.out, "Claude:")
		if err := a.printReply(&m); err != nil {
			return err
		}
		fmt.Fprintln(a.out)
	}
	return nil
}

// printReply renders an assistant message in the configured format.
func (a *app) printReply(m *claude.Message) error {
	out, err := a.renderer.Render(m.Text, a.output)
	if err != nil {
		return err
	}
	fmt.Fprint(a.out, out)
	if len(out) > 0 && out[len(out)-1] != '\n' {
		fmt.Fprintln(a.out)
	}
	return nil
}

// printPartial shows whatever text arrived before a reply failed.
func (a *app) printPartial(m *claude.Message) {
	if m == nil || m.Text == "" {
		return
	}
	dim := color.New(color.Faint, color.Italic)
	dim.Fprintln(a.out, m.Text)
	dim.Fprintln(a.out, "[reply incomplete]")
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02 15:04")
}

// truncate shortens a string to maxLen runes with ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
