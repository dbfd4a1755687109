// ABOUTME: Interactive chat loop with slash commands
// ABOUTME: Sends each line to the current conversation, starting one if needed

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/claude-web/internal/chat"
	"github.com/2389/claude-web/internal/claude"
)

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [conversation]",
		Short: "Chat interactively (a new conversation starts with the first message)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &repl{app: a}
			if len(args) == 1 {
				a.chat.SetConversationContext(args[0])
			}
			return r.run(cmd.Context())
		},
	}
}

// repl is the interactive session state on top of the wrapper context.
type repl struct {
	app     *app
	pending []claude.Attachment
}

var errQuit = errors.New("quit")

func (r *repl) run(ctx context.Context) error {
	a := r.app
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	cyan.Fprint(a.out, banner)
	fmt.Fprintln(a.out)
	if conv := a.chat.Context().ConversationID; conv != "" {
		cyan.Fprintf(a.out, "Conversation %s. /help for commands, Ctrl+D to exit.\n\n", conv)
	} else {
		cyan.Fprintln(a.out, "New conversation. /help for commands, Ctrl+D to exit.")
		fmt.Fprintln(a.out)
	}

	scanner := bufio.NewScanner(a.in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024) // 1MB max input
	for {
		green.Fprint(a.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(a.out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var err error
		if strings.HasPrefix(line, "/") {
			err = r.command(ctx, line)
		} else {
			err = r.send(ctx, line)
		}
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			color.New(color.FgRed).Fprintf(a.out, "Error: %v\n", err)
		}
	}
}

func (r *repl) command(ctx context.Context, line string) error {
	a := r.app
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit", "/q":
		return errQuit

	case "/help", "/h", "/?":
		r.help()

	case "/use":
		if arg == "" {
			return fmt.Errorf("usage: /use <conversation>")
		}
		a.chat.SetConversationContext(arg)
		r.pending = nil
		color.New(color.FgCyan).Fprintf(a.out, "Using conversation %s\n", arg)

	case "/new":
		res, err := a.chat.StartConversation(ctx, arg, "", claude.SendOptions{})
		if err != nil {
			return err
		}
		a.chat.SetConversationContext(res.Conversation.UUID)
		r.pending = nil
		color.New(color.FgCyan).Fprintf(a.out, "Started conversation %s\n", res.Conversation.UUID)

	case "/history":
		conv, err := a.chat.GetConversationHistory(ctx)
		if err != nil {
			return err
		}
		return a.printHistory(conv)

	case "/attach":
		if arg == "" {
			return fmt.Errorf("usage: /attach <path>")
		}
		att, err := a.chat.BuildAttachment(arg)
		if err != nil {
			return err
		}
		r.pending = append(r.pending, *att)
		color.New(color.FgCyan).Fprintf(a.out, "Attached %s (%d bytes), sent with the next message\n", att.FileName, att.FileSize)

	default:
		return fmt.Errorf("unknown command %s (try /help)", name)
	}
	return nil
}

// send delivers text to the current conversation. Without one, the text
// starts a new conversation that then becomes current.
func (r *repl) send(ctx context.Context, text string) error {
	a := r.app
	opts := claude.SendOptions{Attachments: r.pending}

	var (
		msg *claude.Message
		err error
	)
	if a.chat.Context().ConversationID == "" {
		var res *chat.StartResult
		res, err = a.chat.StartConversation(ctx, "", text, opts)
		if res != nil {
			a.chat.SetConversationContext(res.Conversation.UUID)
			msg = res.Reply
			if res.Title != "" {
				color.New(color.Faint).Fprintf(a.out, "[%s]\n", res.Title)
			}
		}
	} else {
		msg, err = a.chat.SendMessage(ctx, text, opts)
	}
	if err != nil {
		a.printPartial(msg)
		return err
	}

	r.pending = nil
	fmt.Fprintln(a.out)
	if err := a.printReply(msg); err != nil {
		return err
	}
	fmt.Fprintln(a.out)
	return nil
}

func (r *repl) help() {
	a := r.app
	yellow := color.New(color.FgYellow)
	yellow.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  /use <conversation>   Switch to an existing conversation")
	fmt.Fprintln(a.out, "  /new [name]           Start a new conversation")
	fmt.Fprintln(a.out, "  /history              Show the current conversation")
	fmt.Fprintln(a.out, "  /attach <path>        Attach a text file to the next message")
	fmt.Fprintln(a.out, "  /help                 Show this help")
	fmt.Fprintln(a.out, "  /quit                 Exit")
}
