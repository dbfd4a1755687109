// ABOUTME: Organization, conversation, and send subcommands
// ABOUTME: Thin cobra wrappers over the chat context wrapper

package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/claude-web/internal/chat"
	"github.com/2389/claude-web/internal/claude"
	"github.com/2389/claude-web/internal/render"
)

func newOrgsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orgs",
		Short: "List organizations of the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orgs, err := a.chat.ListOrganizations(cmd.Context())
			if err != nil {
				return err
			}
			printOrganizations(a.out, orgs, a.chat.Context().OrganizationID)
			return nil
		},
	}
}

func newConvsCmd(a *app) *cobra.Command {
	convs := &cobra.Command{
		Use:   "convs",
		Short: "Manage conversations",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List conversations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.chat.ListConversations(cmd.Context())
			if err != nil {
				return err
			}
			printConversations(a.out, items)
			return nil
		},
	}

	var name string
	start := &cobra.Command{
		Use:   "start [message...]",
		Short: "Start a conversation, optionally sending a first message",
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.chat.StartConversation(cmd.Context(), name, strings.Join(args, " "), claude.SendOptions{})
			if err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "Started %s", res.Conversation.UUID)
			if res.Title != "" {
				fmt.Fprintf(a.out, " (%s)", res.Title)
			}
			fmt.Fprintln(a.out)
			if res.Reply != nil {
				fmt.Fprintln(a.out)
				return a.printReply(res.Reply)
			}
			return nil
		},
	}
	start.Flags().StringVar(&name, "name", "", "conversation name (generated from the first message if empty)")

	rename := &cobra.Command{
		Use:   "rename <conversation> <name...>",
		Short: "Rename a conversation",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newName := strings.Join(args[1:], " ")
			if err := a.chat.RenameConversation(cmd.Context(), newName, chat.OnConversation(args[0])); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "Renamed %s to %q\n", args[0], newName)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <conversation>",
		Short: "Delete a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.chat.DeleteConversation(cmd.Context(), chat.OnConversation(args[0])); err != nil {
				return err
			}
			color.New(color.FgGreen).Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}

	var yes bool
	deleteAll := &cobra.Command{
		Use:   "delete-all",
		Short: "Delete every conversation in the organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes && !a.confirm("Delete ALL conversations? [y/N] ") {
				fmt.Fprintln(a.out, "Aborted.")
				return nil
			}
			failed, err := a.chat.DeleteAllConversations(cmd.Context())
			if err != nil {
				return err
			}
			if len(failed) == 0 {
				color.New(color.FgGreen).Fprintln(a.out, "Deleted all conversations")
				return nil
			}
			color.New(color.FgYellow).Fprintf(a.out, "Could not delete %d conversation(s):\n", len(failed))
			for _, id := range failed {
				fmt.Fprintf(a.out, "  %s\n", id)
			}
			return fmt.Errorf("%d conversation(s) not deleted", len(failed))
		},
	}
	deleteAll.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	history := &cobra.Command{
		Use:   "history <conversation>",
		Short: "Show the messages of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conv, err := a.chat.GetConversationHistory(cmd.Context(), chat.OnConversation(args[0]))
			if err != nil {
				return err
			}
			return a.printHistory(conv)
		},
	}

	convs.AddCommand(list, start, rename, del, deleteAll, history)
	return convs
}

func newSendCmd(a *app) *cobra.Command {
	var (
		attach   []string
		html     bool
		model    string
		timezone string
	)

	cmd := &cobra.Command{
		Use:   "send <conversation> <message...>",
		Short: "Send a message and print the reply",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := claude.SendOptions{
				Model:    claude.Model(model),
				Timezone: claude.Timezone(timezone),
			}
			for _, path := range attach {
				att, err := a.chat.BuildAttachment(path)
				if err != nil {
					return err
				}
				opts.Attachments = append(opts.Attachments, *att)
			}
			if html {
				a.output = render.FormatHTML
			}

			msg, err := a.chat.SendMessage(cmd.Context(), strings.Join(args[1:], " "), opts, chat.OnConversation(args[0]))
			if err != nil {
				a.printPartial(msg)
				return err
			}
			return a.printReply(msg)
		},
	}

	cmd.Flags().StringArrayVar(&attach, "attach", nil, "attach a text file (repeatable)")
	cmd.Flags().BoolVar(&html, "html", false, "print the reply as sanitized HTML")
	cmd.Flags().StringVar(&model, "model", "", "model for this message")
	cmd.Flags().StringVar(&timezone, "timezone", "", "timezone for this message")
	return cmd
}

// confirm asks a yes/no question on the command input.
func (a *app) confirm(prompt string) bool {
	fmt.Fprint(a.out, prompt)
	line, _ := bufio.NewReader(a.in).ReadString('\n')
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
