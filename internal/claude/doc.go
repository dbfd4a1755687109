// Package claude implements the claude.ai web API on top of a session
// transport.
//
// # Overview
//
// Client is the low-level interface: every method takes the organization and
// conversation UUIDs it acts on and makes a single request (SendMessage makes
// one streaming request). Use package chat for a client that remembers a
// default organization and conversation.
//
//	t, _ := session.New(token)
//	c := claude.NewClient(t)
//	orgs, err := c.ListOrganizations(ctx)
//	reply, err := c.SendMessage(ctx, orgs[0].UUID, convID, "Hello", claude.SendOptions{})
//
// # Replies
//
// SendMessage consumes the append_message event stream. Each event holds a
// JSON fragment; "completion" deltas are concatenated in arrival order and a
// non-empty "stop_reason" completes the reply:
//
//	data: {"completion":"Hel","stop_reason":null,"model":"claude-2.1"}
//	data: {"completion":"lo","stop_reason":null,"model":"claude-2.1"}
//	data: {"completion":"","stop_reason":"stop_sequence","model":"claude-2.1"}
//
// A stream that ends without a stop reason, or reports an error, fails with
// *IncompleteResponseError holding the partial text. Up to two undecodable
// fragments in a row are skipped; a third aborts with *session.StreamError.
//
// # Attachments
//
// BuildAttachment turns a local UTF-8 text file into an Attachment that is
// sent inline with a message. It never touches the network.
package claude
