// ABOUTME: Package documentation for the chat context wrapper
// ABOUTME: Describes default selection and per-call overrides

// Package chat wraps the claude resource client with a remembered default
// organization and conversation.
//
// # Resolution
//
// Each operation accepts OnOrganization and OnConversation call options. An
// explicit option wins over the current selection. When no organization is
// selected at all, the first organization of the account is fetched once and
// remembered. A missing conversation is never guessed and yields
// *NoContextError.
//
// Passing the current default explicitly behaves exactly like omitting it.
package chat
