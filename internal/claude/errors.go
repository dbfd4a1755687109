// ABOUTME: Errors raised by the resource client and reply assembler
// ABOUTME: Incomplete replies and attachment failures keep their context for callers

package claude

import (
	"errors"
	"fmt"
)

// ErrMissingID is returned when an operation is called without a required
// organization or conversation UUID.
var ErrMissingID = errors.New("missing identifier")

// ErrOrganizationNotFound is returned by GetOrganization for an unknown UUID.
var ErrOrganizationNotFound = errors.New("organization not found")

// ErrIncompleteResponse matches every *IncompleteResponseError.
var ErrIncompleteResponse = errors.New("incomplete response")

// ErrAttachment matches every *AttachmentError.
var ErrAttachment = errors.New("attachment unusable")

// Reasons attached to an IncompleteResponseError.
const (
	ReasonNoCompletion = "stream ended without a completion marker"
	ReasonServerError  = "server reported an error"
)

// IncompleteResponseError is returned when a reply stream ends or fails before
// its completion marker. Partial is the text assembled up to that point.
type IncompleteResponseError struct {
	Reason  string
	Detail  string
	Partial string
}

func (e *IncompleteResponseError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("incomplete response: %s: %s", e.Reason, e.Detail)
	}
	return "incomplete response: " + e.Reason
}

func (e *IncompleteResponseError) Is(target error) bool {
	return target == ErrIncompleteResponse
}

// AttachmentError reports a local file that cannot become an attachment.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %s: %v", e.Path, e.Err)
}

func (e *AttachmentError) Unwrap() error {
	return e.Err
}

func (e *AttachmentError) Is(target error) bool {
	return target == ErrAttachment
}
