// ABOUTME: Builds inline text attachments from local files
// ABOUTME: Reads the whole file into memory; no network call

package claude

import (
	"errors"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

var (
	errEmptyFile  = errors.New("file is empty")
	errBinaryFile = errors.New("file is not UTF-8 text")
	errDirectory  = errors.New("path is a directory")
)

// BuildAttachment reads a local text file into an Attachment. Unreadable,
// empty, or binary files fail with *AttachmentError.
func BuildAttachment(path string) (*Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &AttachmentError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &AttachmentError{Path: path, Err: errDirectory}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &AttachmentError{Path: path, Err: err}
	}
	if len(data) == 0 {
		return nil, &AttachmentError{Path: path, Err: errEmptyFile}
	}
	if !utf8.Valid(data) {
		return nil, &AttachmentError{Path: path, Err: errBinaryFile}
	}

	name := filepath.Base(path)
	return &Attachment{
		FileName:         name,
		FileType:         fileType(name),
		FileSize:         int64(len(data)),
		ExtractedContent: string(data),
	}, nil
}

// fileType returns the media type for name without parameters, defaulting to
// text/plain.
func fileType(name string) string {
	t := mime.TypeByExtension(filepath.Ext(name))
	if t == "" {
		return "text/plain"
	}
	t, _, _ = strings.Cut(t, ";")
	return strings.TrimSpace(t)
}
