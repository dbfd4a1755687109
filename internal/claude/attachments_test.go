// ABOUTME: Tests for building attachments from local files
// ABOUTME: Covers text files, missing, empty, binary, and directory paths

package claude

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildAttachment_TextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# Notes\nhello"), 0644))

	att, err := BuildAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.md", att.FileName)
	assert.Equal(t, int64(13), att.FileSize)
	assert.Equal(t, "# Notes\nhello", att.ExtractedContent)
	assert.NotEmpty(t, att.FileType)
}

func TestBuildAttachment_UnknownExtensionIsPlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README")
	require.NoError(t, os.WriteFile(path, []byte("read me"), 0644))

	att, err := BuildAttachment(path)
	require.NoError(t, err)
	assert.Equal(t, "text/plain", att.FileType)
}

func TestBuildAttachment_Failures(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.txt")
	require.NoError(t, os.WriteFile(empty, nil, 0644))

	binary := filepath.Join(dir, "image.bin")
	require.NoError(t, os.WriteFile(binary, []byte{0xff, 0xfe, 0x00, 0x81}, 0644))

	tests := []struct {
		name string
		path string
	}{
		{"missing", filepath.Join(dir, "does-not-exist.txt")},
		{"empty", empty},
		{"binary", binary},
		{"directory", dir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			att, err := BuildAttachment(tt.path)
			assert.Nil(t, att)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrAttachment)

			var attErr *AttachmentError
			require.ErrorAs(t, err, &attErr)
			assert.Equal(t, tt.path, attErr.Path)
		})
	}
}

func TestBuildAttachment_MissingFileMakesNoRequest(t *testing.T) {
	ft := newFakeTransport()
	_ = NewClient(ft)

	_, err := BuildAttachment(filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, ErrAttachment)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, ft.callCount())
}
