package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "hello-world", "hello-world"},
		{"spaces", "hello   world", "hello-world"},
		{"invalid chars", `a<b>c:d"e|f?g*h`, "a-b-c-d-e-f-g-h"},
		{"leading and trailing", "--lion--", "lion"},
		{"dots only", "..", "untitled"},
		{"windows reserved", "con", "_con"},
		{"empty", "", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}

	t.Run("length limit", func(t *testing.T) {
		got := SanitizeFilename(strings.Repeat("a", 300))
		assert.Len(t, got, MaxFilenameLength)
	})
}

func TestContentPath(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		slug     string
		expected string
	}{
		{"flat slug", "posts", "hello-world", filepath.Join("out", "posts", "hello-world.md")},
		{"nested slug", "pages", "big-cats/lion", filepath.Join("out", "pages", "big-cats", "lion.md")},
		{"traversal is neutralized", "pages", "../../etc/passwd", filepath.Join("out", "pages", "untitled", "untitled", "etc", "passwd.md")},
		{"empty slug", "pages", "", filepath.Join("out", "pages", "index.md")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContentPath("out", tt.section, tt.slug))
		})
	}
}

func TestEnsureDir(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "a", "b", "file.md")

	require.NoError(t, EnsureDir(target))

	info, err := os.Stat(filepath.Join(tmp, "a", "b"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".wploader"), ExpandPath("~/.wploader"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, "/tmp/x", ExpandPath("/tmp/x"))
}
