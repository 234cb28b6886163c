package utils

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// MaxFilenameLength is the maximum length for a filename
const MaxFilenameLength = 200

// Windows reserved names
var windowsReserved = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// invalidCharsRegex matches invalid filename characters
var invalidCharsRegex = regexp.MustCompile(`[<>:"|?*\\/]`)

// multipleSpacesRegex matches multiple consecutive spaces/dashes
var multipleSpacesRegex = regexp.MustCompile(`[-_\s]+`)

// SanitizeFilename sanitizes a single path segment for use as a filename
func SanitizeFilename(name string) string {
	name = invalidCharsRegex.ReplaceAllString(name, "-")
	name = multipleSpacesRegex.ReplaceAllString(name, "-")
	name = strings.Trim(name, "-. ")

	if windowsReserved[strings.ToUpper(name)] {
		name = "_" + name
	}

	if len(name) > MaxFilenameLength {
		name = name[:MaxFilenameLength]
	}

	if name == "" {
		name = "untitled"
	}

	return name
}

// ContentPath builds <baseDir>/<section>/<slug segments>.md from a slash-separated slug path
func ContentPath(baseDir, section, slugPath string) string {
	slugPath = strings.Trim(slugPath, "/")
	if slugPath == "" {
		slugPath = "index"
	}

	parts := strings.Split(slugPath, "/")
	for i, part := range parts {
		parts[i] = SanitizeFilename(part)
	}
	parts[len(parts)-1] += ".md"

	return filepath.Join(append([]string{baseDir, SanitizeFilename(section)}, parts...)...)
}

// EnsureDir ensures the parent directory of path exists
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return home
	}
	return path
}
