// Package source validates and loads source files before header extraction.
package source

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

var (
	// ErrUnsupportedExtension is matched by errors for paths without an
	// accepted extension.
	ErrUnsupportedExtension = errors.New("unsupported source file extension")

	// ErrFileNotFound is returned when the path does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrInvalidUTF8 is returned when a file's contents are not valid UTF-8.
	ErrInvalidUTF8 = errors.New("stream did not contain valid UTF-8")
)

// ExtensionError reports a path whose extension is not one of Extensions.
type ExtensionError struct {
	Path       string
	Extensions []string
}

func (e *ExtensionError) Error() string {
	if len(e.Extensions) == 1 {
		return fmt.Sprintf("A %s source file was expected", strings.TrimPrefix(e.Extensions[0], "."))
	}
	return fmt.Sprintf("A source file was expected (%s)", strings.Join(e.Extensions, ", "))
}

func (e *ExtensionError) Is(target error) bool {
	return target == ErrUnsupportedExtension
}

// Validate checks that path has one of exts and exists. The extension is
// checked first, so a missing file with the wrong extension reports
// ErrUnsupportedExtension.
func Validate(path string, exts []string) error {
	if !slices.Contains(exts, filepath.Ext(path)) {
		return &ExtensionError{Path: path, Extensions: exts}
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	return nil
}

// Load validates path and reads it fully into memory. Contents that are not
// valid UTF-8 are rejected rather than decoded lossily.
func Load(path string, exts []string) (string, error) {
	if err := Validate(path, exts); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("problems reading file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("problems reading file: %w", ErrInvalidUTF8)
	}
	return string(data), nil
}
