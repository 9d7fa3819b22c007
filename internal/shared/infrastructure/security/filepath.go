// Package security validates user-supplied filesystem paths.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath          = errors.New("file path cannot be empty")
	ErrForbiddenCharacter = errors.New("file path contains a forbidden character")
)

// dangerousChars are shell metacharacters rejected in configured paths.
var dangerousChars = []string{";", "&", "|", "$", "`", "(", ")", "{", "}", "<", ">", "!", "\n", "\r"}

// ValidateFilePath cleans path, makes it absolute and resolves symlinks when
// the file already exists. Paths containing shell metacharacters are refused.
func ValidateFilePath(path string) (string, error) {
	if path == "" {
		return "", ErrEmptyPath
	}
	for _, char := range dangerousChars {
		if strings.Contains(path, char) {
			return "", fmt.Errorf("%w %q: %s", ErrForbiddenCharacter, char, path)
		}
	}

	cleanPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(cleanPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cleanPath, nil
		}
		return "", fmt.Errorf("failed to resolve file path: %w", err)
	}
	return resolved, nil
}
