package errors

import (
	"strings"
	"unicode"
)

// ValidateInputPath validates a user-supplied file path for safety.
// It rejects paths that could be used for traversal or injection.
//
// The validation rules are intentionally conservative:
//   - No empty paths
//   - No control characters
//   - No null bytes
//   - Maximum length of 4096 characters
//
// Existence and readability are checked separately when the file is
// opened.
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > 4096 {
		return New(ErrCodeInvalidPath, "path too long (max 4096 characters)")
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	if strings.Contains(path, "\x00") {
		return New(ErrCodeInvalidPath, "path contains null byte")
	}

	return nil
}

// ValidateMarkContent validates print mark content before it is
// encoded as a QR code.
func ValidateMarkContent(content string) error {
	if content == "" {
		return New(ErrCodeInvalidInput, "print mark content cannot be empty")
	}
	// QR version 40 with medium correction caps out near 2300 bytes;
	// stay well below it.
	if len(content) > 1024 {
		return New(ErrCodeInvalidInput, "print mark content too long (max 1024 bytes)")
	}
	for _, r := range content {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return New(ErrCodeInvalidInput, "print mark content contains control characters")
		}
	}
	return nil
}
