package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// maxPathLength bounds FileSet keys.
const maxPathLength = 500

// ValidatePath validates a project-relative FileSet path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No "." or ".." segments
//   - No empty segments (leading, trailing or doubled slashes)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters: %q", path)
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /): %q", path)
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes: %q", path)
	}

	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "":
			return New(ErrCodeInvalidPath, "path contains an empty segment: %q", path)
		case ".", "..":
			return New(ErrCodeInvalidPath, "path cannot contain %q segments: %q", seg, path)
		}
	}

	return nil
}

// ValidateFileCount rejects file sets larger than limit.
// A non-positive limit disables the check.
func ValidateFileCount(count, limit int) error {
	if limit > 0 && count > limit {
		return New(ErrCodeTooManyFiles, "too many files: %d (max %d)", count, limit)
	}
	return nil
}

// repoPartRegex matches GitHub owner and repository names.
var repoPartRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,99}$`)

// ValidateRepo validates a GitHub owner/repo pair.
func ValidateRepo(owner, repo string) error {
	if owner == "" || repo == "" {
		return New(ErrCodeInvalidRepo, "owner and repository are required")
	}
	if !repoPartRegex.MatchString(owner) {
		return New(ErrCodeInvalidRepo, "invalid owner: %q", owner)
	}
	if !repoPartRegex.MatchString(repo) || strings.Contains(repo, "..") {
		return New(ErrCodeInvalidRepo, "invalid repository: %q", repo)
	}
	return nil
}
