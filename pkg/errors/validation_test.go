package errors

import (
	"strings"
	"testing"
)

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple file", "main.ts", false},
		{"nested", "src/app/page.tsx", false},
		{"dotfile", "src/.eslintrc.json", false},
		{"dots in name", "src/a..b.ts", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 501), true},
		{"absolute", "/src/a.ts", true},
		{"parent segment", "src/../a.ts", true},
		{"current segment", "./src/a.ts", true},
		{"double slash", "src//a.ts", true},
		{"trailing slash", "src/", true},
		{"backslash", "src\\a.ts", true},
		{"null byte", "src/a\x00.ts", true},
		{"newline", "src/a\n.ts", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidPath) {
				t.Errorf("ValidatePath(%q) code = %v, want %v", tt.input, GetCode(err), ErrCodeInvalidPath)
			}
		})
	}
}

func TestValidateFileCount(t *testing.T) {
	if err := ValidateFileCount(100, 100); err != nil {
		t.Errorf("count at limit should pass: %v", err)
	}
	if err := ValidateFileCount(5000, 0); err != nil {
		t.Errorf("zero limit disables the check: %v", err)
	}
	err := ValidateFileCount(101, 100)
	if !Is(err, ErrCodeTooManyFiles) {
		t.Errorf("ValidateFileCount(101, 100) = %v, want %s", err, ErrCodeTooManyFiles)
	}
}

func TestValidateRepo(t *testing.T) {
	tests := []struct {
		name        string
		owner, repo string
		wantErr     bool
	}{
		{"valid", "vercel", "next.js", false},
		{"dashes", "my-org", "my_repo-2", false},
		{"missing owner", "", "repo", true},
		{"missing repo", "owner", "", true},
		{"slash in owner", "own/er", "repo", true},
		{"traversal", "owner", "re..po", true},
		{"leading dot", "owner", ".repo", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRepo(tt.owner, tt.repo)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRepo(%q, %q) error = %v, wantErr %v", tt.owner, tt.repo, err, tt.wantErr)
			}
		})
	}
}
