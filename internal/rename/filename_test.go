package rename

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"invalid characters stripped", `Report<1>: "draft"/final?`, "Report1 draftfinal"},
		{"whitespace collapsed", "Too   many\t spaces", "Too many spaces"},
		{"trailing dots trimmed", "archive...", "archive"},
		{"leading and trailing spaces trimmed", "  padded  ", "padded"},
		{"utf-8 preserved", "Åsa Öberg – rapport", "Åsa Öberg – rapport"},
		{"empty stays empty", "", ""},
		{"backslashes and pipes removed", `a\b|c`, "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SanitizeFilename(tt.input))
		})
	}
}

func TestSanitizeFilenameCapsLength(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 500)
	got := SanitizeFilename(long)
	assert.LessOrEqual(t, len(got), maxFilenameLength)
	assert.NotEmpty(t, got)
}

func TestGenerateFilename(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		author string
		title  string
		want   string
	}{
		{"author and title", "Jane Doe", "A Study of Things", "Jane Doe - A Study of Things.pdf"},
		{"title only", "", "Solo Title", "Solo Title.pdf"},
		{"author only", "Solo Author", "", "Solo Author.pdf"},
		{"neither survives sanitization", "???", `<>:"`, "Untitled.pdf"},
		{"components sanitized", `Jane/Doe`, `Draft: Final?`, "JaneDoe - Draft Final.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, GenerateFilename(tt.author, tt.title))
		})
	}
}

func TestGenerateFilenameCapsLength(t *testing.T) {
	t.Parallel()

	got := GenerateFilename(strings.Repeat("A", 300), strings.Repeat("B", 300))
	assert.True(t, strings.HasSuffix(got, ".pdf"))
	assert.LessOrEqual(t, len(got), maxFilenameLength+len(".pdf"))
}
