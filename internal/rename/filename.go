package rename

import (
	"regexp"
	"strings"
)

// maxFilenameLength keeps generated names well under filesystem limits.
const maxFilenameLength = 200

var (
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*` + `\x00-\x1f]`)
	multiSpace   = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters invalid on common filesystems while
// preserving non-ASCII scripts, collapses whitespace, trims trailing dots,
// and caps the length.
func SanitizeFilename(name string) string {
	sanitized := invalidChars.ReplaceAllString(name, "")
	sanitized = multiSpace.ReplaceAllString(sanitized, " ")
	sanitized = strings.Trim(sanitized, " .")
	if len(sanitized) > maxFilenameLength {
		sanitized = strings.TrimSpace(truncateBytes(sanitized, maxFilenameLength))
	}
	return sanitized
}

// GenerateFilename builds "Author - Title.pdf", degrading to whichever part
// survived sanitization and finally to "Untitled".
func GenerateFilename(author, title string) string {
	authorClean := SanitizeFilename(author)
	titleClean := SanitizeFilename(title)

	var name string
	switch {
	case authorClean != "" && titleClean != "":
		name = authorClean + " - " + titleClean
	case titleClean != "":
		name = titleClean
	case authorClean != "":
		name = authorClean
	default:
		name = "Untitled"
	}

	if len(name) > maxFilenameLength {
		name = strings.TrimSpace(truncateBytes(name, maxFilenameLength))
	}
	return name + ".pdf"
}

// truncateBytes cuts at a rune boundary at or below n bytes.
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool { return b&0xC0 != 0x80 }
