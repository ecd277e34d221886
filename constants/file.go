package constants

import "strings"

// PDFPatterns holds the case variations used when globbing batch folders.
var PDFPatterns = []string{"*.pdf", "*.PDF", "*.Pdf"}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsPDFExt reports whether a (possibly dotted, mixed-case) extension is PDF.
func IsPDFExt(ext string) bool {
	return NormalizeExt(ext) == "pdf"
}
