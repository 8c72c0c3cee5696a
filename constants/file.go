package constants

import "strings"

// PDFExt and TxtExt are the two halves of a document pair: the scanned
// arrêté and its extracted text layer.
const (
	PDFExt = "pdf"
	TxtExt = "txt"
)

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}
