package canvas

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ExtractFileText decodes downloaded file bytes into plain text, keyed on
// the filename extension. Formats without a text path (pdf, docx, pptx and
// other binaries) come back empty with a warning so the caller can tell the
// user which sources contributed nothing.
func ExtractFileText(fileID int, filename string, data []byte) (text, warning string, err error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt", ".md", ".csv", ".tsv":
		return decodeUTF8(data), "", nil
	case ".html", ".htm":
		return StripHTML(string(data)), "", nil
	case ".pdf", ".docx", ".pptx", ".doc", ".ppt", ".xls", ".xlsx", ".zip",
		".png", ".jpg", ".jpeg", ".gif", ".mp3", ".mp4":
		return "", fmt.Sprintf("File %d (%s): no text extractor for %s", fileID, filename, ext), nil
	}
	// Unknown extension: accept it only if it actually looks like text.
	if s := decodeUTF8(data); looksTextual(s) {
		return s, "", nil
	}
	return "", fmt.Sprintf("File %d (%s): binary content skipped", fileID, filename), nil
}

func decodeUTF8(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func looksTextual(s string) bool {
	if s == "" {
		return false
	}
	printable := 0
	total := 0
	for _, r := range s {
		total++
		if r == '\n' || r == '\r' || r == '\t' || (r >= 0x20 && r != utf8.RuneError) {
			printable++
		}
	}
	return total > 0 && printable*10 >= total*9
}
