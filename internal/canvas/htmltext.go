package canvas

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML reduces an HTML fragment to its text content, joining text nodes
// with single spaces. Script and style bodies are skipped. Invalid markup is
// tolerated; the tokenizer just yields what it can.
func StripHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	var parts []string
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.Join(parts, " ")
		case html.StartTagToken:
			name, _ := z.TagName()
			if isSkipped(string(name)) {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if isSkipped(string(name)) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			if t := strings.TrimSpace(string(z.Text())); t != "" {
				parts = append(parts, strings.Join(strings.Fields(t), " "))
			}
		}
	}
}

func isSkipped(tag string) bool {
	return tag == "script" || tag == "style"
}
