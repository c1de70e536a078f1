package content

import (
	"regexp"
	"strings"
)

var (
	fileHeaderRe = regexp.MustCompile(`(?m)^#+\s*File:\s*\d+\s*$`)
	bulletRe     = regexp.MustCompile("[•·▪►▶●◦∙♦■□–—*-]+")
	endPunctRe   = regexp.MustCompile(`[.!?]["')\]]*\s*$`)
	startAlnumRe = regexp.MustCompile(`^[a-z0-9]`)
	paragraphRe  = regexp.MustCompile(`\n{2,}`)
	runSpaceRe   = regexp.MustCompile(`[ \t]{2,}`)
	runBreakRe   = regexp.MustCompile(`\n{3,}`)
)

// Cleanup normalizes raw collected text before generation: strips the
// synthetic file headers the collector injects, flattens bullet glyphs,
// re-joins hard-wrapped lines left behind by document extraction while
// preserving paragraph breaks, and collapses runs of whitespace.
func Cleanup(s string) string {
	if s == "" {
		return ""
	}
	t := fileHeaderRe.ReplaceAllString(s, "")
	t = bulletRe.ReplaceAllString(t, " ")
	t = strings.ReplaceAll(t, " ", " ")

	blocks := paragraphRe.Split(t, -1)
	joined := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if strings.TrimSpace(b) == "" {
			continue
		}
		joined = append(joined, strings.TrimSpace(joinWraps(b)))
	}
	t = strings.Join(joined, "\n\n")

	t = runSpaceRe.ReplaceAllString(t, " ")
	t = runBreakRe.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

// joinWraps merges a line into the next one when it does not end a sentence
// and the next line starts with a lowercase letter or digit.
func joinWraps(block string) string {
	lines := strings.Split(block, "\n")
	var b strings.Builder
	for i, ln := range lines {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			b.WriteString("\n")
			continue
		}
		next := ""
		if i+1 < len(lines) {
			next = strings.TrimSpace(lines[i+1])
		}
		if !endPunctRe.MatchString(ln) && next != "" && startAlnumRe.MatchString(next) {
			b.WriteString(ln + " ")
		} else {
			b.WriteString(ln + "\n")
		}
	}
	return runSpaceRe.ReplaceAllString(b.String(), " ")
}
