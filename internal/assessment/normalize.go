package assessment

import (
	"regexp"
	"strconv"
	"strings"
)

var spaceRe = regexp.MustCompile(`\s+`)

// fallbackShort is used when a generated question arrives with no prompt.
const fallbackShort = "Explain one key concept from the materials."

// Normalize coerces one raw generated question (a generic JSON object) into a
// valid Question. Anything that cannot be made valid for its claimed type is
// demoted to a short-answer question rather than dropped.
func Normalize(raw map[string]interface{}) Question {
	typ := strings.ToLower(strings.TrimSpace(asString(raw["type"])))
	prompt := spaceRe.ReplaceAllString(strings.TrimSpace(asString(raw["prompt"])), " ")
	points := asPoints(raw["points"])
	if prompt == "" {
		return Question{Type: TypeShort, Prompt: fallbackShort, Points: 1}
	}

	switch typ {
	case TypeMCQ:
		choices := asStringSlice(raw["choices"])
		ans := asAnswerIndex(raw["answer"])
		if len(choices) >= 2 && ans >= 0 && ans < len(choices) {
			return Question{Type: TypeMCQ, Prompt: prompt, Choices: choices, AnswerIndex: ans, Points: points}
		}
	case TypeTrueFalse:
		if b, ok := asBool(raw["answer"]); ok {
			return Question{Type: TypeTrueFalse, Prompt: prompt, AnswerBool: b, Points: points}
		}
	case TypeFillBlank:
		if ans := strings.TrimSpace(asString(raw["answer"])); ans != "" {
			return Question{Type: TypeFillBlank, Prompt: prompt, AnswerText: ans, Points: points}
		}
	}
	return Question{Type: TypeShort, Prompt: prompt, Points: points}
}

// Pack flattens a raw generation result into (title, questions). The payload
// may be {questions:[...]}, {sections:[{questions:[...]}]}, a bare array, or
// a single question object. Duplicate (type, prompt) pairs are dropped.
func Pack(data interface{}, defaultTitle string) (string, []Question) {
	title := defaultTitle
	var pool []interface{}

	switch v := data.(type) {
	case map[string]interface{}:
		if t := strings.TrimSpace(asString(v["title"])); t != "" {
			title = t
		}
		if qs, ok := v["questions"].([]interface{}); ok {
			pool = qs
		} else if secs, ok := v["sections"].([]interface{}); ok {
			for _, s := range secs {
				if sm, ok := s.(map[string]interface{}); ok {
					if qs, ok := sm["questions"].([]interface{}); ok {
						pool = append(pool, qs...)
					}
				}
			}
		} else if _, hasType := v["type"]; hasType {
			if _, hasPrompt := v["prompt"]; hasPrompt {
				pool = []interface{}{v}
			}
		}
	case []interface{}:
		pool = v
	}

	return title, Dedupe(normalizeAll(pool))
}

func normalizeAll(pool []interface{}) []Question {
	out := make([]Question, 0, len(pool))
	for _, item := range pool {
		raw, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, Normalize(raw))
	}
	return out
}

// Dedupe keeps the first question for each (type, prompt) pair, preserving
// order, and drops promptless entries.
func Dedupe(qs []Question) []Question {
	type key struct{ typ, prompt string }
	seen := make(map[key]bool, len(qs))
	out := make([]Question, 0, len(qs))
	for _, q := range qs {
		k := key{q.Type, strings.TrimSpace(q.Prompt)}
		if k.prompt == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, q)
	}
	return out
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asStringSlice(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, e := range arr {
		var s string
		switch x := e.(type) {
		case string:
			s = strings.TrimSpace(x)
		case float64:
			s = strconv.FormatFloat(x, 'f', -1, 64)
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func asPoints(v interface{}) float64 {
	switch x := v.(type) {
	case float64:
		if x > 0 {
			return x
		}
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(x), 64); err == nil && f > 0 {
			return f
		}
	}
	return 1
}

// asAnswerIndex accepts a numeric index or a single answer letter ("B" -> 1).
func asAnswerIndex(v interface{}) int {
	switch x := v.(type) {
	case float64:
		return int(x)
	case string:
		s := strings.TrimSpace(x)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if len(s) == 1 {
			c := strings.ToUpper(s)[0]
			if c >= 'A' && c <= 'Z' {
				return int(c - 'A')
			}
		}
	}
	return -1
}

func asBool(v interface{}) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "t", "1", "yes", "y":
			return true, true
		case "false", "f", "0", "no", "n":
			return false, true
		}
	}
	return false, false
}
