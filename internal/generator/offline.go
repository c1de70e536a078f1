package generator

import (
	"fmt"
	"math/rand"
	"regexp"
	"sort"
	"strings"

	"github.com/course-forge/quizforge/internal/assessment"
)

// Offline question generation: no model, just keyword statistics over the
// corpus. Used when no LLM is configured, when the model call fails, and to
// top up an under-delivered batch.

var stopwords = toSet(`a an the and or but if then else for to in on at of by with from into over under through as is are was were be been being this that these those it its it's
you your yours we us our they them their i me my mine he she his her hers which who whom whose what when where why how not no yes true false very more most`)

var (
	wordRe      = regexp.MustCompile(`[A-Za-z][A-Za-z\-']{2,}`)
	capWordRe   = regexp.MustCompile(`\b[A-Z][a-zA-Z]{2,}\b`)
	sentEndRe   = regexp.MustCompile(`[.!?]\s`)
	wsRe        = regexp.MustCompile(`\s+`)
	fillerShort = "Name one concrete fact from the materials and why it matters."
)

// OfflineGenerate produces up to n questions from the corpus with a fixed
// mix of types. Output is deterministic for a given (corpus, n, seed).
func OfflineGenerate(corpus string, n int, seed int64) []assessment.Question {
	rng := rand.New(rand.NewSource(seed))
	sents := sentences(corpus)
	if len(sents) > 200 {
		sents = sents[:200]
	}
	vocab := keywords(corpus, 80)

	wantMCQ := max(4, n*45/100)
	wantTF := max(3, n*25/100)
	wantFB := max(3, n*20/100)
	wantShort := max(2, n-(wantMCQ+wantTF+wantFB))

	var out []assessment.Question
	out = append(out, offlineMCQ(sents, vocab, wantMCQ, rng)...)
	out = append(out, offlineTrueFalse(sents, wantTF, rng)...)
	out = append(out, offlineFillBlank(sents, wantFB, rng)...)
	out = append(out, offlineShort(vocab, wantShort)...)

	out = assessment.Dedupe(out)
	for len(out) < n {
		before := len(out)
		out = append(out, assessment.Question{Type: assessment.TypeShort, Prompt: fillerShort, Points: 1})
		out = assessment.Dedupe(out)
		if len(out) == before {
			// filler deduped away; nothing more to add
			break
		}
	}
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// offlineMCQ blanks a salient keyword out of a sentence and offers the
// keyword among shuffled distractors.
func offlineMCQ(sents, vocab []string, want int, rng *rand.Rand) []assessment.Question {
	top := vocab
	if len(top) > 50 {
		top = top[:50]
	}
	var candidates []string
	for _, s := range sents {
		low := strings.ToLower(s)
		for _, k := range top {
			if strings.Contains(low, k) {
				candidates = append(candidates, s)
				break
			}
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	var out []assessment.Question
	for _, s := range candidates {
		toks := wordRe.FindAllString(s, -1)
		target := ""
		for _, k := range vocab {
			for _, t := range toks {
				if strings.ToLower(t) == k && len(k) > 3 {
					target = t
					break
				}
			}
			if target != "" {
				break
			}
		}
		if target == "" {
			continue
		}
		blankRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(target) + `\b`)
		stem := blankRe.ReplaceAllString(s, "____")
		choices := append([]string{target}, pickDistractors(target, vocab, 3, rng)...)
		rng.Shuffle(len(choices), func(i, j int) { choices[i], choices[j] = choices[j], choices[i] })
		answer := 0
		for i, c := range choices {
			if c == target {
				answer = i
				break
			}
		}
		out = append(out, assessment.Question{
			Type: assessment.TypeMCQ, Prompt: stem, Choices: choices, AnswerIndex: answer, Points: 1,
		})
		if len(out) >= want {
			break
		}
	}
	return out
}

var negations = []struct{ pat, rep string }{
	{`\bis\b`, "is not"},
	{`\bare\b`, "are not"},
	{`\bcan\b`, "cannot"},
	{`\bwill\b`, "will not"},
	{`\bdoes\b`, "does not"},
	{`\bdo\b`, "do not"},
}

// offlineTrueFalse takes short declaratives verbatim and negates roughly a
// third of them.
func offlineTrueFalse(sents []string, want int, rng *rand.Rand) []assessment.Question {
	var candidates []string
	for _, s := range sents {
		if len(strings.Fields(s)) <= 30 {
			candidates = append(candidates, s)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	var out []assessment.Question
	for i, s := range candidates {
		prompt, answer := s, true
		if i%3 == 0 {
			for _, n := range negations {
				re := regexp.MustCompile(`(?i)` + n.pat)
				if re.MatchString(prompt) {
					prompt = re.ReplaceAllString(prompt, n.rep)
					answer = false
					break
				}
			}
		}
		out = append(out, assessment.Question{
			Type: assessment.TypeTrueFalse, Prompt: prompt, AnswerBool: answer, Points: 1,
		})
		if len(out) >= want {
			break
		}
	}
	return out
}

// offlineFillBlank blanks a mid-sentence non-stopword token.
func offlineFillBlank(sents []string, want int, rng *rand.Rand) []assessment.Question {
	var candidates []string
	for _, s := range sents {
		if n := len(strings.Fields(s)); n >= 8 && n <= 30 {
			candidates = append(candidates, s)
		}
	}
	rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

	var out []assessment.Question
	for _, s := range candidates {
		toks := wordRe.FindAllString(s, -1)
		if len(toks) < 5 {
			continue
		}
		var idxs []int
		for i := 1; i < len(toks)-1; i++ {
			if !stopwords[strings.ToLower(toks[i])] && len(toks[i]) > 3 {
				idxs = append(idxs, i)
			}
		}
		if len(idxs) == 0 {
			continue
		}
		idx := idxs[rng.Intn(len(idxs))]
		answer := toks[idx]
		stem := strings.Join(append(append(append([]string{}, toks[:idx]...), "____"), toks[idx+1:]...), " ")
		out = append(out, assessment.Question{
			Type: assessment.TypeFillBlank, Prompt: stem, AnswerText: answer, Points: 1,
		})
		if len(out) >= want {
			break
		}
	}
	return out
}

func offlineShort(vocab []string, want int) []assessment.Question {
	var out []assessment.Question
	for _, kw := range vocab {
		out = append(out, assessment.Question{
			Type:   assessment.TypeShort,
			Prompt: fmt.Sprintf("In 1-2 sentences, explain '%s' in the context of the materials.", kw),
			Points: 1,
		})
		if len(out) >= want {
			break
		}
	}
	return out
}

// keywords ranks corpus tokens by frequency, boosting words that also
// appear capitalized (likely proper nouns). Ties break alphabetically so the
// ranking is stable.
func keywords(text string, k int) []string {
	counts := map[string]int{}
	for _, w := range wordRe.FindAllString(text, -1) {
		lw := strings.ToLower(w)
		if stopwords[lw] || len(lw) <= 3 {
			continue
		}
		counts[lw]++
	}
	for _, c := range capWordRe.FindAllString(text, -1) {
		lc := strings.ToLower(c)
		if _, ok := counts[lc]; ok {
			counts[lc] += 2
		}
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > k {
		words = words[:k]
	}
	return words
}

// sentences splits on sentence-ending punctuation followed by whitespace and
// keeps only sentences of at least 5 words.
func sentences(text string) []string {
	var parts []string
	rest := text
	for {
		loc := sentEndRe.FindStringIndex(rest)
		if loc == nil {
			parts = append(parts, rest)
			break
		}
		parts = append(parts, rest[:loc[0]+1])
		rest = rest[loc[1]:]
	}
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(wsRe.ReplaceAllString(p, " "))
		if len(strings.Fields(p)) >= 5 {
			out = append(out, p)
		}
	}
	return out
}

func pickDistractors(answer string, vocab []string, n int, rng *rand.Rand) []string {
	pool := make([]string, 0, len(vocab))
	low := strings.ToLower(answer)
	for _, w := range vocab {
		if w != low {
			pool = append(pool, w)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	var out []string
	for _, w := range pool {
		out = append(out, w)
		if len(out) >= n {
			break
		}
	}
	// pad from answer morphology when the vocabulary is too small
	for len(out) < n {
		stem := answer[:max(3, len(answer)/2)]
		for _, suffix := range []string{"ing", "ness", "ity"} {
			if len(out) < n {
				out = append(out, stem+suffix)
			}
		}
	}
	return out[:n]
}

func toSet(words string) map[string]bool {
	out := map[string]bool{}
	for _, w := range strings.Fields(words) {
		out[w] = true
	}
	return out
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
