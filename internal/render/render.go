// Package render projects an assessment into a preview structure. Rendering
// is pure: the same assessment always yields the same preview and the model
// is never mutated.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/course-forge/quizforge/internal/assessment"
)

// Choice is one mcq option. Exactly one choice per mcq card is Correct.
type Choice struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Card is one rendered question. Answer is the answer line, already
// formatted; empty means the line is omitted (short questions, fillblank
// with no canonical answer, mcq which marks its choices instead).
type Card struct {
	Number  string   `json:"number"` // 1-based, zero-padded to 2 digits
	Type    string   `json:"type"`
	Prompt  string   `json:"prompt"`
	Points  string   `json:"points,omitempty"`
	Choices []Choice `json:"choices,omitempty"`
	Answer  string   `json:"answer,omitempty"`
}

// Preview is the rendered form of one kind's live assessment.
type Preview struct {
	Kind  assessment.Kind `json:"kind"`
	Empty bool            `json:"empty"`
	Title string          `json:"title,omitempty"`
	Count int             `json:"count"`
	Cards []Card          `json:"cards,omitempty"`
}

// Render builds the preview for an assessment. A nil or untitled assessment
// renders as the explicit empty state.
func Render(kind assessment.Kind, a *assessment.Assessment) Preview {
	if a == nil || a.Title == "" {
		return Preview{Kind: kind, Empty: true}
	}
	p := Preview{
		Kind:  kind,
		Title: a.Title,
		Count: len(a.Questions),
		Cards: make([]Card, 0, len(a.Questions)),
	}
	for i, q := range a.Questions {
		p.Cards = append(p.Cards, renderCard(i+1, q))
	}
	return p
}

func renderCard(n int, q assessment.Question) Card {
	c := Card{
		Number: fmt.Sprintf("%02d", n),
		Type:   q.Type,
		Prompt: q.Prompt,
	}
	if q.Points > 0 {
		c.Points = strconv.FormatFloat(q.Points, 'f', -1, 64)
	}
	switch q.Type {
	case assessment.TypeMCQ:
		c.Choices = make([]Choice, len(q.Choices))
		for i, text := range q.Choices {
			c.Choices[i] = Choice{Text: text, Correct: i == q.AnswerIndex}
		}
	case assessment.TypeTrueFalse:
		if q.AnswerBool {
			c.Answer = "True"
		} else {
			c.Answer = "False"
		}
	case assessment.TypeFillBlank:
		c.Answer = q.AnswerText // empty omits the line
	}
	return c
}

// Text flattens a preview into plain text, one card per block.
func (p Preview) Text() string {
	if p.Empty {
		return "Nothing generated yet.\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d questions)\n", p.Title, p.Count)
	for _, c := range p.Cards {
		b.WriteString("\n")
		if c.Points != "" {
			fmt.Fprintf(&b, "%s. (%s pt) %s\n", c.Number, c.Points, c.Prompt)
		} else {
			fmt.Fprintf(&b, "%s. %s\n", c.Number, c.Prompt)
		}
		for _, ch := range c.Choices {
			mark := " "
			if ch.Correct {
				mark = "x"
			}
			fmt.Fprintf(&b, "    [%s] %s\n", mark, ch.Text)
		}
		if c.Answer != "" {
			fmt.Fprintf(&b, "    Answer: %s\n", c.Answer)
		}
	}
	return b.String()
}
