// Package generator builds an assessment from collected course material,
// model-first with an offline statistical fallback.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/content"
	"github.com/course-forge/quizforge/internal/selection"
)

// ErrNoMaterials means nothing selected yielded any text at all. The message
// is shown to the user as-is.
var ErrNoMaterials = errors.New("No course materials extracted. Select Page/File/Assignment items or tick a module header, then try again.")

const (
	quizSystemPrompt    = "You are an exam writer. Only use the provided text. Output strict JSON {title, questions:[...]}. Use mcq,truefalse,short,fillblank. Each item has 'points'."
	midtermSystemPrompt = "You design midterms strictly from provided text. Output strict JSON {title, questions:[...]}. Include mixed types. Each has 'points'."

	corpusClamp = 20000
	offlineSeed = 42
)

// Generator turns a selection into a generated assessment.
type Generator struct {
	Collector    *content.Collector
	Chat         LLM // nil = offline only
	QuizCount    int // questions per quiz; midterms are fixed-size
	MidtermCount int
}

// Count returns the target question count for a kind. A quiz request may
// override it; midterms ignore the override.
func (g *Generator) Count(kind assessment.Kind, requested int) int {
	if kind == assessment.KindMidterm {
		if g.MidtermCount > 0 {
			return g.MidtermCount
		}
		return 30
	}
	if requested > 0 {
		return requested
	}
	if g.QuizCount > 0 {
		return g.QuizCount
	}
	return 20
}

// Generate collects the selected material and produces an assessment of the
// requested size. Non-fatal collection warnings are returned alongside the
// result; an empty corpus (after the title fallback) is an error.
func (g *Generator) Generate(ctx context.Context, fetch content.Fetcher, baseURL string, courseID int, kind assessment.Kind, req selection.Request, count int) (assessment.Assessment, []string, error) {
	if req.Empty() {
		return assessment.Assessment{}, nil, selection.ErrEmptySelection
	}
	res := g.Collector.Collect(ctx, fetch, baseURL, courseID, req)
	if res.Corpus == "" {
		res.TitleFallback()
	}
	if res.Corpus == "" {
		return assessment.Assessment{}, res.Warnings, ErrNoMaterials
	}

	want := g.Count(kind, count)
	title, questions := g.fromCorpus(ctx, kind, res.Corpus, want)

	questions = assessment.Dedupe(questions)
	if len(questions) > want {
		questions = questions[:want]
	}
	if title == "" {
		title = kind.DefaultTitle()
	}
	return assessment.Assessment{Title: title, Questions: questions}, res.Warnings, nil
}

func (g *Generator) fromCorpus(ctx context.Context, kind assessment.Kind, corpus string, want int) (string, []assessment.Question) {
	if g.Chat != nil {
		system := quizSystemPrompt
		if kind == assessment.KindMidterm {
			system = midtermSystemPrompt
		}
		clamped := corpus
		if len(clamped) > corpusClamp {
			clamped = clamped[:corpusClamp]
		}
		user := fmt.Sprintf("Create exactly %d questions grounded ONLY in this text:\n\"\"\"%s\"\"\"", want, clamped)

		data, err := g.Chat.ChatJSON(ctx, system, user)
		if err == nil {
			title, questions := assessment.Pack(data, kind.DefaultTitle())
			if len(questions) < want {
				questions = append(questions, OfflineGenerate(corpus, want-len(questions), offlineSeed)...)
			}
			return title, questions
		}
		log.Printf("llm generation failed, using offline generator: %v", err)
	}
	return kind.DefaultTitle(), OfflineGenerate(corpus, want, offlineSeed)
}
