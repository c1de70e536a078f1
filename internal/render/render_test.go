package render_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/render"
)

func fixture() assessment.Assessment {
	return assessment.Assessment{
		Title: "Unit 1 Quiz",
		Questions: []assessment.Question{
			{Type: assessment.TypeMCQ, Prompt: "Pick the verb", Points: 1, Choices: []string{"tree", "run", "blue"}, AnswerIndex: 1},
			{Type: assessment.TypeTrueFalse, Prompt: "Water is dry", Points: 1, AnswerBool: false},
			{Type: assessment.TypeFillBlank, Prompt: "A ____ has four legs", Points: 2, AnswerText: "table"},
			{Type: assessment.TypeShort, Prompt: "Explain the main idea"},
		},
	}
}

func TestRenderEmptyState(t *testing.T) {
	for _, a := range []*assessment.Assessment{nil, {}} {
		p := render.Render(assessment.KindQuiz, a)
		if !p.Empty || p.Count != 0 || len(p.Cards) != 0 {
			t.Fatalf("expected empty preview, got %+v", p)
		}
	}
}

func TestRenderCards(t *testing.T) {
	a := fixture()
	p := render.Render(assessment.KindMidterm, &a)
	if p.Empty || p.Kind != assessment.KindMidterm || p.Title != "Unit 1 Quiz" || p.Count != 4 {
		t.Fatalf("header wrong: %+v", p)
	}

	// numbering is 1-based and zero padded
	if p.Cards[0].Number != "01" || p.Cards[3].Number != "04" {
		t.Fatalf("numbering: %q %q", p.Cards[0].Number, p.Cards[3].Number)
	}

	mcq := p.Cards[0]
	want := []render.Choice{{Text: "tree"}, {Text: "run", Correct: true}, {Text: "blue"}}
	if !reflect.DeepEqual(mcq.Choices, want) {
		t.Fatalf("exactly the answer-index choice is marked: %+v", mcq.Choices)
	}
	if mcq.Answer != "" {
		t.Fatal("mcq marks its choices instead of an answer line")
	}

	if p.Cards[1].Answer != "False" {
		t.Fatalf("truefalse false must still render an answer, got %q", p.Cards[1].Answer)
	}
	if p.Cards[2].Answer != "table" || p.Cards[2].Points != "2" {
		t.Fatalf("fillblank card: %+v", p.Cards[2])
	}
	if p.Cards[3].Answer != "" || p.Cards[3].Points != "" {
		t.Fatalf("short card carries no answer and zero points is omitted: %+v", p.Cards[3])
	}
}

func TestCorrectMarkFollowsAnswerIndex(t *testing.T) {
	a := fixture()
	a.Questions[0].AnswerIndex = 2
	p := render.Render(assessment.KindQuiz, &a)
	for i, ch := range p.Cards[0].Choices {
		if ch.Correct != (i == 2) {
			t.Fatalf("mark did not move with the answer index: %+v", p.Cards[0].Choices)
		}
	}
}

func TestRenderFillBlankWithoutAnswer(t *testing.T) {
	a := assessment.Assessment{Title: "t", Questions: []assessment.Question{
		{Type: assessment.TypeFillBlank, Prompt: "____ here", Points: 1},
	}}
	p := render.Render(assessment.KindQuiz, &a)
	if p.Cards[0].Answer != "" {
		t.Fatalf("no canonical answer means no answer line, got %q", p.Cards[0].Answer)
	}
}

func TestRenderDoesNotMutate(t *testing.T) {
	a := fixture()
	before := a.Clone()
	_ = render.Render(assessment.KindQuiz, &a)
	if !reflect.DeepEqual(a, before) {
		t.Fatal("render mutated the assessment")
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	a := fixture()
	p1 := render.Render(assessment.KindQuiz, &a)
	p2 := render.Render(assessment.KindQuiz, &a)
	if !reflect.DeepEqual(p1, p2) {
		t.Fatal("same input must render the same preview")
	}
}

func TestPreviewText(t *testing.T) {
	a := fixture()
	got := render.Render(assessment.KindQuiz, &a).Text()
	for _, s := range []string{
		"Unit 1 Quiz (4 questions)",
		"01. (1 pt) Pick the verb",
		"[x] run",
		"[ ] tree",
		"Answer: False",
		"04. Explain the main idea",
	} {
		if !strings.Contains(got, s) {
			t.Errorf("text preview missing %q:\n%s", s, got)
		}
	}

	empty := render.Preview{Empty: true}
	if empty.Text() != "Nothing generated yet.\n" {
		t.Fatalf("empty text: %q", empty.Text())
	}
}
