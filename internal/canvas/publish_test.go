package canvas_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/course-forge/quizforge/internal/assessment"
	"github.com/course-forge/quizforge/internal/canvas"
)

func publishFixture() assessment.Assessment {
	return assessment.Assessment{
		Title: "Unit 1 Quiz",
		Questions: []assessment.Question{
			{Type: assessment.TypeMCQ, Prompt: "Pick B", Points: 1, Choices: []string{"A", "B"}, AnswerIndex: 1},
			{Type: assessment.TypeTrueFalse, Prompt: "False one", Points: 1, AnswerBool: false},
			{Type: assessment.TypeFillBlank, Prompt: "Blank ____", Points: 2, AnswerText: "word"},
			{Type: assessment.TypeShort, Prompt: "Essay prompt"},
		},
	}
}

func TestPublishAssessment(t *testing.T) {
	var quizForm url.Values
	var questionForms []url.Values

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		switch r.URL.Path {
		case "/api/v1/courses/7/quizzes":
			quizForm = r.PostForm
			fmt.Fprint(w, `{"id": 99, "html_url": "https://lms.test/courses/7/quizzes/99"}`)
		case "/api/v1/courses/7/quizzes/99/questions":
			questionForms = append(questionForms, r.PostForm)
			fmt.Fprint(w, `{"id": 1}`)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := canvas.New(srv.URL, "tok")
	url, err := c.PublishAssessment(context.Background(), 7, publishFixture(), assessment.PublishSettings{
		Published: true, ShuffleAnswers: true, TimeLimit: 45, DueAt: "2026-09-01T09:00:00Z",
	})
	if err != nil {
		t.Fatal(err)
	}
	if url != "https://lms.test/courses/7/quizzes/99" {
		t.Fatalf("url: %q", url)
	}

	if quizForm.Get("quiz[title]") != "Unit 1 Quiz" ||
		quizForm.Get("quiz[quiz_type]") != "assignment" ||
		quizForm.Get("quiz[published]") != "true" ||
		quizForm.Get("quiz[shuffle_answers]") != "true" ||
		quizForm.Get("quiz[time_limit]") != "45" ||
		quizForm.Get("quiz[due_at]") != "2026-09-01T09:00:00Z" {
		t.Fatalf("quiz form: %v", quizForm)
	}

	if len(questionForms) != 4 {
		t.Fatalf("want one question call per question, got %d", len(questionForms))
	}

	mcq := questionForms[0]
	if mcq.Get("question[question_type]") != "multiple_choice_question" ||
		mcq.Get("question[answers][0][answer_weight]") != "0" ||
		mcq.Get("question[answers][1][answer_weight]") != "100" ||
		mcq.Get("question[answers][1][answer_text]") != "B" {
		t.Fatalf("mcq form: %v", mcq)
	}

	tf := questionForms[1]
	if tf.Get("question[question_type]") != "true_false_question" ||
		tf.Get("question[answers][0][answer_weight]") != "0" ||
		tf.Get("question[answers][1][answer_weight]") != "100" {
		t.Fatalf("truefalse form: %v", tf)
	}

	fb := questionForms[2]
	if fb.Get("question[question_type]") != "short_answer_question" ||
		fb.Get("question[answers][0][answer_text]") != "word" ||
		fb.Get("question[points_possible]") != "2" {
		t.Fatalf("fillblank form: %v", fb)
	}

	short := questionForms[3]
	if short.Get("question[question_type]") != "essay_question" {
		t.Fatalf("short form: %v", short)
	}
	// zero points falls back to 1 on the wire
	if short.Get("question[points_possible]") != "1" {
		t.Fatalf("points default: %v", short)
	}
}

func TestCreateQuizOmitsUnsetSettings(t *testing.T) {
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.ParseForm()
		form = r.PostForm
		fmt.Fprint(w, `{"id": 5, "html_url": "https://lms.test/q/5"}`)
	}))
	defer srv.Close()

	_, err := canvas.New(srv.URL, "tok").CreateQuiz(context.Background(), 7, "t", assessment.PublishSettings{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := form["quiz[time_limit]"]; ok {
		t.Fatal("unset time limit must not be sent")
	}
	if _, ok := form["quiz[due_at]"]; ok {
		t.Fatal("unset due date must not be sent")
	}
	if form.Get("quiz[published]") != "false" {
		t.Fatalf("published defaults to false explicitly: %v", form)
	}
}

func TestCreateQuizRejectsMissingID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer srv.Close()

	_, err := canvas.New(srv.URL, "tok").CreateQuiz(context.Background(), 7, "t", assessment.PublishSettings{})
	if !errors.Is(err, canvas.ErrBadResponse) {
		t.Fatalf("expected ErrBadResponse, got %v", err)
	}
}

func TestPublishStopsOnQuestionFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/courses/7/quizzes":
			fmt.Fprint(w, `{"id": 99, "html_url": "https://lms.test/q/99"}`)
		default:
			calls++
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `question rejected`)
		}
	}))
	defer srv.Close()

	_, err := canvas.New(srv.URL, "tok").PublishAssessment(context.Background(), 7, publishFixture(), assessment.PublishSettings{})
	var ce *canvas.Error
	if !errors.As(err, &ce) || ce.Status != 400 {
		t.Fatalf("expected the LMS error back, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("publish must stop at the first failed question, got %d calls", calls)
	}
}
