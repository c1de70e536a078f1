package canvas

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/course-forge/quizforge/internal/assessment"
)

// CreateQuiz creates a classic quiz. Only settings the user explicitly
// enabled are sent; absent fields keep the LMS defaults.
func (c *Client) CreateQuiz(ctx context.Context, courseID int, title string, s assessment.PublishSettings) (QuizInfo, error) {
	form := url.Values{}
	form.Set("quiz[title]", title)
	form.Set("quiz[quiz_type]", "assignment")
	form.Set("quiz[published]", strconv.FormatBool(s.Published))
	form.Set("quiz[shuffle_answers]", strconv.FormatBool(s.ShuffleAnswers))
	if s.TimeLimit > 0 {
		form.Set("quiz[time_limit]", strconv.Itoa(s.TimeLimit))
	}
	if s.DueAt != "" {
		form.Set("quiz[due_at]", s.DueAt)
	}

	var info QuizInfo
	path := fmt.Sprintf("api/v1/courses/%d/quizzes", courseID)
	if err := c.postForm(ctx, path, form, &info); err != nil {
		return QuizInfo{}, err
	}
	if info.ID == 0 {
		return QuizInfo{}, fmt.Errorf("%w: quiz create returned no id", ErrBadResponse)
	}
	return info, nil
}

// CreateQuizQuestion adds one question to a quiz, mapping the assessment
// question types onto the classic quiz question types.
func (c *Client) CreateQuizQuestion(ctx context.Context, courseID, quizID int, q assessment.Question) error {
	form := url.Values{}
	form.Set("question[question_name]", "Question")
	form.Set("question[question_text]", q.Prompt)
	points := q.Points
	if points <= 0 {
		points = 1
	}
	form.Set("question[points_possible]", strconv.FormatFloat(points, 'f', -1, 64))

	switch q.Type {
	case assessment.TypeMCQ:
		form.Set("question[question_type]", "multiple_choice_question")
		for i, choice := range q.Choices {
			weight := "0"
			if i == q.AnswerIndex {
				weight = "100"
			}
			form.Set(fmt.Sprintf("question[answers][%d][answer_text]", i), choice)
			form.Set(fmt.Sprintf("question[answers][%d][answer_weight]", i), weight)
		}
	case assessment.TypeTrueFalse:
		form.Set("question[question_type]", "true_false_question")
		trueWeight, falseWeight := "100", "0"
		if !q.AnswerBool {
			trueWeight, falseWeight = "0", "100"
		}
		form.Set("question[answers][0][answer_text]", "True")
		form.Set("question[answers][0][answer_weight]", trueWeight)
		form.Set("question[answers][1][answer_text]", "False")
		form.Set("question[answers][1][answer_weight]", falseWeight)
	case assessment.TypeFillBlank:
		form.Set("question[question_type]", "short_answer_question")
		if q.AnswerText != "" {
			form.Set("question[answers][0][answer_text]", q.AnswerText)
			form.Set("question[answers][0][answer_weight]", "100")
		}
	default:
		form.Set("question[question_type]", "essay_question")
	}

	path := fmt.Sprintf("api/v1/courses/%d/quizzes/%d/questions", courseID, quizID)
	return c.postForm(ctx, path, form, nil)
}

// PublishAssessment creates the quiz and all of its questions, returning the
// LMS URL of the new quiz.
func (c *Client) PublishAssessment(ctx context.Context, courseID int, a assessment.Assessment, s assessment.PublishSettings) (string, error) {
	info, err := c.CreateQuiz(ctx, courseID, a.Title, s)
	if err != nil {
		return "", err
	}
	for _, q := range a.Questions {
		if err := c.CreateQuizQuestion(ctx, courseID, info.ID, q); err != nil {
			return "", err
		}
	}
	return info.HTMLURL, nil
}
