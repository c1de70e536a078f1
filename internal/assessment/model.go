package assessment

import "encoding/json"

// Kind selects one of the two generation workflows. Each kind tracks its own
// live assessment and state, independent of the other.
type Kind string

const (
	KindQuiz    Kind = "quiz"
	KindMidterm Kind = "midterm"
)

func (k Kind) Valid() bool { return k == KindQuiz || k == KindMidterm }

// DefaultTitle is used when generation returns no usable title.
func (k Kind) DefaultTitle() string {
	if k == KindMidterm {
		return "Generated Midterm"
	}
	return "Generated Quiz"
}

// Question types.
const (
	TypeMCQ       = "mcq"
	TypeTrueFalse = "truefalse"
	TypeFillBlank = "fillblank"
	TypeShort     = "short"
)

// Question is a single generated item. Type decides which answer field is
// meaningful: AnswerIndex for mcq (0-based into Choices), AnswerBool for
// truefalse, AnswerText for fillblank (empty = no canonical answer). Short
// questions carry no answer at all.
type Question struct {
	Type    string
	Prompt  string
	Points  float64 // 0 = unset; rendering omits the points line
	Choices []string

	AnswerIndex int
	AnswerBool  bool
	AnswerText  string
}

type questionWire struct {
	Type    string          `json:"type"`
	Prompt  string          `json:"prompt"`
	Points  float64         `json:"points,omitempty"`
	Choices []string        `json:"choices,omitempty"`
	Answer  json.RawMessage `json:"answer,omitempty"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := questionWire{Type: q.Type, Prompt: q.Prompt, Points: q.Points, Choices: q.Choices}
	switch q.Type {
	case TypeMCQ:
		w.Answer, _ = json.Marshal(q.AnswerIndex)
	case TypeTrueFalse:
		w.Answer, _ = json.Marshal(q.AnswerBool)
	case TypeFillBlank:
		if q.AnswerText != "" {
			w.Answer, _ = json.Marshal(q.AnswerText)
		}
	}
	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w questionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*q = Question{Type: w.Type, Prompt: w.Prompt, Points: w.Points, Choices: w.Choices}
	if len(w.Answer) == 0 {
		return nil
	}
	switch w.Type {
	case TypeMCQ:
		// tolerate a float index from generic JSON producers
		var f float64
		if err := json.Unmarshal(w.Answer, &f); err != nil {
			return err
		}
		q.AnswerIndex = int(f)
	case TypeTrueFalse:
		return json.Unmarshal(w.Answer, &q.AnswerBool)
	case TypeFillBlank:
		return json.Unmarshal(w.Answer, &q.AnswerText)
	}
	return nil
}

// Assessment is a generated quiz or midterm: a title plus questions in the
// order generation produced them.
type Assessment struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Clone returns a deep copy, so callers can hand out assessments without
// giving up ownership of the live instance.
func (a Assessment) Clone() Assessment {
	out := Assessment{Title: a.Title, Questions: make([]Question, len(a.Questions))}
	for i, q := range a.Questions {
		cq := q
		if q.Choices != nil {
			cq.Choices = append([]string(nil), q.Choices...)
		}
		out.Questions[i] = cq
	}
	return out
}

// PublishSettings are the quiz options sent to the LMS on publish. Zero
// values are omitted from the outbound payload so the LMS default applies.
type PublishSettings struct {
	Published      bool   `json:"published"`
	ShuffleAnswers bool   `json:"shuffle_answers"`
	TimeLimit      int    `json:"time_limit,omitempty"` // minutes
	DueAt          string `json:"due_at,omitempty"`     // ISO-8601
}
