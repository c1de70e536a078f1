package assessment

import (
	"reflect"
	"testing"
)

func TestNormalizeMCQ(t *testing.T) {
	q := Normalize(map[string]interface{}{
		"type":    "MCQ",
		"prompt":  "  What   is 2+2? ",
		"choices": []interface{}{"3", "4", "5"},
		"answer":  float64(1),
		"points":  float64(2),
	})
	want := Question{Type: TypeMCQ, Prompt: "What is 2+2?", Choices: []string{"3", "4", "5"}, AnswerIndex: 1, Points: 2}
	if !reflect.DeepEqual(q, want) {
		t.Fatalf("got %+v, want %+v", q, want)
	}
}

func TestNormalizeMCQLetterAnswer(t *testing.T) {
	q := Normalize(map[string]interface{}{
		"type":    "mcq",
		"prompt":  "Pick one",
		"choices": []interface{}{"alpha", "beta", "gamma"},
		"answer":  "B",
	})
	if q.Type != TypeMCQ || q.AnswerIndex != 1 {
		t.Fatalf("letter answer should map to index 1, got %+v", q)
	}
}

func TestNormalizeDemotions(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]interface{}
	}{
		{"mcq with one choice", map[string]interface{}{
			"type": "mcq", "prompt": "p", "choices": []interface{}{"only"}, "answer": float64(0),
		}},
		{"mcq answer out of range", map[string]interface{}{
			"type": "mcq", "prompt": "p", "choices": []interface{}{"a", "b"}, "answer": float64(5),
		}},
		{"truefalse with junk answer", map[string]interface{}{
			"type": "truefalse", "prompt": "p", "answer": "maybe",
		}},
		{"fillblank with empty answer", map[string]interface{}{
			"type": "fillblank", "prompt": "p", "answer": "  ",
		}},
		{"unknown type", map[string]interface{}{
			"type": "matching", "prompt": "p",
		}},
	}
	for _, tc := range cases {
		if q := Normalize(tc.raw); q.Type != TypeShort {
			t.Errorf("%s: expected demotion to short, got %q", tc.name, q.Type)
		}
	}
}

func TestNormalizeTrueFalseStringAnswers(t *testing.T) {
	for _, s := range []string{"true", "T", "1", "yes", "Y"} {
		q := Normalize(map[string]interface{}{"type": "truefalse", "prompt": "p", "answer": s})
		if q.Type != TypeTrueFalse || !q.AnswerBool {
			t.Errorf("%q should normalize to true, got %+v", s, q)
		}
	}
	q := Normalize(map[string]interface{}{"type": "truefalse", "prompt": "p", "answer": "no"})
	if q.Type != TypeTrueFalse || q.AnswerBool {
		t.Errorf("'no' should normalize to false, got %+v", q)
	}
}

func TestNormalizeEmptyPrompt(t *testing.T) {
	q := Normalize(map[string]interface{}{"type": "mcq", "prompt": "   "})
	if q.Type != TypeShort || q.Prompt == "" || q.Points != 1 {
		t.Fatalf("empty prompt should yield the canned short question, got %+v", q)
	}
}

func TestPackFlattensSections(t *testing.T) {
	data := map[string]interface{}{
		"title": "Midterm A",
		"sections": []interface{}{
			map[string]interface{}{"questions": []interface{}{
				map[string]interface{}{"type": "short", "prompt": "first"},
			}},
			map[string]interface{}{"questions": []interface{}{
				map[string]interface{}{"type": "short", "prompt": "second"},
			}},
		},
	}
	title, qs := Pack(data, "fallback")
	if title != "Midterm A" {
		t.Fatalf("title: got %q", title)
	}
	if len(qs) != 2 || qs[0].Prompt != "first" || qs[1].Prompt != "second" {
		t.Fatalf("sections should flatten in order: %+v", qs)
	}
}

func TestPackDedupesByTypeAndPrompt(t *testing.T) {
	data := []interface{}{
		map[string]interface{}{"type": "short", "prompt": "same"},
		map[string]interface{}{"type": "short", "prompt": "same"},
		map[string]interface{}{"type": "truefalse", "prompt": "same", "answer": true},
	}
	_, qs := Pack(data, "t")
	if len(qs) != 2 {
		t.Fatalf("expected dedupe to 2 questions, got %d: %+v", len(qs), qs)
	}
}

func TestPackSingleQuestionObject(t *testing.T) {
	data := map[string]interface{}{"type": "short", "prompt": "only one"}
	_, qs := Pack(data, "t")
	if len(qs) != 1 || qs[0].Prompt != "only one" {
		t.Fatalf("bare question object should pack: %+v", qs)
	}
}
