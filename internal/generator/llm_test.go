package generator

import (
	"reflect"
	"testing"
)

func TestCoerceJSONPlain(t *testing.T) {
	got, err := CoerceJSON(`{"title": "Quiz", "questions": []}`)
	if err != nil {
		t.Fatal(err)
	}
	doc, ok := got.(map[string]interface{})
	if !ok || doc["title"] != "Quiz" {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceJSONCodeFences(t *testing.T) {
	raw := "```json\n{\"title\": \"Fenced\"}\n```"
	got, err := CoerceJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.(map[string]interface{})["title"] != "Fenced" {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceJSONPythonLiterals(t *testing.T) {
	got, err := CoerceJSON(`{"answer": True, "other": False, "missing": None}`)
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]interface{}{"answer": true, "other": false, "missing": nil}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceJSONTrailingCommas(t *testing.T) {
	got, err := CoerceJSON(`{"questions": [1, 2, 3,],}`)
	if err != nil {
		t.Fatal(err)
	}
	qs := got.(map[string]interface{})["questions"].([]interface{})
	if len(qs) != 3 {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceJSONExtractsEmbeddedObject(t *testing.T) {
	raw := "Here is your quiz:\n{\"title\": \"Embedded\"}\nHope that helps!"
	got, err := CoerceJSON(raw)
	if err != nil {
		t.Fatal(err)
	}
	if got.(map[string]interface{})["title"] != "Embedded" {
		t.Fatalf("got %#v", got)
	}
}

func TestCoerceJSONGarbage(t *testing.T) {
	if _, err := CoerceJSON("I could not produce a quiz, sorry."); err == nil {
		t.Fatal("expected an error for non-JSON output")
	}
}
