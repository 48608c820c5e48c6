package normalize

import (
	"encoding/json"
	"testing"
)

func TestNormalizeFencedJSON(t *testing.T) {
	var n Normalizer
	v := n.Normalize("```json\n{\"skills\": [\"Go\"]}\n```")
	if v.Kind != Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
	if _, ok := v.Record["skills"]; !ok {
		t.Fatalf("missing skills key: %v", v.Record)
	}
}

func TestNormalizeBareFence(t *testing.T) {
	var n Normalizer
	v := n.Normalize("```\n{\"a\": 1}\n```")
	if v.Kind != Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
}

func TestNormalizeProseWrappedJSON(t *testing.T) {
	var n Normalizer
	v := n.Normalize("Sure! Here is the JSON you asked for: {\"summary\": \"ok\"} Hope that helps.")
	if v.Kind != Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
	if v.Record["summary"] != "ok" {
		t.Fatalf("unexpected record: %v", v.Record)
	}
}

func TestNormalizePlainTextPreserved(t *testing.T) {
	var n Normalizer
	const text = "A seasoned engineer with a decade of experience."
	v := n.Normalize(text)
	if v.Kind != Text {
		t.Fatalf("expected text, got %s", v.Kind)
	}
	if v.Text != text {
		t.Fatalf("text was altered: %q", v.Text)
	}
}

func TestNormalizeNil(t *testing.T) {
	var n Normalizer
	if v := n.Normalize(nil); v.Kind != Null {
		t.Fatalf("expected null, got %s", v.Kind)
	}
}

func TestNormalizeUnparseable(t *testing.T) {
	var n Normalizer
	v := n.Normalize("{\"broken\": [1, 2")
	if v.Kind != Unparseable {
		t.Fatalf("expected unparseable, got %s", v.Kind)
	}
	if v.Text == "" {
		t.Fatalf("unparseable value should carry the cleaned text")
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	var n Normalizer
	first := n.Normalize("```json\n[1, 2, 3]\n```")
	second := n.Normalize(first)
	if second.Kind != List || len(second.List) != 3 {
		t.Fatalf("re-normalization changed the value: %+v", second)
	}
}

func TestNormalizeTypedStruct(t *testing.T) {
	type payload struct {
		Summary string `json:"summary"`
	}
	var n Normalizer
	v := n.Normalize(payload{Summary: "typed"})
	if v.Kind != Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
	if v.Record["summary"] != "typed" {
		t.Fatalf("unexpected record: %v", v.Record)
	}
}

func TestNormalizeRawMessage(t *testing.T) {
	var n Normalizer
	v := n.Normalize(json.RawMessage(`{"projects": []}`))
	if v.Kind != Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
}

func TestCleanJSONResponseNoJSON(t *testing.T) {
	text, fenced := CleanJSONResponse("just words, no braces")
	if fenced {
		t.Fatalf("no fence expected")
	}
	if text != "just words, no braces" {
		t.Fatalf("plain text should pass through: %q", text)
	}
}
