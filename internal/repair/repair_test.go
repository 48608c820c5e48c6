package repair

import (
	"reflect"
	"testing"

	"resumeforge/internal/normalize"
	"resumeforge/internal/schema"
)

func specWith(elem ...schema.SubField) schema.FieldSpec {
	return schema.FieldSpec{Name: "f", Shape: schema.ShapeRecord, Elem: elem}
}

func TestRepairNullBuildsDefaults(t *testing.T) {
	spec := specWith(
		schema.SubField{Name: "items", Kind: schema.KindList},
		schema.SubField{Name: "note", Kind: schema.KindString},
	)
	v, repairs := Repair(normalize.Value{Kind: normalize.Null}, spec)
	if v.Kind != normalize.Record {
		t.Fatalf("expected record, got %s", v.Kind)
	}
	if !reflect.DeepEqual(repairs, []string{"coercion: None -> defaults"}) {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
	if _, ok := v.Record["items"].([]any); !ok {
		t.Fatalf("list default missing: %v", v.Record)
	}
	if v.Record["note"] != "" {
		t.Fatalf("string default missing: %v", v.Record)
	}
}

func TestRepairUnparseableBuildsDefaults(t *testing.T) {
	spec := specWith(schema.SubField{Name: "note", Kind: schema.KindString})
	_, repairs := Repair(normalize.Value{Kind: normalize.Unparseable, Text: "{oops"}, spec)
	if len(repairs) != 1 || repairs[0] != "coercion: None -> defaults" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairNonRecordWrapped(t *testing.T) {
	spec := specWith(schema.SubField{Name: "value", Kind: schema.KindAny})
	v, repairs := Repair(normalize.Value{Kind: normalize.Text, Text: "loose"}, spec)
	if v.Record["value"] != "loose" {
		t.Fatalf("expected wrapped value: %v", v.Record)
	}
	if repairs[0] != "coercion: non-dict -> wrapped" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairNullStringToEmpty(t *testing.T) {
	spec := specWith(schema.SubField{Name: "summary", Kind: schema.KindString})
	v, repairs := Repair(normalize.Value{
		Kind:   normalize.Record,
		Record: map[string]any{"summary": nil},
	}, spec)
	if v.Record["summary"] != "" {
		t.Fatalf("null string not coerced: %v", v.Record)
	}
	if repairs[0] != "coercion: summary None -> ''" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairSingleToList(t *testing.T) {
	spec := specWith(schema.SubField{Name: "projects", Kind: schema.KindList})
	single := map[string]any{"name": "one"}
	v, repairs := Repair(normalize.Value{
		Kind:   normalize.Record,
		Record: map[string]any{"projects": single},
	}, spec)
	list, ok := v.Record["projects"].([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("single value not wrapped: %v", v.Record)
	}
	if repairs[0] != "coercion: projects single -> list" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairMissingListToEmpty(t *testing.T) {
	spec := specWith(
		schema.SubField{Name: "skills", Kind: schema.KindList},
		schema.SubField{Name: "extras", Kind: schema.KindList},
	)
	v, repairs := Repair(normalize.Value{
		Kind:   normalize.Record,
		Record: map[string]any{"skills": []any{"Go"}},
	}, spec)
	if list, ok := v.Record["extras"].([]any); !ok || len(list) != 0 {
		t.Fatalf("missing list not defaulted: %v", v.Record)
	}
	if repairs[0] != "coercion: extras missing -> []" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairMissingRecordToEmpty(t *testing.T) {
	spec := specWith(schema.SubField{Name: "details", Kind: schema.KindRecord})
	v, repairs := Repair(normalize.Value{
		Kind:   normalize.Record,
		Record: map[string]any{},
	}, spec)
	if rec, ok := v.Record["details"].(map[string]any); !ok || len(rec) != 0 {
		t.Fatalf("missing record not defaulted: %v", v.Record)
	}
	if repairs[0] != "coercion: details missing -> {}" {
		t.Fatalf("unexpected repairs: %v", repairs)
	}
}

func TestRepairCleanRecordUntouched(t *testing.T) {
	spec := specWith(
		schema.SubField{Name: "skills", Kind: schema.KindList},
		schema.SubField{Name: "note", Kind: schema.KindString},
	)
	v, repairs := Repair(normalize.Value{
		Kind:   normalize.Record,
		Record: map[string]any{"skills": []any{"Go"}, "note": "fine"},
	}, spec)
	if len(repairs) != 0 {
		t.Fatalf("no repairs expected, got %v", repairs)
	}
	if v.Record["note"] != "fine" {
		t.Fatalf("value mutated: %v", v.Record)
	}
}
