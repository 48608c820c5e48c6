// Package repair applies deterministic, ordered coercions that make a
// normalized fragment compatible with its declared envelope. Each rule is
// toggled on by the data it sees, never by field name. Re-validation after
// repair is the assembler's responsibility.
package repair

import (
	"fmt"

	"resumeforge/internal/normalize"
	"resumeforge/internal/schema"
)

// Repair returns the repaired value and the ordered list of repair tags that
// were applied. It never fails: every rule operates defensively, treating
// missing values as absent.
func Repair(v normalize.Value, spec schema.FieldSpec) (normalize.Value, []string) {
	var repairs []string

	// Null (and unparseable, which normalization resolved to nothing usable)
	// synthesizes a minimal default envelope.
	if v.Kind == normalize.Null || v.Kind == normalize.Unparseable {
		rec := make(map[string]any, len(spec.Elem))
		for _, sf := range spec.Elem {
			rec[sf.Name] = schema.DefaultFor(sf)
		}
		repairs = append(repairs, "coercion: None -> defaults")
		return normalize.Value{Kind: normalize.Record, Record: rec}, repairs
	}

	var rec map[string]any
	if v.Kind != normalize.Record {
		rec = map[string]any{"value": v.Any()}
		repairs = append(repairs, "coercion: non-dict -> wrapped")
	} else {
		rec = make(map[string]any, len(v.Record))
		for k, val := range v.Record {
			rec[k] = val
		}
	}

	// Null values in string sub-fields become empty strings.
	for _, sf := range spec.Elem {
		if sf.Kind != schema.KindString {
			continue
		}
		if val, present := rec[sf.Name]; present && val == nil {
			rec[sf.Name] = ""
			repairs = append(repairs, fmt.Sprintf("coercion: %s None -> ''", sf.Name))
		}
	}

	// Single values in list sub-fields are wrapped as singleton lists.
	for _, sf := range spec.Elem {
		if sf.Kind != schema.KindList {
			continue
		}
		val, present := rec[sf.Name]
		if !present || val == nil {
			continue
		}
		if !isList(val) {
			rec[sf.Name] = []any{val}
			repairs = append(repairs, fmt.Sprintf("coercion: %s single -> list", sf.Name))
		}
	}

	// Missing or null list sub-fields become empty lists.
	for _, sf := range spec.Elem {
		if sf.Kind != schema.KindList {
			continue
		}
		if val, present := rec[sf.Name]; !present || val == nil {
			rec[sf.Name] = []any{}
			repairs = append(repairs, fmt.Sprintf("coercion: %s missing -> []", sf.Name))
		}
	}

	// Missing or null record sub-fields become empty records.
	for _, sf := range spec.Elem {
		if sf.Kind != schema.KindRecord {
			continue
		}
		if val, present := rec[sf.Name]; !present || val == nil {
			rec[sf.Name] = map[string]any{}
			repairs = append(repairs, fmt.Sprintf("coercion: %s missing -> {}", sf.Name))
		}
	}

	return normalize.Value{Kind: normalize.Record, Record: rec}, repairs
}

func isList(v any) bool {
	switch v.(type) {
	case []any, []string, []map[string]any:
		return true
	default:
		return false
	}
}
