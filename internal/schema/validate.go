package schema

import (
	"fmt"
)

// Validate checks a normalized envelope record against a FieldSpec.
// The value must already be structural (map[string]any); callers wrap bare
// inner values into the envelope before validating.
//
// Validation is deterministic and side-effect free. The first violation found
// (in declared sub-field order) is returned.
func Validate(value any, spec FieldSpec) error {
	rec, ok := value.(map[string]any)
	if !ok {
		return fmt.Errorf("%s: expected record envelope, got %T", spec.Name, value)
	}
	return validateRecord(rec, spec.Envelope(), spec.Name)
}

func validateRecord(rec map[string]any, rs *RecordSpec, path string) error {
	for _, sf := range rs.Fields {
		v, present := rec[sf.Name]
		fieldPath := path + "." + sf.Name
		if !present || v == nil {
			if sf.Required && !sf.Nullable {
				return fmt.Errorf("%s: required field missing", fieldPath)
			}
			continue
		}
		if err := validateValue(v, sf, fieldPath); err != nil {
			return err
		}
	}
	return nil
}

func validateValue(v any, sf SubField, path string) error {
	switch sf.Kind {
	case KindAny:
		return nil
	case KindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("%s: expected string, got %T", path, v)
		}
	case KindInt:
		switch v.(type) {
		case int, int32, int64, float64, float32:
		default:
			return fmt.Errorf("%s: expected number, got %T", path, v)
		}
	case KindRecord:
		rec, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("%s: expected record, got %T", path, v)
		}
		if sf.Item != nil {
			return validateRecord(rec, sf.Item, path)
		}
	case KindList:
		list, ok := toList(v)
		if !ok {
			return fmt.Errorf("%s: expected list, got %T", path, v)
		}
		for i, el := range list {
			elPath := fmt.Sprintf("%s[%d]", path, i)
			if sf.Item != nil {
				rec, ok := el.(map[string]any)
				if !ok {
					return fmt.Errorf("%s: expected record element, got %T", elPath, el)
				}
				if err := validateRecord(rec, sf.Item, elPath); err != nil {
					return err
				}
				continue
			}
			if sf.ItemKind != KindAny {
				if err := validateValue(el, SubField{Name: sf.Name, Kind: sf.ItemKind}, elPath); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func toList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []string:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i := range x {
			out[i] = x[i]
		}
		return out, true
	default:
		return nil, false
	}
}
