// Package schema declares the output contracts that agent fragments are
// validated against, plus the domain records they carry.
//
// A FieldSpec describes one named output field (e.g. "experiences") as the
// enclosing envelope an agent is asked to return: the envelope's sub-fields,
// their kinds, and whether the final value is the unwrapped inner value
// (list / scalar shapes) or the whole envelope record (map shapes).
package schema

// Kind is the declared type of a sub-field value.
type Kind int

const (
	KindAny Kind = iota
	KindString
	KindInt
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "any"
	}
}

// Shape is the target shape of a field's final, extracted value.
type Shape int

const (
	// ShapeList: envelope {field: [...]}; the final value is the list.
	ShapeList Shape = iota
	// ShapeRecord: the envelope itself is the final value (map-shaped schema).
	ShapeRecord
	// ShapeScalar: envelope {field: "..."}; the final value is the string.
	ShapeScalar
)

// SubField declares one envelope sub-field.
type SubField struct {
	Name     string
	Kind     Kind
	Required bool
	Nullable bool
	Default  any

	// Item constrains list elements when Kind == KindList.
	// A nil Item with ItemKind == KindAny accepts any element.
	Item     *RecordSpec
	ItemKind Kind
}

// RecordSpec is an ordered set of sub-field declarations.
type RecordSpec struct {
	Fields []SubField
}

// Field returns the declaration for name, if any.
func (r *RecordSpec) Field(name string) (SubField, bool) {
	if r == nil {
		return SubField{}, false
	}
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return SubField{}, false
}

// FieldSpec describes one named output field of an assembly run.
type FieldSpec struct {
	Name  string
	Shape Shape
	Elem  []SubField
}

// Envelope returns the field's envelope as a RecordSpec.
func (f FieldSpec) Envelope() *RecordSpec {
	return &RecordSpec{Fields: f.Elem}
}

// FallbackValue is the safe default used when a fragment is absent or
// unrepairable: empty list for list fields, empty string for scalar fields,
// and a type-correct default record for map-shaped fields.
func (f FieldSpec) FallbackValue() any {
	switch f.Shape {
	case ShapeList:
		return []any{}
	case ShapeScalar:
		return ""
	case ShapeRecord:
		rec := make(map[string]any, len(f.Elem))
		for _, sf := range f.Elem {
			rec[sf.Name] = DefaultFor(sf)
		}
		return rec
	}
	return nil
}

// DefaultFor returns the minimal default value for a sub-field declaration.
func DefaultFor(sf SubField) any {
	switch sf.Kind {
	case KindList:
		return []any{}
	case KindRecord:
		return map[string]any{}
	case KindString:
		return ""
	default:
		if sf.Default != nil {
			return sf.Default
		}
		return nil
	}
}
