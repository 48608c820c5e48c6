// Package assemble reconciles heterogeneous, frequently malformed agent
// fragments into one schema-valid result. It is the single public entry
// point of the reconciliation core: everything upstream collects fragments,
// everything downstream consumes the assembled record.
package assemble

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"resumeforge/internal/normalize"
	"resumeforge/internal/repair"
	"resumeforge/internal/schema"
)

// Status reports how one field survived assembly.
type Status string

const (
	StatusOK      Status = "OK"
	StatusPartial Status = "PARTIAL"
	StatusFailed  Status = "FAILED"
)

// Diagnostic records what happened to one declared field during a run.
type Diagnostic struct {
	Field      string   `json:"field"`
	Original   any      `json:"original_fragment"`
	Repairs    []string `json:"repairs_applied"`
	Status     Status   `json:"status"`
	RetryCount int      `json:"retry_count"`
	ErrMessage string   `json:"error_message,omitempty"`
}

// Assembler drives normalization, validation, and repair across a declared
// set of fields. One Assembler may be reused across runs; it holds no
// per-run state.
type Assembler struct {
	fields []schema.FieldSpec
	norm   normalize.Normalizer
	log    *zap.Logger
}

// New returns an Assembler for the given declared fields.
func New(fields []schema.FieldSpec, log *zap.Logger) *Assembler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Assembler{
		fields: fields,
		norm:   normalize.Normalizer{Logger: log},
		log:    log,
	}
}

// Assemble merges raw fragments into one complete result. It never returns
// an error for any fragment shape: unrecoverable fields fall back to safe
// defaults. The diagnostics list always has exactly one entry per declared
// field, in declaration order, independent of how many fragments arrived.
func (a *Assembler) Assemble(fragments map[string]any) (map[string]any, []Diagnostic) {
	result := make(map[string]any, len(a.fields))
	diagnostics := make([]Diagnostic, 0, len(a.fields))

	for _, spec := range a.fields {
		raw, supplied := fragments[spec.Name]
		diag := Diagnostic{Field: spec.Name, Original: raw, Repairs: []string{}, Status: StatusOK}

		if !supplied {
			// Nothing to repair; default immediately.
			result[spec.Name] = spec.FallbackValue()
			diag.Status = StatusFailed
			diag.Repairs = append(diag.Repairs, "fallback")
			diag.ErrMessage = "no fragment supplied"
			diagnostics = append(diagnostics, diag)
			continue
		}

		value, d := a.assembleField(raw, spec, diag)
		result[spec.Name] = value
		diagnostics = append(diagnostics, d)
	}

	// Every declared field must be present even if the loop above changes.
	for _, spec := range a.fields {
		if _, ok := result[spec.Name]; !ok {
			result[spec.Name] = spec.FallbackValue()
		}
	}

	return result, diagnostics
}

func (a *Assembler) assembleField(raw any, spec schema.FieldSpec, diag Diagnostic) (any, Diagnostic) {
	norm := a.norm.Normalize(raw)
	candidate := envelope(norm, spec)

	err := schema.Validate(candidate.Any(), spec)
	if err == nil {
		diag.Status = StatusOK
		return extract(candidate.Record, spec), diag
	}

	// Quick-accept: the raw candidate already matches the expected
	// primitive/collection kind, just in the wrong envelope.
	// Over-aggressive repair would discard good data here.
	if v, ok := quickAccept(candidate, spec); ok {
		diag.Status = StatusOK
		return v, diag
	}

	repaired, repairs := repair.Repair(candidate, spec)
	diag.Repairs = append(diag.Repairs, repairs...)

	if reErr := schema.Validate(repaired.Any(), spec); reErr == nil {
		diag.Status = StatusPartial
		diag.Repairs = append(diag.Repairs, "coercion")
		return extract(repaired.Record, spec), diag
	}

	a.log.Warn("field failed validation after repair",
		zap.String("field", spec.Name), zap.Error(err))
	diag.Status = StatusFailed
	diag.Repairs = append(diag.Repairs, "fallback")
	diag.ErrMessage = err.Error()
	return spec.FallbackValue(), diag
}

// envelope wraps bare inner values into the expected {field: value} shape.
// Agents frequently return the inner value without the enclosing object,
// including a single record where {field: [record]} was asked for. Null and
// unparseable values pass through so the repair engine sees them directly.
func envelope(norm normalize.Value, spec schema.FieldSpec) normalize.Value {
	switch norm.Kind {
	case normalize.Null, normalize.Unparseable:
		return norm
	case normalize.Record:
		if spec.Shape == schema.ShapeRecord {
			return norm
		}
		if _, ok := norm.Record[spec.Name]; ok {
			return norm
		}
		// A record that is not the envelope: treat it as the inner value.
		return normalize.Value{
			Kind:   normalize.Record,
			Record: map[string]any{spec.Name: norm.Record},
		}
	default:
		return normalize.Value{
			Kind:   normalize.Record,
			Record: map[string]any{spec.Name: norm.Any()},
		}
	}
}

// extract unwraps the {field: value} envelope for list and scalar shapes.
// Map-shaped schemas keep the whole record, with optional sub-fields filled
// from their declared defaults so the output contract is always complete.
func extract(rec map[string]any, spec schema.FieldSpec) any {
	if spec.Shape != schema.ShapeRecord {
		if inner, ok := rec[spec.Name]; ok {
			return inner
		}
		return rec
	}
	out := make(map[string]any, len(spec.Elem))
	for _, sf := range spec.Elem {
		if v, ok := rec[sf.Name]; ok && v != nil {
			out[sf.Name] = v
			continue
		}
		out[sf.Name] = schema.DefaultFor(sf)
	}
	return out
}

func quickAccept(candidate normalize.Value, spec schema.FieldSpec) (any, bool) {
	if candidate.Kind != normalize.Record {
		return nil, false
	}
	inner, ok := candidate.Record[spec.Name]
	if !ok {
		inner = any(candidate.Record)
	}
	switch spec.Shape {
	case schema.ShapeScalar:
		if s, ok := inner.(string); ok && strings.TrimSpace(s) != "" {
			return s, true
		}
	case schema.ShapeList:
		if list, ok := inner.([]any); ok && len(list) > 0 {
			return list, true
		}
	}
	return nil, false
}

// Summarize renders a one-line digest of a diagnostics list, for logs.
func Summarize(diags []Diagnostic) string {
	out := ""
	for i, d := range diags {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%s=%s", d.Field, d.Status)
	}
	return out
}
