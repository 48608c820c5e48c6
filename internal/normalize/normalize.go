// Package normalize turns one raw, untrusted agent output into a candidate
// value from a closed variant set. Downstream consumers match on the variant
// kind instead of re-sniffing types.
package normalize

import (
	"encoding/json"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"resumeforge/internal/util/jsonutil"
)

// Kind identifies the variant a normalized value carries.
type Kind int

const (
	// Null: the fragment was nil or absent.
	Null Kind = iota
	// Text: a plain string that does not look JSON-shaped (legitimate
	// free-text fields such as a one-line summary).
	Text
	// Record: a parsed JSON object.
	Record
	// List: a parsed JSON array.
	List
	// Unparseable: the fragment looked JSON-shaped but failed to parse.
	Unparseable
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Text:
		return "text"
	case Record:
		return "record"
	case List:
		return "list"
	default:
		return "unparseable"
	}
}

// Value is the normalized form of one fragment.
type Value struct {
	Kind   Kind
	Text   string
	Record map[string]any
	List   []any
}

// Any returns the plain-data representation of the value.
func (v Value) Any() any {
	switch v.Kind {
	case Text, Unparseable:
		return v.Text
	case Record:
		return v.Record
	case List:
		return v.List
	default:
		return nil
	}
}

// Dumper is implemented by typed agent outputs that can dump themselves to
// plain data, bypassing all string handling.
type Dumper interface {
	Dump() any
}

// Normalizer cleans raw fragments. The zero value is usable; Logger defaults
// to a no-op logger.
type Normalizer struct {
	Logger *zap.Logger
}

// Normalize never panics and never returns an error: the worst outcome is an
// Unparseable value carrying the cleaned text.
func (n Normalizer) Normalize(raw any) Value {
	log := n.Logger
	if log == nil {
		log = zap.NewNop()
	}

	switch x := raw.(type) {
	case nil:
		return Value{Kind: Null}
	case Value:
		// Already normalized; idempotent.
		return x
	case Dumper:
		return structural(x.Dump())
	case map[string]any:
		return Value{Kind: Record, Record: x}
	case []any:
		return Value{Kind: List, List: x}
	case json.RawMessage:
		return n.normalizeString(string(x), log)
	case []byte:
		return n.normalizeString(string(x), log)
	case string:
		return n.normalizeString(x, log)
	}

	// Typed structs and slices are dumped through a JSON round trip, the
	// closest plain-data capability Go offers for arbitrary values.
	rv := reflect.ValueOf(raw)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return Value{Kind: Null}
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Struct, reflect.Map, reflect.Slice, reflect.Array:
		if b, err := json.Marshal(raw); err == nil {
			var plain any
			if err := json.Unmarshal(b, &plain); err == nil {
				return structural(plain)
			}
		}
	}

	// Remaining scalars (numbers, bools) pass through as text.
	b, err := json.Marshal(raw)
	if err != nil {
		return Value{Kind: Null}
	}
	return Value{Kind: Text, Text: string(b)}
}

func (n Normalizer) normalizeString(raw string, log *zap.Logger) Value {
	cleaned, fenced := CleanJSONResponse(raw)
	trimmed := strings.TrimSpace(cleaned)
	if trimmed == "" {
		return Value{Kind: Null}
	}

	jsonShaped := strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || fenced
	if !jsonShaped {
		// Plain text: preserved verbatim so free-text fields survive.
		return Value{Kind: Text, Text: raw}
	}

	var parsed any
	if err := jsonutil.UnmarshalFlex([]byte(trimmed), &parsed); err != nil {
		log.Warn("failed to parse JSON fragment", zap.Error(err), zap.String("text", clip(trimmed, 200)))
		return Value{Kind: Unparseable, Text: trimmed}
	}
	return structural(parsed)
}

func structural(v any) Value {
	switch x := v.(type) {
	case nil:
		return Value{Kind: Null}
	case map[string]any:
		return Value{Kind: Record, Record: x}
	case []any:
		return Value{Kind: List, List: x}
	case string:
		return Value{Kind: Text, Text: x}
	default:
		b, _ := json.Marshal(x)
		return Value{Kind: Text, Text: string(b)}
	}
}

// CleanJSONResponse strips markdown code fences and, when the text does not
// start with '{', slices the span between the first '{' and last '}' to
// recover JSON wrapped in prose. Returns the cleaned text and whether a
// fence was present.
func CleanJSONResponse(raw string) (string, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return text, false
	}

	fenced := false
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
		fenced = true
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
		fenced = true
	}
	if idx := strings.LastIndex(text, "```"); fenced && idx >= 0 {
		text = text[:idx]
	} else if strings.HasSuffix(text, "```") {
		text = strings.TrimSuffix(text, "```")
	}
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "[") {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start != -1 && end != -1 && end > start {
			text = text[start : end+1]
		}
	}
	return text, fenced
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
