package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

var (
	// ErrOutputParse means the reply held no parseable JSON.
	ErrOutputParse = errors.New("llm output is not valid JSON")
	// ErrOutputShapeMismatch means the reply parsed but has the wrong shape.
	ErrOutputShapeMismatch = errors.New("llm output does not match the expected shape")
)

// shapeMismatch keeps the rejected JSON so callers can salvage parts of it.
type shapeMismatch struct {
	shape  string
	raw    string
	detail string
}

func (e *shapeMismatch) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrOutputShapeMismatch, e.shape, e.detail)
}

func (e *shapeMismatch) Unwrap() error {
	return ErrOutputShapeMismatch
}

// Shape is a JSON schema that an LLM reply must satisfy.
type Shape struct {
	name   string
	schema *gojsonschema.Schema
}

// MustShape compiles schema and panics if it is invalid. Shapes are package
// level values, so a bad schema fails at startup.
func MustShape(name string, schema map[string]interface{}) Shape {
	s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("invalid %s schema: %v", name, err))
	}
	return Shape{name: name, schema: s}
}

// Decode pulls the JSON value out of reply, validates it and unmarshals it
// into target. Errors wrap ErrOutputParse or ErrOutputShapeMismatch.
func (s Shape) Decode(reply string, target interface{}) error {
	raw := extractJSON(reply)

	var doc interface{}
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutputParse, s.name, err)
	}

	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &shapeMismatch{shape: s.name, raw: raw, detail: err.Error()}
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return &shapeMismatch{shape: s.name, raw: raw, detail: strings.Join(errs, "; ")}
	}

	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return &shapeMismatch{shape: s.name, raw: raw, detail: err.Error()}
	}
	return nil
}

// extractJSON strips markdown fences and returns the outermost JSON object
// or array, whichever opens first.
func extractJSON(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	arrayFirst := startArr != -1 && (startObj == -1 || startArr < startObj)

	if arrayFirst && endArr > startArr {
		return text[startArr : endArr+1]
	}
	if startObj != -1 && endObj > startObj {
		return text[startObj : endObj+1]
	}

	return strings.TrimSpace(text)
}

// failureKind labels a chain failure for logs and metrics.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrOutputShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrOutputParse):
		return "parse"
	default:
		return "llm"
	}
}
