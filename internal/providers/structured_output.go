package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxStructuredRepairAttempts limits re-asks when a model's JSON fails
// parsing or schema validation.
const maxStructuredRepairAttempts = 2

// labelHitsSchema is the response contract for label detection.
var labelHitsSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"hits": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"x": {"type": "number", "minimum": 0},
					"y": {"type": "number", "minimum": 0},
					"w": {"type": "number", "minimum": 0},
					"h": {"type": "number", "minimum": 0},
					"label_type": {"type": "string", "enum": ["number", "title", "other"]},
					"weight": {"type": "number", "minimum": 0},
					"text": {"type": "string"}
				},
				"required": ["x", "y", "w", "h", "label_type", "weight", "text"],
				"additionalProperties": false
			}
		}
	},
	"required": ["hits"],
	"additionalProperties": false
}`)

// regionTextSchema is the response contract for title-block re-reads.
var regionTextSchema = json.RawMessage(`{
	"type": "object",
	"properties": {
		"number_candidates": {"type": "array", "items": {"type": "string"}},
		"title_candidates": {"type": "array", "items": {"type": "string"}}
	},
	"required": ["number_candidates", "title_candidates"],
	"additionalProperties": false
}`)

// schemaValidator holds a compiled response schema.
type schemaValidator struct {
	raw    json.RawMessage
	schema *jsonschema.Schema
}

func newSchemaValidator(name string, raw json.RawMessage) (*schemaValidator, error) {
	url := name + ".json"
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to load schema %s: %w", name, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", name, err)
	}
	return &schemaValidator{raw: raw, schema: schema}, nil
}

func mustSchemaValidator(name string, raw json.RawMessage) *schemaValidator {
	v, err := newSchemaValidator(name, raw)
	if err != nil {
		panic(err)
	}
	return v
}

var (
	labelHitsValidator  = mustSchemaValidator("label_hits", labelHitsSchema)
	regionTextValidator = mustSchemaValidator("region_text", regionTextSchema)
)

// validate checks parsed JSON against the compiled schema.
func (v *schemaValidator) validate(parsed json.RawMessage) error {
	var doc any
	if err := json.Unmarshal(parsed, &doc); err != nil {
		return fmt.Errorf("failed to decode structured JSON for validation: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("structured output does not match schema: %w", err)
	}
	return nil
}

// schemaObject returns the raw schema decoded for the request body.
func (v *schemaValidator) schemaObject() map[string]any {
	var out map[string]any
	_ = json.Unmarshal(v.raw, &out)
	return out
}

// parseStructuredJSON parses JSON from model output, recovering from
// markdown code fences and surrounding prose.
func parseStructuredJSON(content string) (json.RawMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("empty structured output")
	}

	candidates := []string{content}
	if stripped := stripCodeFences(content); stripped != "" && stripped != content {
		candidates = append(candidates, stripped)
	}
	if extracted := extractJSONObject(content); extracted != "" && extracted != content {
		candidates = append(candidates, extracted)
	}

	for _, candidate := range candidates {
		var parsed any
		if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
			continue
		}
		normalized, err := json.Marshal(parsed)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize structured output: %w", err)
		}
		return normalized, nil
	}
	return nil, fmt.Errorf("failed to parse structured JSON")
}

func stripCodeFences(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return ""
	}

	lines := strings.Split(trimmed, "\n")
	if len(lines) < 2 {
		return ""
	}
	lines = lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractJSONObject returns the outermost {...} span of content.
func extractJSONObject(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start < 0 || end < start {
		return ""
	}
	return strings.TrimSpace(content[start : end+1])
}

func structuredRepairPrompt(schemaRaw json.RawMessage, lastOutput string, issue error) string {
	lastOutput = strings.TrimSpace(lastOutput)
	if len(lastOutput) > 8000 {
		lastOutput = lastOutput[:8000] + "\n...[truncated]"
	}

	return fmt.Sprintf(`Return ONLY valid JSON (no markdown, no commentary) that strictly conforms to this schema.

Schema:
%s

Your previous output:
%s

Validation issue:
%v`, string(schemaRaw), lastOutput, issue)
}
