package service

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const jobListSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "status", "agent"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "status": {"type": "string", "enum": ["pending", "running", "completed", "failed", "cancelled"]},
      "agent": {"type": "string", "minLength": 1}
    }
  }
}`

const taskListSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "status", "type"],
    "properties": {
      "id": {"type": "string", "minLength": 1},
      "status": {"type": "string", "enum": ["OPEN", "IN_PROGRESS", "BLOCKED", "CLOSED"]},
      "type": {"type": "string"},
      "building_type": {"type": "string"}
    }
  }
}`

var (
	jobListSchema  = mustCompile("jobs.schema.json", jobListSchemaJSON)
	taskListSchema = mustCompile("tasks.schema.json", taskListSchemaJSON)
)

func mustCompile(name, src string) *jsonschema.Schema {
	s, err := jsonschema.CompileString(name, src)
	if err != nil {
		panic(fmt.Sprintf("compile %s: %v", name, err))
	}
	return s
}

// validateAndDecode checks raw JSON against a schema, then decodes into out.
// Number handling goes through json.Decoder so the schema sees the same
// document shape the decode does.
func validateAndDecode(schema *jsonschema.Schema, raw []byte, out any) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("payload failed schema validation: %w", err)
	}
	return json.Unmarshal(raw, out)
}
