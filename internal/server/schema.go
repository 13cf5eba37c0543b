package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const executeRequestSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"properties": {
		"env_vars": {
			"type": ["object", "null"],
			"additionalProperties": {"type": "string"}
		},
		"args": {
			"type": ["array", "null"],
			"items": {"type": "string"}
		}
	}
}`

var executeSchema = gojsonschema.NewStringLoader(executeRequestSchema)

// executeRequest is the body of POST /execute/{name}. Both fields are optional.
type executeRequest struct {
	EnvVars map[string]string `json:"env_vars"`
	Args    []string          `json:"args"`
}

// decodeExecuteRequest checks body against the request schema and decodes it.
// An empty body is the zero request.
func decodeExecuteRequest(body []byte) (executeRequest, error) {
	var req executeRequest
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	result, err := gojsonschema.Validate(executeSchema, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return req, fmt.Errorf("invalid request body: %s", strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("invalid request body: %w", err)
	}
	return req, nil
}
