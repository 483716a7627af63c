package runner

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-json-experiment/json"
	"github.com/xeipuuv/gojsonschema"
)

var errNoResult = errors.New("no scanner result returned")

// workerResponseSchema is the contract for the worker's stdout document
const workerResponseSchema = `{
	"type": "object",
	"properties": {
		"records": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["campground", "source", "unit_name", "status", "details"],
				"properties": {
					"campground": {"type": "string"},
					"source": {"type": "string"},
					"unit_name": {"type": "string"},
					"status": {"type": "string"},
					"details": {"type": "string"}
				}
			}
		},
		"error": {"type": "string"}
	},
	"anyOf": [{"required": ["records"]}, {"required": ["error"]}]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *gojsonschema.Schema
	schemaErr      error
)

func responseSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewStringLoader(workerResponseSchema))
	})
	return compiledSchema, schemaErr
}

// decodeResponse checks the worker's output against the response contract and decodes it
func decodeResponse(data []byte) (WorkerResponse, error) {
	var resp WorkerResponse
	if len(bytes.TrimSpace(data)) == 0 {
		return resp, errNoResult
	}

	schema, err := responseSchema()
	if err != nil {
		return resp, fmt.Errorf("loading worker response schema: %w", err)
	}
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return resp, fmt.Errorf("%w (%v)", errNoResult, err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
		}
		return resp, fmt.Errorf("invalid scanner result: %s", strings.Join(problems, "; "))
	}

	if err := json.Unmarshal(data, &resp); err != nil {
		return resp, fmt.Errorf("invalid scanner result: %w", err)
	}
	return resp, nil
}
