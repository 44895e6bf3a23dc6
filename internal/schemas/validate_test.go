package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"count": {"type": "integer"}
	}
}`

func TestValidateDocument(t *testing.T) {
	tests := []struct {
		name      string
		doc       map[string]any
		wantField string
	}{
		{name: "valid", doc: map[string]any{"name": "powervs", "count": 2}},
		{name: "missing field", doc: map[string]any{"count": 2}, wantField: "(root)"},
		{name: "wrong type", doc: map[string]any{"name": "x", "count": "two"}, wantField: "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateDocument("test.schema.json", testSchema, tt.doc)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			require.Len(t, validationErr.Errors, 1)
			assert.Equal(t, tt.wantField, validationErr.Errors[0].Field)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestValidateDocument_MalformedSchema(t *testing.T) {
	err := validateDocument("broken.schema.json", `{ invalid`, map[string]any{})
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "broken.schema.json", loadErr.Path)
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		doc     map[string]any
		wantErr bool
	}{
		{
			name: "minimal",
			doc: map[string]any{
				"sources": []any{map[string]any{"name": "powervs", "link": "periodic-ci-job"}},
			},
		},
		{
			name: "full",
			doc: map[string]any{
				"sources":         []any{map[string]any{"name": "powervs", "link": "periodic-ci-job"}},
				"start_date":      "2024-05-02",
				"end_date":        "2024-05-01",
				"zones":           []any{"syd05", "mon01"},
				"timeout_seconds": 30,
				"verbose":         true,
			},
		},
		{name: "no sources", doc: map[string]any{}, wantErr: true},
		{name: "empty sources", doc: map[string]any{"sources": []any{}}, wantErr: true},
		{
			name: "link is a path",
			doc: map[string]any{
				"sources": []any{map[string]any{"name": "x", "link": "job-history/gs/x"}},
			},
			wantErr: true,
		},
		{
			name: "start without end",
			doc: map[string]any{
				"sources":    []any{map[string]any{"name": "x", "link": "job"}},
				"start_date": "2024-05-02",
			},
			wantErr: true,
		},
		{
			name: "unknown field",
			doc: map[string]any{
				"sources": []any{map[string]any{"name": "x", "link": "job"}},
				"retries": 3,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.doc)
			if tt.wantErr {
				var validationErr *ValidationError
				assert.ErrorAs(t, err, &validationErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}
