// Package importer parses and applies the bulk-import JSON payload: a flat
// list of task entries whose depends_on fields may reference either an
// existing task id or the name of another entry in the same batch. Refs
// are resolved to concrete ids before anything is committed to the
// project state, mirroring the teacher importer's name/ref resolution
// pass, just over DAGr's sequential T-<n> ids instead of generated UUIDs.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
)

// Schema is the top-level JSON structure for a bulk import.
type Schema struct {
	Tasks []TaskImport `json:"tasks"`
}

// TaskImport is a single entry in the import payload. A wire id that
// matches an existing task makes the entry an update; anything else is a
// creation.
type TaskImport struct {
	ID            *string  `json:"id,omitempty"`
	Name          string   `json:"name"`
	DurationHours *float64 `json:"duration_hrs"`
	DependsOn     []string `json:"depends_on,omitempty"`
	Deadline      *string  `json:"deadline,omitempty"`
	ProposedStart *string  `json:"proposed_start,omitempty"`
	Background    *bool    `json:"background,omitempty"`
	Flexible      *bool    `json:"flexible,omitempty"`
	Project       string   `json:"project,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Notes         string   `json:"notes,omitempty"`
}

// LoadSchema reads and parses a bulk import JSON file.
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSchema(data)
}

// ParseSchema parses a bulk import JSON payload already in memory.
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing import payload: %w", err)
	}
	return &schema, nil
}
