// Package badge renders metrics as shields.io endpoint badge records.
package badge

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	SchemaVersion = 1
	DefaultColor  = "black"
)

// Record is the JSON document served to the shields.io endpoint badge.
// Field order is fixed so that Marshal output is byte-stable across runs.
type Record struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

// Format builds the record for a metric.
func Format(metric int64, label string) (Record, error) {
	if metric < 0 {
		return Record{}, fmt.Errorf("metric must be non-negative, got %d", metric)
	}
	return Record{
		SchemaVersion: SchemaVersion,
		Label:         label,
		Message:       strconv.FormatInt(metric, 10),
		Color:         DefaultColor,
	}, nil
}

// Marshal returns the compact serialized form that gets published.
func (r Record) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode badge record: %w", err)
	}
	return data, nil
}

// Metric parses the message back into the integer it was rendered from.
func (r Record) Metric() (int64, error) {
	n, err := strconv.ParseInt(r.Message, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("badge message %q is not an integer: %w", r.Message, err)
	}
	return n, nil
}

// ParseRecord decodes a published record.
func ParseRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("failed to decode badge record: %w", err)
	}
	return r, nil
}
