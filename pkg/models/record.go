// Package models provides the record types that flow through table
// connectors. A record is a transient, schema-typed unit exchanged with the
// host stream engine; connectors convert external rows into records on read
// and records back into rows on write, but never own them.
package models

import (
	"time"
)

// RecordMetadata carries source and timing information for a record.
type RecordMetadata struct {
	// Source identifies the producing connector or provider
	Source string `json:"source,omitempty"`
	// Table is the declared table name the record belongs to
	Table string `json:"table,omitempty"`
	// Timestamp when the record was produced or captured
	Timestamp time.Time `json:"timestamp"`
	// Custom metadata fields for extensibility
	Custom map[string]interface{} `json:"custom,omitempty"`
}

// Record is the unit of data exchanged between table connectors and the host
// stream engine. Data keys follow the declared schema's field names; values
// are coerced to the schema's field types by pkg/schema before a record
// enters a stream.
type Record struct {
	// Data contains the record payload, keyed by field name
	Data map[string]interface{} `json:"data"`
	// Metadata contains source and timing information
	Metadata RecordMetadata `json:"metadata"`
}

// NewRecord creates a record with the given source and payload.
func NewRecord(source string, data map[string]interface{}) *Record {
	return &Record{
		Data: data,
		Metadata: RecordMetadata{
			Source:    source,
			Timestamp: time.Now(),
		},
	}
}

// Get returns the value of a field, and whether it is present.
func (r *Record) Get(field string) (interface{}, bool) {
	v, ok := r.Data[field]
	return v, ok
}

// Set stores a field value, allocating the payload map if needed.
func (r *Record) Set(field string, value interface{}) {
	if r.Data == nil {
		r.Data = make(map[string]interface{})
	}
	r.Data[field] = value
}
