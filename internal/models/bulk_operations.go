package models

import "time"

// ClientImportError describes why a single CSV row was rejected.
type ClientImportError struct {
	Line  int    `json:"line"`
	Error string `json:"error"`
}

// ClientImportResult summarizes a bulk CSV client import. Imports are
// best-effort: invalid rows are reported here, valid rows are committed.
type ClientImportResult struct {
	TotalRows      int                 `json:"total_rows"`
	Imported       int                 `json:"imported"`
	Failed         int                 `json:"failed"`
	Errors         []ClientImportError `json:"errors"`
	StartTime      time.Time           `json:"start_time"`
	CompletionTime *time.Time          `json:"completion_time,omitempty"`
}
