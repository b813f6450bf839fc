package filter

import (
	"github.com/vburojevic/watch404/internal/domain"
)

// StatusFilter admits records with one specific HTTP status code
type StatusFilter struct {
	status int
}

// NewStatusFilter creates a filter for a single status code
func NewStatusFilter(status int) *StatusFilter {
	return &StatusFilter{status: status}
}

// Match returns true if the record carries the configured status
func (f *StatusFilter) Match(rec *domain.LogRecord) bool {
	return rec.Status == f.status
}
