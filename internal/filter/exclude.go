package filter

import (
	"strings"

	"github.com/vburojevic/watch404/internal/domain"
)

// ExcludePrefixFilter rejects paths under any of a list of prefixes.
// Exclusion beats every admit rule: in a chain, a rejected path is out
// no matter what the other filters say.
type ExcludePrefixFilter struct {
	prefixes []string
}

// NewExcludePrefixFilter creates an exclusion filter from a prefix list
func NewExcludePrefixFilter(prefixes []string) *ExcludePrefixFilter {
	return &ExcludePrefixFilter{prefixes: prefixes}
}

// Match returns true if the path starts with none of the excluded prefixes
func (f *ExcludePrefixFilter) Match(rec *domain.LogRecord) bool {
	for _, p := range f.prefixes {
		if p == "" {
			continue
		}
		if strings.HasPrefix(rec.Path, p) {
			return false
		}
	}
	return true
}
