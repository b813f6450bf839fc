package filter

import (
	"path"
	"strings"

	"github.com/vburojevic/watch404/internal/domain"
)

// ExtensionFilter admits only paths whose extension is in an allow-list.
// Comparison is case-insensitive; a path with no extension is rejected.
type ExtensionFilter struct {
	exts map[string]struct{}
}

// NewExtensionFilter creates an extension allow-list filter. Entries may
// carry a leading dot and any case; both are normalized away.
func NewExtensionFilter(exts []string) *ExtensionFilter {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(e), "."))
		if e == "" {
			continue
		}
		set[e] = struct{}{}
	}
	return &ExtensionFilter{exts: set}
}

// Match returns true if the path's extension is in the allow-list
func (f *ExtensionFilter) Match(rec *domain.LogRecord) bool {
	ext := strings.TrimPrefix(path.Ext(rec.Path), ".")
	if ext == "" {
		return false
	}

	_, ok := f.exts[strings.ToLower(ext)]
	return ok
}
