package filter

import (
	"strings"

	"github.com/vburojevic/watch404/internal/domain"
)

// PrefixFilter admits only paths under one URL prefix
type PrefixFilter struct {
	prefix string
}

// NewPrefixFilter creates a prefix filter; an empty prefix admits everything
func NewPrefixFilter(prefix string) *PrefixFilter {
	return &PrefixFilter{prefix: prefix}
}

// Match returns true if the path starts with the configured prefix
func (f *PrefixFilter) Match(rec *domain.LogRecord) bool {
	if f.prefix == "" {
		return true
	}
	return strings.HasPrefix(rec.Path, f.prefix)
}

// docrootMarkers are folder names that conventionally sit at the web
// root of a hosting layout. Longest first, so public_html is not
// shadowed by public.
var docrootMarkers = []string{"/httpdocs", "/htdocs", "/public_html", "/public"}

// DerivePrefix rewrites a filesystem docroot path into the URL prefix it
// serves: everything after the first recognized docroot folder. A value
// with no marker comes back unmodified and is used as a literal prefix,
// which is also the common case of the prefix already being a URL path.
func DerivePrefix(path string) string {
	if path == "" {
		return ""
	}

	clean := strings.TrimRight(path, "/")
	for _, marker := range docrootMarkers {
		i := strings.Index(clean, marker)
		if i < 0 {
			continue
		}

		suffix := clean[i+len(marker):]
		if suffix == "" {
			return "/"
		}
		if !strings.HasPrefix(suffix, "/") {
			suffix = "/" + suffix
		}
		return suffix
	}

	return path
}
