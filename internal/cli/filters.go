package cli

import (
	"github.com/vburojevic/watch404/internal/filter"
)

// buildFilterChain assembles the record filters for one scan. Order
// matters: the status filter runs first because it rejects almost every
// line, and exclusions run before the prefix filter so an excluded
// subtree inside the watched prefix stays excluded.
func buildFilterChain(opts *scanOptions) *filter.Chain {
	chain := filter.NewChain(filter.NewStatusFilter(404))

	if len(opts.ExcludePrefix) > 0 {
		chain.Add(filter.NewExcludePrefixFilter(opts.ExcludePrefix))
	}
	if opts.Prefix != "" {
		chain.Add(filter.NewPrefixFilter(opts.Prefix))
	}
	if opts.ImagesOnly {
		chain.Add(filter.NewExtensionFilter(opts.ImageExt))
	}

	return chain
}
