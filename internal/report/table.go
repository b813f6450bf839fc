package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/vburojevic/watch404/internal/domain"
)

// RenderTable writes the aggregate as a terminal table, the preview
// counterpart of the HTML report. Rows follow the report ordering.
func RenderTable(w io.Writer, agg *domain.RunAggregate) error {
	if agg == nil || agg.Empty() {
		_, err := io.WriteString(w, "No recorded 404s.\n")
		return err
	}

	rows := make([][]string, 0, len(agg.Misses))
	for _, stats := range SortMisses(agg.Misses) {
		top := ""
		if refs := SortReferrers(stats.Referrers); len(refs) > 0 {
			top = refs[0].URL
			if top == domain.DirectReferrer {
				top = "direct"
			}
			if len(refs) > 1 {
				top += fmt.Sprintf(" (+%d more)", len(refs)-1)
			}
		}
		rows = append(rows, []string{
			stats.Path,
			strconv.Itoa(stats.Hits),
			humanize.Time(stats.FirstSeen),
			humanize.Time(stats.LastSeen),
			top,
		})
	}

	table := tablewriter.NewTable(w)
	table.Header("Path", "Hits", "First seen", "Last seen", "Referrers")
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("build table: %w", err)
	}
	return table.Render()
}
