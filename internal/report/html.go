package report

import (
	_ "embed"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/vburojevic/watch404/internal/domain"
)

const htmlTimeFormat = "2006-01-02 15:04:05 MST"

// ReferrerCount is one referrer and how often it led to the miss
type ReferrerCount struct {
	URL   string
	Count int
}

// SortMisses orders per-path statistics for rendering: most hits first,
// ties broken by path so the same aggregate always renders the same
// report.
func SortMisses(misses map[string]*domain.MissStats) []*domain.MissStats {
	out := make([]*domain.MissStats, 0, len(misses))
	for _, stats := range misses {
		out = append(out, stats)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hits != out[j].Hits {
			return out[i].Hits > out[j].Hits
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// SortReferrers orders a referrer count map: most hits first, ties
// broken lexicographically.
func SortReferrers(referrers map[string]int) []ReferrerCount {
	out := make([]ReferrerCount, 0, len(referrers))
	for url, n := range referrers {
		out = append(out, ReferrerCount{URL: url, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].URL < out[j].URL
	})
	return out
}

type reportRow struct {
	Path      string
	Hits      int
	FirstSeen string
	LastSeen  string
	Referrers []ReferrerCount
}

type reportData struct {
	Host       string
	Prefix     string
	Log        string
	Started    string
	Finished   string
	TotalPaths int
	TotalHits  int
	Rows       []reportRow
}

// The template uses inline styles only: mail clients ignore
// stylesheets.
//
//go:embed report.html.tmpl
var reportTemplateText string

var reportTemplate = template.Must(template.New("report").Parse(reportTemplateText))

// RenderHTML renders the run aggregate as an HTML report. An empty
// aggregate renders nothing: no findings means no report and no mail.
func RenderHTML(agg *domain.RunAggregate) (string, error) {
	if agg == nil || agg.Empty() {
		return "", nil
	}

	data := reportData{
		Host:       agg.Host,
		Prefix:     agg.Prefix,
		Log:        agg.LogPath,
		Started:    agg.Started.UTC().Format(htmlTimeFormat),
		Finished:   agg.Finished.UTC().Format(htmlTimeFormat),
		TotalPaths: len(agg.Misses),
		TotalHits:  agg.TotalHits(),
		Rows:       make([]reportRow, 0, len(agg.Misses)),
	}

	for _, stats := range SortMisses(agg.Misses) {
		data.Rows = append(data.Rows, reportRow{
			Path:      stats.Path,
			Hits:      stats.Hits,
			FirstSeen: stats.FirstSeen.UTC().Format(htmlTimeFormat),
			LastSeen:  stats.LastSeen.UTC().Format(htmlTimeFormat),
			Referrers: SortReferrers(stats.Referrers),
		})
	}

	var buf strings.Builder
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return buf.String(), nil
}
