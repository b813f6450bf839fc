package domain

import "time"

// DirectReferrer is the bucket key for requests that carried no referrer
// header (logged as "-"). It is a real bucket, never dropped.
const DirectReferrer = ""

// MissStats accumulates everything known about one missing resource during a
// run. Counts only increase; the seen window only widens.
type MissStats struct {
	Path      string         `json:"path"`
	Hits      int            `json:"hits"`
	FirstSeen time.Time      `json:"first_seen"`
	LastSeen  time.Time      `json:"last_seen"`
	Referrers map[string]int `json:"referrers"`
}

// RunAggregate is the result of one scan: per-path miss statistics plus the
// run metadata a report needs. It is built fresh each run and never persisted.
type RunAggregate struct {
	RunID      string                `json:"run_id"`
	Host       string                `json:"host"`
	LogPath    string                `json:"log"`
	Prefix     string                `json:"prefix,omitempty"`
	OffsetFrom int64                 `json:"offset_from"`
	OffsetTo   int64                 `json:"offset_to"`
	Started    time.Time             `json:"started"`
	Finished   time.Time             `json:"finished"`
	Misses     map[string]*MissStats `json:"misses"`
}

// TotalHits returns the sum of hit counts across all misses.
func (a *RunAggregate) TotalHits() int {
	total := 0
	for _, m := range a.Misses {
		total += m.Hits
	}
	return total
}

// Empty reports whether the run found nothing. An empty aggregate produces
// no report and no mail.
func (a *RunAggregate) Empty() bool {
	return a == nil || len(a.Misses) == 0
}
