package cli

import (
	"github.com/vburojevic/watch404/internal/report"
)

// PreviewCmd answers "what would tonight's mail say": the scan pipeline
// with the checkpoint left untouched and nothing mailed, rendered as a
// terminal table instead of HTML.
type PreviewCmd struct {
	ScanFlags
}

// Run executes the preview command
func (c *PreviewCmd) Run(globals *Globals) error {
	opts := resolveScanOptions(globals, &c.ScanFlags)

	agg, summary, err := runScan(globals, opts, false)
	if err != nil {
		return err
	}

	if globals.Format == "ndjson" {
		nd := report.NewNDJSONWriter(globals.Stdout)
		for _, stats := range report.SortMisses(agg.Misses) {
			if err := nd.WriteMiss(agg.RunID, stats); err != nil {
				return err
			}
		}
		return nd.WriteRunSummary(summary)
	}

	if err := report.RenderTable(globals.Stdout, agg); err != nil {
		return err
	}
	if globals.Verbose {
		return report.NewTextWriter(globals.Stdout).WriteRunSummary(summary)
	}

	return nil
}
