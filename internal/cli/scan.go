package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vburojevic/watch404/internal/accesslog"
	"github.com/vburojevic/watch404/internal/aggregate"
	"github.com/vburojevic/watch404/internal/domain"
	"github.com/vburojevic/watch404/internal/mail"
	"github.com/vburojevic/watch404/internal/report"
	"github.com/vburojevic/watch404/internal/state"
)

// ScanCmd runs one reporting pass: read the log bytes the previous run
// stopped at, aggregate the 404s that survive filtering, save the new
// checkpoint, then render and deliver the report.
type ScanCmd struct {
	ScanFlags

	Stdout bool `help:"Print the report to stdout instead of mailing it"`
	DryRun bool `help:"Scan without saving the checkpoint or sending mail"`
}

// Run executes the scan command
func (c *ScanCmd) Run(globals *Globals) error {
	opts := resolveScanOptions(globals, &c.ScanFlags)

	agg, summary, err := runScan(globals, opts, !c.DryRun)
	if err != nil {
		return err
	}

	nd := report.NewNDJSONWriter(globals.Stdout)
	switch globals.Format {
	case "ndjson":
		for _, stats := range report.SortMisses(agg.Misses) {
			if err := nd.WriteMiss(agg.RunID, stats); err != nil {
				return err
			}
		}
		if err := nd.WriteRunSummary(summary); err != nil {
			return err
		}
	default:
		// Cron contract: the default text mode prints nothing unless
		// something needs attention. Verbose gets a summary.
		if globals.Verbose {
			if err := report.NewTextWriter(globals.Stdout).WriteRunSummary(summary); err != nil {
				return err
			}
		}
	}

	if agg.Empty() {
		return nil
	}

	html, err := report.RenderHTML(agg)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	msg := &mail.Message{
		To:      opts.To,
		From:    opts.From,
		Subject: opts.Subject,
		Body:    html,
	}
	if msg.Subject == "" {
		msg.Subject = mail.DefaultSubject(opts.Host)
	}

	if c.DryRun {
		if globals.Format == "ndjson" {
			return nd.WriteReport(&report.ReportOutput{
				RunID:    agg.RunID,
				To:       opts.To,
				Subject:  msg.Subject,
				Delivery: "skipped",
				HTML:     html,
			})
		}
		if globals.Verbose {
			return report.NewTextWriter(globals.Stdout).WriteDelivery(&report.ReportOutput{Delivery: "skipped"})
		}
		return nil
	}

	dispatcher := buildDispatcher(globals, opts, c.Stdout)
	delivery, err := dispatcher.Dispatch(context.Background(), msg)
	if err != nil {
		// Delivery failure never fails the run; the scan and the
		// checkpoint are already done.
		emitWarning(globals, fmt.Sprintf("report delivery failed: %v", err))
		return nil
	}

	if globals.Format == "ndjson" {
		out := &report.ReportOutput{
			RunID:    agg.RunID,
			To:       opts.To,
			Subject:  msg.Subject,
			Delivery: delivery,
		}
		if delivery != "sendmail" {
			out.HTML = html
		}
		return nd.WriteReport(out)
	}
	if globals.Verbose {
		return report.NewTextWriter(globals.Stdout).WriteDelivery(&report.ReportOutput{
			To:       opts.To,
			Delivery: delivery,
		})
	}

	return nil
}

// buildDispatcher wires the delivery sinks. Forced stdout (or no
// recipient) means no sendmail attempt at all; otherwise sendmail is
// primary with stdout as the fallback. In ndjson mode the payload
// travels inside the report event, so the stdout sink discards.
func buildDispatcher(globals *Globals, opts *scanOptions, forceStdout bool) *mail.Dispatcher {
	out := globals.Stdout
	if globals.Format == "ndjson" {
		out = io.Discard
	}
	stdout := mail.NewStdoutSink(out)

	if forceStdout || opts.To == "" {
		return mail.NewDispatcher(stdout, nil, globals.Logger)
	}

	return mail.NewDispatcher(mail.NewSendmailSink(opts.SendmailPath), stdout, globals.Logger)
}

// runScan is the pass shared by scan, preview, and ui: open the log,
// reconcile the checkpoint against the file's identity and size, scan
// the new bytes through the filter chain into a fresh aggregate, and
// (unless read-only) save the new checkpoint before any report goes out.
func runScan(globals *Globals, opts *scanOptions, save bool) (*domain.RunAggregate, *report.RunSummaryOutput, error) {
	clk := clock.New()
	started := clk.Now()
	runID := uuid.NewString()
	logger := globals.Logger

	if opts.Log == "" {
		return nil, nil, outputErrorCommon(globals, codeInvalidArgs,
			"no access log configured", "Set LOG in a config file or pass --log")
	}

	f, err := os.Open(opts.Log)
	if err != nil {
		return nil, nil, outputErrorCommon(globals, codeLogNotFound,
			fmt.Sprintf("open access log: %v", err), hintForLog(err))
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, outputErrorCommon(globals, codeLogNotFound,
			fmt.Sprintf("stat access log: %v", err), hintForLog(err))
	}

	id, idOK := state.Identity(fi)
	if !idOK {
		logger.Debug("file identity unavailable, rotation detection disabled",
			zap.String("log", opts.Log))
	}

	cp, err := state.Load(opts.StatePath)
	if err != nil {
		emitWarning(globals, fmt.Sprintf("state file unreadable (%v); scanning from the start", err))
	}

	offset := state.Reconcile(cp, id, fi.Size())
	if cp != nil && offset != cp.Offset {
		logger.Info("checkpoint does not match the log, starting from the top",
			zap.String("log", opts.Log),
			zap.Int64("saved_offset", cp.Offset),
			zap.Int64("size", fi.Size()))
	}
	logger.Debug("scan window",
		zap.String("run_id", runID),
		zap.String("log", opts.Log),
		zap.Int64("offset", offset),
		zap.Int64("size", fi.Size()))

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, nil, outputErrorCommon(globals, codeLogNotFound,
			fmt.Sprintf("seek access log: %v", err), hintForLog(err))
	}

	chain := buildFilterChain(opts)

	// Verbose text mode streams each admitted miss as it is found.
	var missWriter *report.TextWriter
	if globals.Verbose && globals.Format == "text" {
		missWriter = report.NewTextWriter(globals.Stdout)
	}

	scanner := accesslog.NewScanner(f, offset)
	parser := accesslog.NewParser()
	tracker := aggregate.NewTracker()

	var lines, parseErrors int
	for {
		line, err := scanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, outputErrorCommon(globals, codeLogNotFound,
				fmt.Sprintf("read access log: %v", err), hintForLog(err))
		}

		lines++

		rec, err := parser.Parse(line)
		if err != nil {
			// Unparsable lines are counted, never fatal.
			parseErrors++
			continue
		}

		rec.Path = accesslog.NormalizePath(rec.Path)
		if !chain.Match(rec) {
			continue
		}

		if missWriter != nil {
			_ = missWriter.WriteMiss(rec)
		}
		tracker.Fold(rec)
	}

	newOffset := scanner.Offset()

	if save {
		if err := state.Save(opts.StatePath, domain.Checkpoint{Identity: id, Offset: newOffset}); err != nil {
			return nil, nil, outputErrorCommon(globals, codeStateWriteFailed,
				fmt.Sprintf("save checkpoint: %v", err), hintForState(err))
		}
	}

	finished := clk.Now()
	paths, hits := tracker.Stats()

	logger.Debug("scan complete",
		zap.String("run_id", runID),
		zap.Int64("offset_from", offset),
		zap.Int64("offset_to", newOffset),
		zap.Int("lines", lines),
		zap.Int("parse_errors", parseErrors),
		zap.Int("misses", paths),
		zap.Int("hits", hits))

	agg := &domain.RunAggregate{
		RunID:      runID,
		Host:       opts.Host,
		LogPath:    opts.Log,
		Prefix:     opts.Prefix,
		OffsetFrom: offset,
		OffsetTo:   newOffset,
		Started:    started,
		Finished:   finished,
		Misses:     tracker.Snapshot(),
	}

	summary := &report.RunSummaryOutput{
		RunID:        runID,
		Host:         opts.Host,
		Log:          opts.Log,
		Prefix:       opts.Prefix,
		OffsetFrom:   offset,
		OffsetTo:     newOffset,
		BytesScanned: newOffset - offset,
		Lines:        lines,
		ParseErrors:  parseErrors,
		Misses:       paths,
		Hits:         hits,
		DurationMS:   finished.Sub(started).Milliseconds(),
	}

	return agg, summary, nil
}
