package report

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/vburojevic/watch404/internal/domain"
)

// TextWriter writes scan events as styled text
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a new text writer
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteMiss outputs a single 404 record as styled text
func (w *TextWriter) WriteMiss(rec *domain.LogRecord) error {
	timestamp := Styles.Timestamp.Render(rec.Timestamp.Format("2006-01-02 15:04:05"))
	status := Styles.Status.Render(strconv.Itoa(rec.Status))
	path := Styles.Path.Render(rec.Path)

	line := timestamp + " " + status + " " + path
	if rec.Referrer != domain.DirectReferrer {
		line += " " + Styles.Referrer.Render("from "+rec.Referrer)
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteRunSummary outputs a styled run summary
func (w *TextWriter) WriteRunSummary(s *RunSummaryOutput) error {
	header := Styles.Header.Render("Scan summary")
	line := "\n" + header + "\n"
	line += Styles.Label.Render("Log: ") + Styles.Value.Render(s.Log) + "\n"
	line += Styles.Label.Render("Scanned: ") + Styles.Value.Render(humanize.Bytes(uint64(s.BytesScanned))) +
		Styles.Label.Render(" (offset "+strconv.FormatInt(s.OffsetFrom, 10)+" to "+strconv.FormatInt(s.OffsetTo, 10)+")") + "\n"

	line += Styles.Label.Render("Lines: ") + Styles.Value.Render(humanize.Comma(int64(s.Lines)))
	if s.ParseErrors > 0 {
		line += " | " + Styles.Warning.Render("Unparsable: "+strconv.Itoa(s.ParseErrors))
	}
	line += "\n"

	misses := strconv.Itoa(s.Misses) + " paths, " + strconv.Itoa(s.Hits) + " hits"
	if s.Hits == 0 {
		misses = "none"
	}
	line += Styles.Label.Render("Misses: ") + HitsStyle(s.Hits).Render(misses) + "\n"
	line += Styles.Label.Render("Duration: ") + Styles.Value.Render(strconv.FormatInt(s.DurationMS, 10)+"ms") + "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteDelivery reports how the rendered report left the process
func (w *TextWriter) WriteDelivery(r *ReportOutput) error {
	var line string
	switch r.Delivery {
	case "sendmail":
		line = Styles.Success.Render("Report sent") + Styles.Label.Render(" to ") + Styles.Value.Render(r.To)
	case "stdout":
		line = Styles.Warning.Render("Mail agent unavailable") + Styles.Label.Render("; report printed to stdout")
	case "skipped":
		line = Styles.Label.Render("Dry run; report not sent")
	default:
		line = Styles.Label.Render("No findings; no report sent")
	}
	line += "\n"

	_, err := io.WriteString(w.w, line)
	return err
}

// WriteError outputs a styled error
func (w *TextWriter) WriteError(code, message string) error {
	errorLabel := Styles.Danger.Render("Error")
	codeStr := Styles.Warning.Render("[" + code + "]")
	line := errorLabel + " " + codeStr + ": " + message + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}

// WriteWarning outputs a styled warning
func (w *TextWriter) WriteWarning(message string) error {
	line := Styles.Warning.Render("Warning") + ": " + message + "\n"
	_, err := io.WriteString(w.w, line)
	return err
}
