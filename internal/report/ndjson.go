// Package report renders and emits scan results: NDJSON events for
// machine consumers, styled text for terminals, a table for previews,
// and the HTML document that gets mailed.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/vburojevic/watch404/internal/domain"
)

// NDJSONWriter writes scan events as NDJSON
type NDJSONWriter struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewNDJSONWriter creates a new NDJSON writer
func NewNDJSONWriter(w io.Writer) *NDJSONWriter {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false) // keep paths and referrers unescaped
	return &NDJSONWriter{
		w:       w,
		encoder: enc,
	}
}

// MissOutput is one aggregated 404 path with its hit statistics
type MissOutput struct {
	Type          string         `json:"type"` // Always "miss"
	SchemaVersion int            `json:"schema_version"`
	RunID         string         `json:"run_id,omitempty"`
	Path          string         `json:"path"`
	Hits          int            `json:"hits"`
	FirstSeen     string         `json:"first_seen"`
	LastSeen      string         `json:"last_seen"`
	Referrers     map[string]int `json:"referrers,omitempty"`
}

// RunSummaryOutput closes a scan run with its totals
type RunSummaryOutput struct {
	Type          string `json:"type"` // Always "summary"
	SchemaVersion int    `json:"schema_version"`
	RunID         string `json:"run_id,omitempty"`
	Host          string `json:"host,omitempty"`
	Log           string `json:"log"`
	Prefix        string `json:"prefix,omitempty"`
	OffsetFrom    int64  `json:"offset_from"`
	OffsetTo      int64  `json:"offset_to"`
	BytesScanned  int64  `json:"bytes_scanned"`
	Lines         int    `json:"lines"`
	ParseErrors   int    `json:"parse_errors"`
	Misses        int    `json:"misses"`
	Hits          int    `json:"hits"`
	DurationMS    int64  `json:"duration_ms"`
}

// ReportOutput carries the rendered report and its delivery outcome
type ReportOutput struct {
	Type          string `json:"type"` // Always "report"
	SchemaVersion int    `json:"schema_version"`
	RunID         string `json:"run_id,omitempty"`
	To            string `json:"to,omitempty"`
	Subject       string `json:"subject,omitempty"`
	Delivery      string `json:"delivery"` // "sendmail", "stdout", or "skipped"
	HTML          string `json:"html,omitempty"`
}

// ErrorOutput represents a fatal or surfaced error
type ErrorOutput struct {
	Type          string `json:"type"` // Always "error"
	SchemaVersion int    `json:"schema_version"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	Hint          string `json:"hint,omitempty"`
}

// WarningOutput represents a warning message
type WarningOutput struct {
	Type          string `json:"type"` // Always "warning"
	SchemaVersion int    `json:"schema_version"`
	Message       string `json:"message"`
}

// StateOutput describes the stored checkpoint
type StateOutput struct {
	Type          string `json:"type"` // Always "state"
	SchemaVersion int    `json:"schema_version"`
	Path          string `json:"path"`
	Exists        bool   `json:"exists"`
	DeviceID      uint64 `json:"device_id,omitempty"`
	Inode         uint64 `json:"inode,omitempty"`
	Offset        int64  `json:"offset,omitempty"`
}

// ConfigOutput shows the resolved configuration with provenance
type ConfigOutput struct {
	Type          string            `json:"type"` // Always "config"
	SchemaVersion int               `json:"schema_version"`
	File          string            `json:"file,omitempty"`
	Settings      map[string]string `json:"settings"`
	Sources       map[string]string `json:"sources,omitempty"`
}

// CheckOutput is one doctor probe result
type CheckOutput struct {
	Type          string `json:"type"` // Always "check"
	SchemaVersion int    `json:"schema_version"`
	Name          string `json:"name"`
	Status        string `json:"status"` // "ok", "warn", or "fail"
	Message       string `json:"message,omitempty"`
	Details       string `json:"details,omitempty"`
}

// VersionOutput describes build metadata
type VersionOutput struct {
	Type          string `json:"type"` // Always "version"
	SchemaVersion int    `json:"schema_version"`
	Version       string `json:"version"`
	Commit        string `json:"commit,omitempty"`
	BuildDate     string `json:"build_date,omitempty"`
}

// WriteMiss outputs one aggregated 404 path. The empty referrer key
// stands for direct requests.
func (w *NDJSONWriter) WriteMiss(runID string, stats *domain.MissStats) error {
	return w.encoder.Encode(&MissOutput{
		Type:          "miss",
		SchemaVersion: SchemaVersion,
		RunID:         runID,
		Path:          stats.Path,
		Hits:          stats.Hits,
		FirstSeen:     stats.FirstSeen.UTC().Format(time.RFC3339),
		LastSeen:      stats.LastSeen.UTC().Format(time.RFC3339),
		Referrers:     stats.Referrers,
	})
}

// WriteRunSummary outputs the closing summary for a scan run
func (w *NDJSONWriter) WriteRunSummary(s *RunSummaryOutput) error {
	s.Type = "summary"
	s.SchemaVersion = SchemaVersion
	return w.encoder.Encode(s)
}

// WriteReport outputs the rendered report and how it was delivered
func (w *NDJSONWriter) WriteReport(r *ReportOutput) error {
	r.Type = "report"
	r.SchemaVersion = SchemaVersion
	return w.encoder.Encode(r)
}

// WriteError outputs an error
func (w *NDJSONWriter) WriteError(code, message string, hint ...string) error {
	out := &ErrorOutput{
		Type:          "error",
		SchemaVersion: SchemaVersion,
		Code:          code,
		Message:       message,
	}
	if len(hint) > 0 {
		out.Hint = hint[0]
	}
	return w.encoder.Encode(out)
}

// WriteWarning outputs a warning message
func (w *NDJSONWriter) WriteWarning(message string) error {
	return w.encoder.Encode(&WarningOutput{
		Type:          "warning",
		SchemaVersion: SchemaVersion,
		Message:       message,
	})
}

// WriteState outputs the stored checkpoint, or its absence
func (w *NDJSONWriter) WriteState(path string, cp *domain.Checkpoint) error {
	out := &StateOutput{
		Type:          "state",
		SchemaVersion: SchemaVersion,
		Path:          path,
		Exists:        cp != nil,
	}
	if cp != nil {
		out.DeviceID = cp.Identity.Device
		out.Inode = cp.Identity.Inode
		out.Offset = cp.Offset
	}
	return w.encoder.Encode(out)
}

// WriteConfig outputs the resolved configuration
func (w *NDJSONWriter) WriteConfig(c *ConfigOutput) error {
	c.Type = "config"
	c.SchemaVersion = SchemaVersion
	return w.encoder.Encode(c)
}

// WriteCheck outputs one doctor probe result
func (w *NDJSONWriter) WriteCheck(name, status, message, details string) error {
	return w.encoder.Encode(&CheckOutput{
		Type:          "check",
		SchemaVersion: SchemaVersion,
		Name:          name,
		Status:        status,
		Message:       message,
		Details:       details,
	})
}

// WriteVersion outputs build metadata
func (w *NDJSONWriter) WriteVersion(version, commit, buildDate string) error {
	return w.encoder.Encode(&VersionOutput{
		Type:          "version",
		SchemaVersion: SchemaVersion,
		Version:       version,
		Commit:        commit,
		BuildDate:     buildDate,
	})
}

// WriteRaw outputs raw JSON data
func (w *NDJSONWriter) WriteRaw(v interface{}) error {
	return w.encoder.Encode(v)
}
