package report

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vburojevic/watch404/internal/domain"
)

func TestNDJSONWriter_WriteMiss(t *testing.T) {
	t.Run("writes miss with type field and schema_version", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		stats := &domain.MissStats{
			Path:      "/static/img/missing.png",
			Hits:      3,
			FirstSeen: time.Date(2026, 3, 12, 6, 25, 24, 0, time.FixedZone("CET", 3600)),
			LastSeen:  time.Date(2026, 3, 12, 7, 45, 0, 0, time.FixedZone("CET", 3600)),
			Referrers: map[string]int{
				"https://example.com/gallery": 2,
				"":                            1,
			},
		}

		err := w.WriteMiss("run-1", stats)
		require.NoError(t, err)

		var out MissOutput
		err = json.Unmarshal(buf.Bytes(), &out)
		require.NoError(t, err)

		assert.Equal(t, "miss", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "run-1", out.RunID)
		assert.Equal(t, "/static/img/missing.png", out.Path)
		assert.Equal(t, 3, out.Hits)
		assert.Equal(t, "2026-03-12T05:25:24Z", out.FirstSeen) // UTC
		assert.Equal(t, "2026-03-12T06:45:00Z", out.LastSeen)
		assert.Equal(t, map[string]int{"https://example.com/gallery": 2, "": 1}, out.Referrers)
	})

	t.Run("omits empty run id", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		stats := &domain.MissStats{Path: "/a.png", Hits: 1}
		require.NoError(t, w.WriteMiss("", stats))
		assert.NotContains(t, buf.String(), `"run_id"`)
		assert.NotContains(t, buf.String(), `"referrers"`)
	})
}

func TestNDJSONWriter_WriteRunSummary(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	err := w.WriteRunSummary(&RunSummaryOutput{
		RunID:        "run-1",
		Host:         "web1.example.com",
		Log:          "/var/log/apache2/access.log",
		Prefix:       "/static/img/",
		OffsetFrom:   1024,
		OffsetTo:     4096,
		BytesScanned: 3072,
		Lines:        17,
		ParseErrors:  1,
		Misses:       2,
		Hits:         5,
		DurationMS:   12,
	})
	require.NoError(t, err)

	var out RunSummaryOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	assert.Equal(t, "summary", out.Type)
	assert.Equal(t, SchemaVersion, out.SchemaVersion)
	assert.Equal(t, int64(1024), out.OffsetFrom)
	assert.Equal(t, int64(4096), out.OffsetTo)
	assert.Equal(t, int64(3072), out.BytesScanned)
	assert.Equal(t, 17, out.Lines)
	assert.Equal(t, 1, out.ParseErrors)
	assert.Equal(t, 2, out.Misses)
	assert.Equal(t, 5, out.Hits)
}

func TestNDJSONWriter_WriteError(t *testing.T) {
	t.Run("with hint", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		require.NoError(t, w.WriteError("LOG_NOT_FOUND", "no such file", "check the LOG setting"))

		var out ErrorOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "error", out.Type)
		assert.Equal(t, SchemaVersion, out.SchemaVersion)
		assert.Equal(t, "LOG_NOT_FOUND", out.Code)
		assert.Equal(t, "no such file", out.Message)
		assert.Equal(t, "check the LOG setting", out.Hint)
	})

	t.Run("without hint", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		require.NoError(t, w.WriteError("STATE_WRITE_FAILED", "permission denied"))
		assert.NotContains(t, buf.String(), `"hint"`)
	})
}

func TestNDJSONWriter_WriteState(t *testing.T) {
	t.Run("existing checkpoint", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		cp := &domain.Checkpoint{
			Identity: domain.FileIdentity{Device: 2049, Inode: 42},
			Offset:   512,
		}
		require.NoError(t, w.WriteState("/home/app/.watch404.state", cp))

		var out StateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "state", out.Type)
		assert.True(t, out.Exists)
		assert.Equal(t, uint64(2049), out.DeviceID)
		assert.Equal(t, uint64(42), out.Inode)
		assert.Equal(t, int64(512), out.Offset)
	})

	t.Run("missing checkpoint", func(t *testing.T) {
		var buf bytes.Buffer
		w := NewNDJSONWriter(&buf)

		require.NoError(t, w.WriteState("/home/app/.watch404.state", nil))

		var out StateOutput
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.False(t, out.Exists)
		assert.NotContains(t, buf.String(), `"device_id"`)
	})
}

func TestNDJSONWriter_KeepsHTMLUnescaped(t *testing.T) {
	var buf bytes.Buffer
	w := NewNDJSONWriter(&buf)

	err := w.WriteReport(&ReportOutput{
		To:       "ops@example.com",
		Subject:  "404 report for web1",
		Delivery: "stdout",
		HTML:     `<table><tr><td>/a.png?x=1&y=2</td></tr></table>`,
	})
	require.NoError(t, err)

	// SetEscapeHTML(false) keeps markup readable in the event stream.
	assert.Contains(t, buf.String(), "<table>")
	assert.Contains(t, buf.String(), "&y=2")
	assert.NotContains(t, buf.String(), `\u003c`)
}
