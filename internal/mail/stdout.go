package mail

import (
	"context"
	"io"
)

// StdoutSink prints the payload instead of mailing it. It serves both
// as the fallback when no mail agent works and as the primary sink for
// --stdout runs.
type StdoutSink struct {
	w io.Writer
}

// NewStdoutSink creates a sink that writes payloads to w.
func NewStdoutSink(w io.Writer) *StdoutSink {
	return &StdoutSink{w: w}
}

// Name implements Sink.
func (s *StdoutSink) Name() string { return "stdout" }

// Send writes the payload verbatim.
func (s *StdoutSink) Send(_ context.Context, msg *Message) error {
	_, err := io.WriteString(s.w, msg.Payload())
	return err
}
