package mail

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// SendmailSink hands messages to a local sendmail-compatible agent.
type SendmailSink struct {
	sendmailPath string
}

// NewSendmailSink creates a sink for the given agent binary. An empty
// path means "sendmail" resolved through PATH.
func NewSendmailSink(path string) *SendmailSink {
	if path == "" {
		path = "sendmail"
	}
	return &SendmailSink{sendmailPath: path}
}

// Name implements Sink.
func (s *SendmailSink) Name() string { return "sendmail" }

// Send pipes the payload to the agent on stdin. The -t flag makes the
// agent read recipients from the payload's To header.
func (s *SendmailSink) Send(ctx context.Context, msg *Message) error {
	cmd := exec.CommandContext(ctx, s.sendmailPath, "-t")
	cmd.Stdin = strings.NewReader(msg.Payload())

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if out := strings.TrimSpace(stderr.String()); out != "" {
			return fmt.Errorf("sendmail failed: %w (%s)", err, out)
		}
		return fmt.Errorf("sendmail failed: %w", err)
	}
	return nil
}
