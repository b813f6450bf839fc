// Package mail delivers rendered reports through a sendmail-compatible
// agent, falling back to stdout when no agent is available. Delivery
// problems never escalate into scan failures.
package mail

import (
	"fmt"
	"strings"
)

// Message is one report mail.
type Message struct {
	To      string
	From    string
	Subject string
	Body    string
}

// DefaultSubject is the subject used when none is configured.
func DefaultSubject(host string) string {
	return fmt.Sprintf("404 report for %s", host)
}

// Payload assembles the message for sendmail -t, which takes the
// recipient from the To header. An empty From falls back to To so the
// payload always carries a sender.
func (m *Message) Payload() string {
	from := m.From
	if from == "" {
		from = m.To
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\n", from)
	fmt.Fprintf(&b, "To: %s\n", m.To)
	fmt.Fprintf(&b, "Subject: %s\n", m.Subject)
	b.WriteString("MIME-Version: 1.0\n")
	b.WriteString("Content-Type: text/html; charset=utf-8\n")
	b.WriteString("\n")
	b.WriteString(m.Body)
	return b.String()
}
