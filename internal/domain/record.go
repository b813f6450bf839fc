package domain

import "time"

// LogRecord represents one parsed access log line in combined log format
type LogRecord struct {
	Remote    string    `json:"remote"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	Proto     string    `json:"proto"`
	Status    int       `json:"status"`
	Size      string    `json:"size"`
	Referrer  string    `json:"referrer,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// IsNotFound reports whether the record is a 404 response
func (r *LogRecord) IsNotFound() bool {
	return r.Status == 404
}
