// Package accesslog parses web server access logs in combined log format.
package accesslog

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/vburojevic/watch404/internal/domain"
)

// ErrMalformedLine reports a line that does not match the combined log
// format. Callers count these and keep scanning.
var ErrMalformedLine = errors.New("line does not match combined log format")

// logPattern matches the combined log format. The match is a search, not
// anchored, so lines with a leading vhost column or syslog wrapper still
// parse.
var logPattern = regexp.MustCompile(`(?P<remote>\S+) \S+ \S+ \[(?P<time>[^\]]+)\] "(?P<method>[A-Z]+) (?P<path>\S+) (?P<proto>[^"]+)" (?P<status>\d{3}) (?P<size>\S+) "(?P<referrer>[^"]*)" "(?P<agent>[^"]*)"`)

// Parser parses raw access log lines into structured LogRecords
type Parser struct {
	clock clock.Clock
}

// NewParser creates a new access log parser
func NewParser() *Parser {
	return &Parser{clock: clock.New()}
}

// NewParserWithClock creates a parser whose timestamp fallback uses clk.
func NewParserWithClock(clk clock.Clock) *Parser {
	return &Parser{clock: clk}
}

// Parse converts one access log line to a LogRecord. A line that does
// not match the format returns ErrMalformedLine. The request path is
// normalized (query and fragment cut, percent-escapes decoded) and a
// "-" referrer becomes the empty string, the direct-traffic value.
func (p *Parser) Parse(line []byte) (*domain.LogRecord, error) {
	m := logPattern.FindSubmatch(line)
	if m == nil {
		return nil, ErrMalformedLine
	}

	group := func(name string) string {
		return string(m[logPattern.SubexpIndex(name)])
	}

	status, err := strconv.Atoi(group("status"))
	if err != nil {
		return nil, ErrMalformedLine
	}

	// Timestamp: "12/Mar/2026:06:25:24 +0100"
	ts, err := parseTimestamp(group("time"))
	if err != nil {
		ts = p.clock.Now() // Fallback to current time
	}

	referrer := group("referrer")
	if referrer == "-" {
		referrer = domain.DirectReferrer
	}

	return &domain.LogRecord{
		Remote:    group("remote"),
		Method:    group("method"),
		Path:      NormalizePath(group("path")),
		Proto:     group("proto"),
		Status:    status,
		Size:      group("size"),
		Referrer:  referrer,
		UserAgent: group("agent"),
		Timestamp: ts,
	}, nil
}

// parseTimestamp handles the CLF timestamp format
func parseTimestamp(s string) (time.Time, error) {
	// Some proxies strip the zone, so try both forms.
	layouts := []string{
		"02/Jan/2006:15:04:05 -0700",
		"02/Jan/2006:15:04:05",
	}

	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Parse(layouts[0], s)
}

// NormalizePath reduces a request target to a bare decoded path. The
// query and fragment are cut, absolute-form targets (proxy requests like
// "GET http://host/x HTTP/1.1") lose their scheme and host, and
// percent-escapes are decoded. A target whose escapes do not decode
// keeps its raw form instead of being dropped.
func NormalizePath(target string) string {
	// Origin-form targets start with "/"; anything else may be
	// absolute-form.
	if !strings.HasPrefix(target, "/") {
		if i := strings.Index(target, "://"); i >= 0 {
			rest := target[i+3:]
			if j := strings.IndexByte(rest, '/'); j >= 0 {
				target = rest[j:]
			} else {
				target = "/"
			}
		}
	}

	if i := strings.IndexByte(target, '?'); i >= 0 {
		target = target[:i]
	}
	if i := strings.IndexByte(target, '#'); i >= 0 {
		target = target[:i]
	}

	if decoded, err := url.PathUnescape(target); err == nil {
		target = decoded
	}

	return target
}
