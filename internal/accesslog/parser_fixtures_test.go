package accesslog

import (
	"bufio"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParserFixtures(t *testing.T) {
	f, err := os.Open("testdata/parser_fixtures.log")
	require.NoError(t, err)
	defer f.Close()

	type want struct {
		remote   string
		method   string
		path     string
		status   int
		referrer string
		ts       string
		wantErr  bool
	}

	wants := []want{
		{
			remote:   "203.0.113.7",
			method:   "GET",
			path:     "/static/img/missing.png",
			status:   404,
			referrer: "https://example.com/gallery",
			ts:       "2026-03-12T06:25:24+01:00",
		},
		{
			remote:   "198.51.100.23",
			method:   "GET",
			path:     "/index.html",
			status:   200,
			referrer: "",
			ts:       "2026-03-12T06:25:30+01:00",
		},
		{wantErr: true},
		{
			remote:   "203.0.113.7",
			method:   "HEAD",
			path:     "/robots.txt",
			status:   404,
			referrer: "",
			ts:       "2026-03-12T06:26:02+01:00",
		},
		{
			// Leading vhost column: the match starts at the client IP.
			remote:   "203.0.113.9",
			method:   "GET",
			path:     "/blog/feed",
			status:   404,
			referrer: "https://planet.example.net/",
			ts:       "2026-03-12T06:27:45+01:00",
		},
		{
			// Zone-less timestamp and a percent-encoded path.
			remote:   "198.51.100.40",
			method:   "GET",
			path:     "/files/café.pdf",
			status:   404,
			referrer: "",
			ts:       "2026-03-12T06:28:00Z",
		},
	}

	p := NewParser()
	sc := bufio.NewScanner(f)
	i := 0
	for sc.Scan() {
		line := sc.Bytes()
		rec, err := p.Parse(line)
		require.Less(t, i, len(wants), "fixture count mismatch")
		w := wants[i]
		i++

		if w.wantErr {
			require.ErrorIs(t, err, ErrMalformedLine)
			require.Nil(t, rec)
			continue
		}
		require.NoError(t, err)
		require.NotNil(t, rec)
		require.Equal(t, w.remote, rec.Remote)
		require.Equal(t, w.method, rec.Method)
		require.Equal(t, w.path, rec.Path)
		require.Equal(t, w.status, rec.Status)
		require.Equal(t, w.referrer, rec.Referrer)
		require.Equal(t, w.ts, rec.Timestamp.Format(time.RFC3339Nano))
	}
	require.NoError(t, sc.Err())
	require.Equal(t, len(wants), i, "fixture count mismatch")
}
