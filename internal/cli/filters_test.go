package cli

import (
	"testing"

	"github.com/vburojevic/watch404/internal/domain"
)

func TestBuildFilterChain_StatusOnly(t *testing.T) {
	chain := buildFilterChain(&scanOptions{})

	if !chain.Match(&domain.LogRecord{Path: "/a.png", Status: 404}) {
		t.Fatal("a 404 should pass the bare chain")
	}
	if chain.Match(&domain.LogRecord{Path: "/a.png", Status: 200}) {
		t.Fatal("a 200 should never pass")
	}
}

func TestBuildFilterChain_FullChain(t *testing.T) {
	chain := buildFilterChain(&scanOptions{
		Prefix:        "/shop",
		ImagesOnly:    true,
		ImageExt:      []string{"png", "gif"},
		ExcludePrefix: []string{"/shop/tmp"},
	})

	cases := []struct {
		path  string
		admit bool
	}{
		{"/shop/img/a.png", true},
		{"/shop/tmp/b.png", false}, // excluded subtree wins over the prefix
		{"/blog/c.png", false},
		{"/shop/img/d.txt", false},
	}
	for _, tc := range cases {
		got := chain.Match(&domain.LogRecord{Path: tc.path, Status: 404})
		if got != tc.admit {
			t.Errorf("path %s: admit = %v, want %v", tc.path, got, tc.admit)
		}
	}
}
