package cli

import (
	"fmt"
	"strings"

	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/filter"
)

// ScanFlags groups the scan surface shared by scan, preview, and ui while
// keeping flag names intact via embedding. Every flag mirrors a config
// file key; an explicit flag wins over the file.
type ScanFlags struct {
	ConfigPath string `arg:"" optional:"" name:"config" help:"KEY=VALUE config file (bypasses the search path)" type:"path"`

	Log           string   `help:"Access log to scan" placeholder:"FILE"`
	Prefix        string   `help:"Only report 404s under this URL prefix"`
	Host          string   `help:"Host label for the report (config key SERVER)"`
	State         string   `help:"Checkpoint file" placeholder:"FILE"`
	To            string   `help:"Report recipient address"`
	From          string   `help:"Report sender address (defaults to --to)"`
	Subject       string   `help:"Report subject line"`
	ImagesOnly    bool     `help:"Only report missing images"`
	ImageExt      []string `help:"Extensions that count as images (with --images-only)" placeholder:"EXT"`
	ExcludePrefix []string `help:"Skip 404s under these URL prefixes" placeholder:"PREFIX"`
}

// scanOptions is the fully resolved input for one run: flags over config
// file entries over built-in defaults.
type scanOptions struct {
	Log           string
	Prefix        string
	Host          string
	StatePath     string
	To            string
	From          string
	Subject       string
	ImagesOnly    bool
	ImageExt      []string
	ExcludePrefix []string
	SendmailPath  string
}

// resolveScanOptions merges flags and configuration into one options
// struct. A positional config file replaces the searched-for one; a
// broken config file is a warning and the defaults stand in (the scan
// must still run under cron).
func resolveScanOptions(globals *Globals, f *ScanFlags) *scanOptions {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}

	if f.ConfigPath != "" {
		loaded, _, err := config.LoadFromFile(f.ConfigPath)
		if err != nil {
			emitWarning(globals, fmt.Sprintf("config file %s: %v; continuing with defaults", f.ConfigPath, err))
		}
		cfg = loaded
	}

	opts := &scanOptions{
		Log:           cfg.Scan.Log,
		Host:          cfg.Scan.Host,
		StatePath:     cfg.Scan.State,
		To:            cfg.Mail.To,
		From:          cfg.Mail.From,
		Subject:       cfg.Mail.Subject,
		ImagesOnly:    cfg.Scan.ImagesOnly || f.ImagesOnly,
		ImageExt:      cfg.Scan.ImageExt,
		ExcludePrefix: cfg.Scan.ExcludePrefix,
		SendmailPath:  cfg.Mail.Sendmail,
	}

	// Config-sourced prefixes go through the docroot heuristic once,
	// here; an explicit --prefix is taken literally.
	switch {
	case f.Prefix != "":
		opts.Prefix = f.Prefix
	case cfg.Scan.Prefix != "":
		opts.Prefix = filter.DerivePrefix(cfg.Scan.Prefix)
	case cfg.Scan.Path != "":
		opts.Prefix = filter.DerivePrefix(cfg.Scan.Path)
	}

	if f.Log != "" {
		opts.Log = f.Log
	}
	if f.Host != "" {
		opts.Host = f.Host
	}
	if f.State != "" {
		opts.StatePath = f.State
	}
	if f.To != "" {
		opts.To = f.To
	}
	if f.From != "" {
		opts.From = f.From
	}
	if f.Subject != "" {
		opts.Subject = f.Subject
	}
	if len(f.ImageExt) > 0 {
		opts.ImageExt = f.ImageExt
	}
	if len(f.ExcludePrefix) > 0 {
		opts.ExcludePrefix = f.ExcludePrefix
	}

	if opts.Prefix != "" && !strings.HasPrefix(opts.Prefix, "/") {
		emitWarning(globals, fmt.Sprintf("prefix %q does not start with /; it will never match a request path", opts.Prefix))
	}

	return opts
}
