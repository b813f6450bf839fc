package cli

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/report"
)

// CLI is the root command structure for watch404
type CLI struct {
	// Global flags
	Format  string `short:"f" default:"${config_format}" enum:"text,ndjson" help:"Output format"`
	Quiet   bool   `short:"q" help:"Suppress informational output (cron-friendly)"`
	Verbose bool   `short:"v" help:"Show debug output (resolved options, offsets, per-miss lines)"`

	Version VersionCmd `cmd:"" help:"Show version information"`

	// Commands
	Scan       ScanCmd       `cmd:"" default:"withargs" help:"Scan new log lines and mail the 404 report"`
	Preview    PreviewCmd    `cmd:"" help:"Run the scan read-only and print the report as a table"`
	UI         UICmd         `cmd:"" help:"Browse the scan result interactively"`
	State      StateCmd      `cmd:"" help:"Inspect or reset the scan checkpoint"`
	Config     ConfigCmd     `cmd:"" help:"Show or manage configuration"`
	Doctor     DoctorCmd     `cmd:"" help:"Check log, state, and mail agent health"`
	Completion CompletionCmd `cmd:"" help:"Generate shell completions"`
	Examples   ExamplesCmd   `cmd:"" help:"Show usage examples for watch404 commands"`
}

// Globals holds shared state for all commands
type Globals struct {
	Format  string
	Quiet   bool
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
	Config  *config.Config
	Logger  *zap.Logger

	// Flag provenance, filled in by main after kong parsing.
	FlagsSet      map[string]bool
	ConfigFile    string
	ConfigSources map[string]string
}

// NewGlobals creates a new Globals instance from CLI flags
func NewGlobals(cli *CLI) *Globals {
	return &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  config.Default(),
		Logger:  zap.NewNop(),
	}
}

// NewGlobalsWithConfig creates a new Globals instance with config fallbacks
func NewGlobalsWithConfig(cli *CLI, cfg *config.Config) *Globals {
	g := &Globals{
		Format:  cli.Format,
		Quiet:   cli.Quiet,
		Verbose: cli.Verbose,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Config:  cfg,
		Logger:  zap.NewNop(),
	}

	// Apply config values if CLI flags weren't explicitly set
	if cfg != nil {
		if !cli.Quiet && cfg.Quiet {
			g.Quiet = cfg.Quiet
		}
		if !cli.Verbose && cfg.Verbose {
			g.Verbose = cfg.Verbose
		}
	}

	return g
}

// FlagSet reports whether the user typed the named flag on the command line.
func (g *Globals) FlagSet(name string) bool {
	return g.FlagsSet[name]
}

// VersionCmd shows version information
type VersionCmd struct{}

// Run executes the version command
func (v *VersionCmd) Run(globals *Globals) error {
	if globals.Format == "ndjson" {
		return report.NewNDJSONWriter(globals.Stdout).WriteVersion(Version, Commit, BuildDate)
	}
	_, err := io.WriteString(globals.Stdout, "watch404 version "+Version+" ("+Commit+")\n")
	return err
}

// Version information (set at build time)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)
