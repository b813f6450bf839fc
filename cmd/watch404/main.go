package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/vburojevic/watch404/internal/cli"
	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/logging"
)

func main() {
	// Load configuration from files/environment (plus provenance
	// metadata). A broken config file is a warning; the run continues
	// on defaults so a typo never silences the cron job.
	cfg, meta, err := config.LoadWithMeta()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	var c cli.CLI

	// Config-derived defaults enter flag parsing here; explicit flags
	// override them.
	vars := kong.Vars{
		"config_format": cfg.Format,
	}

	ctx := kong.Parse(&c,
		kong.Name("watch404"),
		kong.Description("Daily 404 reporter: scans the web server access log for 404s since the previous run and mails an HTML report.\n\nTypically run from cron: watch404 scan /etc/watch404/config.conf"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}),
		vars,
	)

	globals := cli.NewGlobalsWithConfig(&c, cfg)

	logger, lerr := logging.New(globals.Verbose)
	if lerr == nil {
		globals.Logger = logger
		defer func() { _ = logger.Sync() }()
	}

	// Record which flags were explicitly provided so commands can
	// distinguish CLI overrides from config defaults.
	flagsSet := map[string]bool{}
	for _, p := range ctx.Path {
		if p.Flag != nil {
			flagsSet[p.Flag.Name] = true
		}
	}
	globals.FlagsSet = flagsSet
	if meta != nil {
		globals.ConfigFile = meta.ConfigFile
	}
	globals.ConfigSources = config.ComputeSources(meta, flagsSet)

	if err := ctx.Run(globals); err != nil {
		os.Exit(1)
	}
}
