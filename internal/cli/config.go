package cli

import (
	"fmt"
	"sort"

	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/report"
)

// ConfigCmd shows or manages configuration
type ConfigCmd struct {
	Show     ConfigShowCmd     `cmd:"" default:"withargs" help:"Show the resolved configuration and where it came from"`
	Path     ConfigPathCmd     `cmd:"" help:"Show which config file would be loaded"`
	Generate ConfigGenerateCmd `cmd:"" help:"Print a sample config file"`
}

// ConfigShowCmd shows the resolved configuration
type ConfigShowCmd struct{}

// Run executes the config show command
func (c *ConfigShowCmd) Run(globals *Globals) error {
	cfg := globals.Config
	if cfg == nil {
		cfg = config.Default()
	}
	settings := cfg.Settings()

	if globals.Format == "ndjson" {
		return report.NewNDJSONWriter(globals.Stdout).WriteConfig(&report.ConfigOutput{
			File:     globals.ConfigFile,
			Settings: settings,
			Sources:  globals.ConfigSources,
		})
	}

	fmt.Fprintln(globals.Stdout, "Current configuration:")
	fmt.Fprintln(globals.Stdout)

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		line := fmt.Sprintf("  %-15s %s", k, settings[k])
		if src, ok := globals.ConfigSources[k]; ok && src != "default" {
			line += "  (" + src + ")"
		}
		fmt.Fprintln(globals.Stdout, line)
	}

	fmt.Fprintln(globals.Stdout)
	if globals.ConfigFile != "" {
		fmt.Fprintf(globals.Stdout, "Loaded from: %s\n", globals.ConfigFile)
	} else {
		fmt.Fprintln(globals.Stdout, "No config file found; built-in defaults are in effect.")
	}

	return nil
}

// ConfigPathCmd shows which config file would be loaded
type ConfigPathCmd struct{}

// Run executes the config path command
func (c *ConfigPathCmd) Run(globals *Globals) error {
	path := config.ConfigFile()

	if globals.Format == "ndjson" {
		return report.NewNDJSONWriter(globals.Stdout).WriteRaw(map[string]interface{}{
			"type":           "config_path",
			"schema_version": report.SchemaVersion,
			"path":           path,
		})
	}

	if path == "" {
		fmt.Fprintln(globals.Stdout, "No configuration file found")
		fmt.Fprintln(globals.Stdout)
		fmt.Fprintln(globals.Stdout, "Create one at:")
		fmt.Fprintln(globals.Stdout, "  ./.watch404.conf")
		fmt.Fprintln(globals.Stdout, "  ~/.watch404.conf")
		fmt.Fprintln(globals.Stdout, "  $XDG_CONFIG_HOME/watch404/config.conf")
		fmt.Fprintln(globals.Stdout, "  /etc/watch404/config.conf")
	} else {
		fmt.Fprintf(globals.Stdout, "Config file: %s\n", path)
	}

	return nil
}

// ConfigGenerateCmd prints a sample configuration file
type ConfigGenerateCmd struct{}

// Run executes the config generate command
func (c *ConfigGenerateCmd) Run(globals *Globals) error {
	sampleConfig := `# watch404 configuration file
# Place this at ./.watch404.conf, ~/.watch404.conf,
# $XDG_CONFIG_HOME/watch404/config.conf, or /etc/watch404/config.conf
# (or pass the path as the first argument to scan/preview).
#
# Format: KEY=VALUE, one per line. Keys are case-insensitive.

# Access log to scan (combined log format).
LOG=/var/log/apache2/access.log

# Where the scan checkpoint lives. The directory must be writable.
STATE=/var/lib/watch404/state.json

# Report recipient. Leave empty to print the report to stdout.
TO=webmaster@example.com

# Sender address. Defaults to TO when unset.
#FROM=noreply@example.com

# Subject line. Defaults to "404 report for <host>".
#SUBJECT=nightly 404 report

# Host label shown in the report header. Defaults to the machine hostname.
#SERVER=www.example.com

# Only report 404s under this URL prefix.
#PREFIX=/images

# Filesystem docroot; the URL prefix is derived from it when PREFIX is
# unset (everything after /httpdocs, /htdocs, /public_html, or /public).
#PATH=/var/www/vhosts/example.com/httpdocs/images

# Only report missing images.
#IMAGES_ONLY=true

# Extensions that count as images, comma separated.
#IMAGE_EXT=png,gif,jpg,jpeg,ico,svg,webp

# Skip 404s under these URL prefixes, comma separated.
#EXCLUDE_PREFIX=/favicon.ico,/.well-known

# Mail agent binary. Defaults to sendmail on PATH.
#SENDMAIL=/usr/sbin/sendmail

# Output format: text or ndjson.
#FORMAT=text
`

	fmt.Fprint(globals.Stdout, sampleConfig)
	return nil
}
