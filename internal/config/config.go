package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Global settings
	Format  string
	Quiet   bool
	Verbose bool

	Scan ScanConfig
	Mail MailConfig
}

// ScanConfig holds the scan surface: what to read and what counts as a
// reportable miss
type ScanConfig struct {
	Log           string   // LOG: access log path
	Prefix        string   // PREFIX: URL prefix to watch
	Path          string   // PATH: filesystem docroot, feeds the prefix heuristic
	Host          string   // SERVER (alias HOST): host label for the report
	State         string   // STATE: checkpoint file path
	ImagesOnly    bool     // IMAGES_ONLY
	ImageExt      []string // IMAGE_EXT: comma list
	ExcludePrefix []string // EXCLUDE_PREFIX: comma list
}

// MailConfig holds report delivery settings
type MailConfig struct {
	To       string // TO: recipient
	From     string // FROM: sender, defaults to TO
	Subject  string // SUBJECT
	Sendmail string // SENDMAIL: mail agent binary override
}

// Default returns a Config with default values
func Default() *Config {
	host, err := os.Hostname()
	if err != nil {
		host = "localhost"
	}

	return &Config{
		Format: "text",
		Scan: ScanConfig{
			Host:     host,
			State:    ".404_state.json",
			ImageExt: []string{"png", "gif", "jpg", "jpeg", "ico", "svg", "webp"},
		},
	}
}

// Load loads configuration from files and environment.
// Config file search order (highest precedence first):
// 1. ./.watch404.conf or ./watch404.conf
// 2. ~/.watch404.conf
// 3. $XDG_CONFIG_HOME/watch404/config.conf (or ~/.config/watch404/config.conf)
// 4. /etc/watch404/config.conf
func Load() (*Config, error) {
	cfg, _, err := LoadWithMeta()
	return cfg, err
}

// LoadWithMeta is Load plus provenance: which settings the config file
// and the environment actually supplied. On a file error the returned
// Config still carries defaults and env overrides, so callers can warn
// and keep going.
func LoadWithMeta() (*Config, *Meta, error) {
	cfg := Default()
	meta := NewMeta()

	var readErr error
	if configFile := findConfigFile(); configFile != "" {
		meta.ConfigFile = configFile
		v, err := readKeyValueFile(configFile)
		if err != nil {
			readErr = err
		} else {
			applyFile(cfg, v, meta)
		}
	}

	applyEnvOverrides(cfg, meta)

	return cfg, meta, readErr
}

// LoadFromFile loads configuration from a specific file instead of the
// search path. Environment overrides still apply on top.
func LoadFromFile(path string) (*Config, *Meta, error) {
	cfg := Default()
	meta := NewMeta()
	meta.ConfigFile = path

	v, err := readKeyValueFile(path)
	if err != nil {
		applyEnvOverrides(cfg, meta)
		return cfg, meta, err
	}

	applyFile(cfg, v, meta)
	applyEnvOverrides(cfg, meta)

	return cfg, meta, nil
}

// ConfigFile returns the path to the config file that would be loaded
func ConfigFile() string {
	return findConfigFile()
}

// readKeyValueFile parses a KEY=VALUE config file. The "env" type keeps
// the original tool's format working unchanged.
func readKeyValueFile(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	return v, nil
}

// findConfigFile searches for a config file in standard locations
func findConfigFile() string {
	var candidates []string

	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates,
			filepath.Join(cwd, ".watch404.conf"),
			filepath.Join(cwd, "watch404.conf"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".watch404.conf"))
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "watch404", "config.conf"))
	}
	candidates = append(candidates, "/etc/watch404/config.conf")

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// applyFile copies file-provided keys into cfg. Viper lowercases keys,
// so LOG= and log= both land on "log".
func applyFile(cfg *Config, v *viper.Viper, meta *Meta) {
	if v.IsSet("log") {
		cfg.Scan.Log = v.GetString("log")
		meta.FromFile["log"] = true
	}
	if v.IsSet("prefix") {
		cfg.Scan.Prefix = v.GetString("prefix")
		meta.FromFile["prefix"] = true
	}
	if v.IsSet("path") {
		cfg.Scan.Path = v.GetString("path")
		meta.FromFile["path"] = true
	}
	if v.IsSet("host") {
		cfg.Scan.Host = v.GetString("host")
		meta.FromFile["host"] = true
	}
	if v.IsSet("server") {
		// SERVER is the canonical key and wins over the HOST alias.
		cfg.Scan.Host = v.GetString("server")
		meta.FromFile["host"] = true
	}
	if v.IsSet("state") {
		cfg.Scan.State = v.GetString("state")
		meta.FromFile["state"] = true
	}
	if v.IsSet("images_only") {
		cfg.Scan.ImagesOnly = v.GetBool("images_only")
		meta.FromFile["images_only"] = true
	}
	if v.IsSet("image_ext") {
		cfg.Scan.ImageExt = SplitList(v.GetString("image_ext"))
		meta.FromFile["image_ext"] = true
	}
	if v.IsSet("exclude_prefix") {
		cfg.Scan.ExcludePrefix = SplitList(v.GetString("exclude_prefix"))
		meta.FromFile["exclude_prefix"] = true
	}
	if v.IsSet("to") {
		cfg.Mail.To = v.GetString("to")
		meta.FromFile["to"] = true
	}
	if v.IsSet("from") {
		cfg.Mail.From = v.GetString("from")
		meta.FromFile["from"] = true
	}
	if v.IsSet("subject") {
		cfg.Mail.Subject = v.GetString("subject")
		meta.FromFile["subject"] = true
	}
	if v.IsSet("sendmail") {
		cfg.Mail.Sendmail = v.GetString("sendmail")
		meta.FromFile["sendmail"] = true
	}
	if v.IsSet("format") {
		cfg.Format = v.GetString("format")
		meta.FromFile["format"] = true
	}
	if v.IsSet("quiet") {
		cfg.Quiet = v.GetBool("quiet")
		meta.FromFile["quiet"] = true
	}
	if v.IsSet("verbose") {
		cfg.Verbose = v.GetBool("verbose")
		meta.FromFile["verbose"] = true
	}
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(cfg *Config, meta *Meta) {
	if v := os.Getenv("WATCH404_LOG"); v != "" {
		cfg.Scan.Log = v
		meta.FromEnv["log"] = true
	}
	if v := os.Getenv("WATCH404_PREFIX"); v != "" {
		cfg.Scan.Prefix = v
		meta.FromEnv["prefix"] = true
	}
	if v := os.Getenv("WATCH404_HOST"); v != "" {
		cfg.Scan.Host = v
		meta.FromEnv["host"] = true
	}
	if v := os.Getenv("WATCH404_STATE"); v != "" {
		cfg.Scan.State = v
		meta.FromEnv["state"] = true
	}
	if v := os.Getenv("WATCH404_TO"); v != "" {
		cfg.Mail.To = v
		meta.FromEnv["to"] = true
	}
	if v := os.Getenv("WATCH404_FROM"); v != "" {
		cfg.Mail.From = v
		meta.FromEnv["from"] = true
	}
	if v := os.Getenv("WATCH404_SENDMAIL"); v != "" {
		cfg.Mail.Sendmail = v
		meta.FromEnv["sendmail"] = true
	}
	if v := os.Getenv("WATCH404_FORMAT"); v != "" {
		cfg.Format = v
		meta.FromEnv["format"] = true
	}
	if v := os.Getenv("WATCH404_QUIET"); v == "true" || v == "1" {
		cfg.Quiet = true
		meta.FromEnv["quiet"] = true
	}
	if v := os.Getenv("WATCH404_VERBOSE"); v == "true" || v == "1" {
		cfg.Verbose = true
		meta.FromEnv["verbose"] = true
	}
}

// SplitList parses a comma-separated config value, dropping empty
// entries and surrounding whitespace.
func SplitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// Settings flattens the configuration into its canonical key=value
// view, the shape `config show` prints.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		"log":            c.Scan.Log,
		"prefix":         c.Scan.Prefix,
		"path":           c.Scan.Path,
		"host":           c.Scan.Host,
		"state":          c.Scan.State,
		"images_only":    strconv.FormatBool(c.Scan.ImagesOnly),
		"image_ext":      strings.Join(c.Scan.ImageExt, ","),
		"exclude_prefix": strings.Join(c.Scan.ExcludePrefix, ","),
		"to":             c.Mail.To,
		"from":           c.Mail.From,
		"subject":        c.Mail.Subject,
		"sendmail":       c.Mail.Sendmail,
		"format":         c.Format,
		"quiet":          strconv.FormatBool(c.Quiet),
		"verbose":        strconv.FormatBool(c.Verbose),
	}
}
