package config

import "strings"

// Meta records where resolved settings came from, for `config show`.
type Meta struct {
	ConfigFile string
	FromFile   map[string]bool
	FromEnv    map[string]bool
}

// NewMeta returns an empty provenance record.
func NewMeta() *Meta {
	return &Meta{
		FromFile: make(map[string]bool),
		FromEnv:  make(map[string]bool),
	}
}

// settingNames are the canonical names provenance is computed over,
// matching the keys of Config.Settings.
var settingNames = []string{
	"log", "prefix", "path", "host", "state",
	"images_only", "image_ext", "exclude_prefix",
	"to", "from", "subject", "sendmail",
	"format", "quiet", "verbose",
}

// ComputeSources returns per-setting provenance. Precedence mirrors
// resolution order: flag beats env beats config file beats default.
// Flag names arrive in kong's hyphenated spelling.
func ComputeSources(meta *Meta, flagsSet map[string]bool) map[string]string {
	sources := make(map[string]string, len(settingNames))
	for _, name := range settingNames {
		switch {
		case flagsSet[name] || flagsSet[strings.ReplaceAll(name, "_", "-")]:
			sources[name] = "flag"
		case meta != nil && meta.FromEnv[name]:
			sources[name] = "env"
		case meta != nil && meta.FromFile[name]:
			sources[name] = "config"
		default:
			sources[name] = "default"
		}
	}
	return sources
}
