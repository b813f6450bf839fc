package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExamplesCmd shows usage examples for watch404 commands
type ExamplesCmd struct {
	Command string `arg:"" optional:"" help:"Show examples for specific command (scan, preview, state, etc.)"`
	JSON    bool   `help:"Output as JSON for programmatic access"`
}

// Example represents a single usage example
type Example struct {
	Command     string `json:"command"`
	Description string `json:"description"`
	Output      string `json:"output,omitempty"`
	When        string `json:"when,omitempty"`
}

// CommandExamples holds examples for a single command
type CommandExamples struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Examples    []Example `json:"examples"`
}

// AllExamples contains examples for all commands
type AllExamples struct {
	Type      string            `json:"type"`
	Version   string            `json:"version"`
	Commands  []CommandExamples `json:"commands"`
	Workflows []WorkflowExample `json:"workflows"`
}

// WorkflowExample shows a multi-step workflow
type WorkflowExample struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	When        string   `json:"when"`
	Steps       []string `json:"steps"`
}

var exampleOrder = []string{"scan", "preview", "ui", "state", "config", "doctor", "version", "completion", "examples"}

var commandExamples = map[string]CommandExamples{
	"scan": {
		Name:        "scan",
		Description: "Scan new log lines and mail the 404 report",
		Examples: []Example{
			{
				Command:     `watch404 scan /etc/watch404/config.conf`,
				Description: "The nightly cron run with an explicit config file",
				When:        "Scheduled from crontab; silent unless something needs attention",
			},
			{
				Command:     `watch404 --log /var/log/apache2/access.log --to webmaster@example.com`,
				Description: "Scan is the default command; flags work without naming it",
				When:        "One-off runs without a config file",
			},
			{
				Command:     `watch404 scan --log access.log --prefix /images --images-only --to ops@example.com`,
				Description: "Only report missing images under /images",
				When:        "Watching a gallery or asset directory for broken hotlinks",
			},
			{
				Command:     `watch404 scan --log access.log --stdout`,
				Description: "Print the report instead of mailing it",
				When:        "No mail agent on the machine, or capturing the report in a pipeline",
			},
			{
				Command:     `watch404 scan --log access.log --dry-run`,
				Description: "Full scan without saving the checkpoint or sending mail",
				When:        "Testing filters before wiring the cron job",
			},
			{
				Command:     `watch404 -f ndjson scan --log access.log`,
				Description: "Machine-readable run: one JSON object per aggregated miss plus a summary",
				Output:      `{"type":"miss","path":"/images/logo.png","hits":12,...}`,
				When:        "Feeding the results into scripts or dashboards",
			},
		},
	},
	"preview": {
		Name:        "preview",
		Description: "Run the scan read-only and print the report as a table",
		Examples: []Example{
			{
				Command:     `watch404 preview`,
				Description: "What would tonight's mail say, as a terminal table",
				When:        "Checking in between scheduled runs without moving the checkpoint",
			},
			{
				Command:     `watch404 preview --log access.log --exclude-prefix /favicon.ico`,
				Description: "Try an exclusion before adding it to the config",
				When:        "Tuning filters against live data",
			},
		},
	},
	"ui": {
		Name:        "ui",
		Description: "Browse the scan result interactively",
		Examples: []Example{
			{
				Command:     `watch404 ui`,
				Description: "Scrollable miss list; enter drills into a path's referrers",
				When:        "Digging into where the broken links actually live",
			},
		},
	},
	"state": {
		Name:        "state",
		Description: "Inspect or reset the scan checkpoint",
		Examples: []Example{
			{
				Command:     `watch404 state show`,
				Description: "Stored checkpoint next to the live log's identity and size",
				When:        "Verifying that the next run resumes where the last one stopped",
			},
			{
				Command:     `watch404 state reset`,
				Description: "Delete the checkpoint; the next scan starts from the top",
				When:        "After pointing the tool at a different log file",
			},
		},
	},
	"config": {
		Name:        "config",
		Description: "Show or manage configuration",
		Examples: []Example{
			{
				Command:     `watch404 config show`,
				Description: "Effective settings with their provenance (flag/env/config/default)",
			},
			{
				Command:     `watch404 config path`,
				Description: "Which config file would be loaded",
			},
			{
				Command:     `watch404 config generate > ~/.watch404.conf`,
				Description: "Write a commented sample config",
				When:        "Bootstrapping a new host",
			},
		},
	},
	"doctor": {
		Name:        "doctor",
		Description: "Check log, state, and mail agent health",
		Examples: []Example{
			{
				Command:     `watch404 doctor`,
				Description: "Run all checks against the resolved configuration",
				When:        "Before installing the cron job on a new machine",
			},
			{
				Command:     `watch404 doctor /etc/watch404/config.conf`,
				Description: "Check a specific config file",
			},
		},
	},
	"version": {
		Name:        "version",
		Description: "Show version information",
		Examples: []Example{
			{
				Command:     `watch404 version`,
				Description: "Human-readable version output",
			},
			{
				Command:     `watch404 -f ndjson version`,
				Description: "Machine-readable version output",
				Output:      `{"type":"version","schema_version":1,"version":"dev","commit":"none"}`,
			},
		},
	},
	"completion": {
		Name:        "completion",
		Description: "Generate shell completions",
		Examples: []Example{
			{
				Command:     `watch404 completion zsh > _watch404`,
				Description: "Generate zsh completion script",
				When:        "Install completions locally",
			},
			{
				Command:     `eval "$(watch404 completion bash)"`,
				Description: "Enable bash completions for the current shell",
			},
		},
	},
	"examples": {
		Name:        "examples",
		Description: "Show curated usage examples",
		Examples: []Example{
			{
				Command:     `watch404 examples`,
				Description: "Show all examples",
			},
			{
				Command:     `watch404 examples scan`,
				Description: "Show examples for a single command",
			},
			{
				Command:     `watch404 examples --json`,
				Description: "Machine-readable examples",
			},
		},
	},
}

var workflows = []WorkflowExample{
	{
		Name:        "nightly_cron",
		Description: "The intended deployment: a nightly mail with the day's 404s",
		When:        "You own a site and want to hear about broken links once a day",
		Steps: []string{
			`watch404 config generate > /etc/watch404/config.conf`,
			"# Edit LOG, STATE, and TO for the host",
			`watch404 doctor /etc/watch404/config.conf`,
			`echo '10 0 * * * watch404 scan /etc/watch404/config.conf' | crontab -`,
		},
	},
	{
		Name:        "filter_tuning",
		Description: "Tighten the report without touching the checkpoint",
		When:        "The report is noisy and you want fewer, better entries",
		Steps: []string{
			`watch404 preview --exclude-prefix /favicon.ico,/.well-known`,
			"# Iterate on the flags until the table looks right",
			"# Copy the winning values into the config file",
			`watch404 preview`,
		},
	},
	{
		Name:        "scripted_consumption",
		Description: "Pipe aggregated misses into other tooling",
		When:        "A dashboard or ticket system should track missing paths",
		Steps: []string{
			`watch404 -f ndjson scan /etc/watch404/config.conf > run.ndjson`,
			`jq -r 'select(.type=="miss") | "\(.hits)\t\(.path)"' run.ndjson`,
		},
	},
}

// Run executes the examples command
func (c *ExamplesCmd) Run(globals *Globals) error {
	if c.JSON {
		return c.outputJSON(globals)
	}
	return c.outputText(globals)
}

func (c *ExamplesCmd) outputJSON(globals *Globals) error {
	all := AllExamples{
		Type:      "examples",
		Version:   Version,
		Workflows: workflows,
	}

	if c.Command != "" {
		examples, ok := commandExamples[c.Command]
		if !ok {
			return fmt.Errorf("unknown command: %s", c.Command)
		}
		all.Commands = []CommandExamples{examples}
	} else {
		for _, cmd := range exampleOrder {
			if examples, ok := commandExamples[cmd]; ok {
				all.Commands = append(all.Commands, examples)
			}
		}
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(globals.Stdout, string(data)); err != nil {
		return err
	}
	return nil
}

func (c *ExamplesCmd) outputText(globals *Globals) error {
	var sb strings.Builder

	if c.Command != "" {
		examples, ok := commandExamples[c.Command]
		if !ok {
			return fmt.Errorf("unknown command: %s\nAvailable: %s", c.Command, strings.Join(exampleOrder, ", "))
		}
		c.formatCommandExamples(&sb, examples)
	} else {
		sb.WriteString("WATCH404 USAGE EXAMPLES\n")
		sb.WriteString("=======================\n\n")

		for _, cmd := range exampleOrder {
			if examples, ok := commandExamples[cmd]; ok {
				c.formatCommandExamples(&sb, examples)
				sb.WriteString("\n")
			}
		}

		sb.WriteString("WORKFLOWS\n")
		sb.WriteString("---------\n\n")
		for _, wf := range workflows {
			sb.WriteString(fmt.Sprintf("## %s\n", wf.Name))
			sb.WriteString(fmt.Sprintf("%s\n", wf.Description))
			sb.WriteString(fmt.Sprintf("When: %s\n\n", wf.When))
			for _, step := range wf.Steps {
				sb.WriteString(fmt.Sprintf("  %s\n", step))
			}
			sb.WriteString("\n")
		}
	}

	if _, err := fmt.Fprint(globals.Stdout, sb.String()); err != nil {
		return err
	}
	return nil
}

func (c *ExamplesCmd) formatCommandExamples(sb *strings.Builder, cmd CommandExamples) {
	sb.WriteString(fmt.Sprintf("## %s\n", strings.ToUpper(cmd.Name)))
	sb.WriteString(fmt.Sprintf("%s\n\n", cmd.Description))

	for _, ex := range cmd.Examples {
		sb.WriteString(fmt.Sprintf("  %s\n", ex.Command))
		sb.WriteString(fmt.Sprintf("    %s\n", ex.Description))
		if ex.Output != "" {
			sb.WriteString(fmt.Sprintf("    Output: %s\n", ex.Output))
		}
		if ex.When != "" {
			sb.WriteString(fmt.Sprintf("    When: %s\n", ex.When))
		}
		sb.WriteString("\n")
	}
}
