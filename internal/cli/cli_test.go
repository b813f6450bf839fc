package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/domain"
	"github.com/vburojevic/watch404/internal/state"
)

// testGlobals creates a Globals struct with captured stdout/stderr
func testGlobals(format string) (*Globals, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &Globals{
		Format:  format,
		Quiet:   false,
		Verbose: false,
		Stdout:  stdout,
		Stderr:  stderr,
		Config:  config.Default(),
		Logger:  zap.NewNop(),
	}, stdout, stderr
}

// decodeNDJSON parses every line in buf as a JSON object.
func decodeNDJSON(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var events []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var event map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &event), "line: %s", line)
		events = append(events, event)
	}
	return events
}

// --- Version Command Tests ---

func TestVersionCmd_Run(t *testing.T) {
	t.Run("outputs version in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "watch404 version")
	})

	t.Run("outputs version in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &VersionCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		assert.Equal(t, "version", result["type"])
		assert.Contains(t, result, "version")
		assert.Contains(t, result, "commit")
	})
}

// --- Config Command Tests ---

func TestConfigShowCmd_Run(t *testing.T) {
	t.Run("outputs config in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "Current configuration:")
		assert.Contains(t, output, "log")
		assert.Contains(t, output, "state")
		assert.Contains(t, output, "No config file found")
	})

	t.Run("marks non-default sources in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		globals.ConfigFile = "/etc/watch404/config.conf"
		globals.ConfigSources = map[string]string{"host": "file", "to": "flag"}

		err := (&ConfigShowCmd{}).Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "(file)")
		assert.Contains(t, output, "(flag)")
		assert.Contains(t, output, "Loaded from: /etc/watch404/config.conf")
	})

	t.Run("outputs config in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &ConfigShowCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		assert.Equal(t, "config", result["type"])
		settings := result["settings"].(map[string]interface{})
		assert.Contains(t, settings, "log")
		assert.Contains(t, settings, "state")
		assert.Contains(t, settings, "image_ext")
	})
}

func TestConfigPathCmd_Run(t *testing.T) {
	t.Run("outputs path info in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigPathCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		// Either shows the path or says no config found
		assert.True(t, strings.Contains(output, "Config file:") || strings.Contains(output, "No configuration file found"))
	})

	t.Run("outputs path in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")
		cmd := &ConfigPathCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		err = json.Unmarshal(stdout.Bytes(), &result)
		require.NoError(t, err)

		assert.Equal(t, "config_path", result["type"])
		assert.Contains(t, result, "path")
	})
}

func TestConfigGenerateCmd_Run(t *testing.T) {
	t.Run("outputs sample config file", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ConfigGenerateCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "# watch404 configuration file")
		assert.Contains(t, output, "LOG=/var/log/apache2/access.log")
		assert.Contains(t, output, "STATE=/var/lib/watch404/state.json")
		assert.Contains(t, output, "TO=webmaster@example.com")
		assert.Contains(t, output, "#IMAGES_ONLY=true")
		assert.Contains(t, output, "#EXCLUDE_PREFIX=")
	})

	t.Run("generated sample parses back", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&ConfigGenerateCmd{}).Run(globals))

		path := filepath.Join(t.TempDir(), "config.conf")
		require.NoError(t, os.WriteFile(path, stdout.Bytes(), 0644))

		cfg, _, err := config.LoadFromFile(path)
		require.NoError(t, err)
		assert.Equal(t, "/var/log/apache2/access.log", cfg.Scan.Log)
		assert.Equal(t, "/var/lib/watch404/state.json", cfg.Scan.State)
		assert.Equal(t, "webmaster@example.com", cfg.Mail.To)
	})
}

// --- State Command Tests ---

func TestStateShowCmd_Run(t *testing.T) {
	t.Run("reports missing checkpoint", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &StateShowCmd{State: filepath.Join(t.TempDir(), "state.json")}

		err := cmd.Run(globals)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "No checkpoint at")
	})

	t.Run("shows checkpoint and resume offset", func(t *testing.T) {
		tmpDir := t.TempDir()
		logPath := filepath.Join(tmpDir, "access.log")
		statePath := filepath.Join(tmpDir, "state.json")
		require.NoError(t, os.WriteFile(logPath, []byte(strings.Repeat("x", 100)), 0644))

		fi, err := os.Stat(logPath)
		require.NoError(t, err)
		id, ok := state.Identity(fi)
		require.True(t, ok)
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Identity: id, Offset: 40}))

		globals, stdout, _ := testGlobals("text")
		cmd := &StateShowCmd{Log: logPath, State: statePath}

		require.NoError(t, cmd.Run(globals))

		output := stdout.String()
		assert.Contains(t, output, "Checkpoint "+statePath)
		assert.Contains(t, output, "Log "+logPath)
		assert.Contains(t, output, "Next scan resumes at offset 40")
	})

	t.Run("detects rotation", func(t *testing.T) {
		tmpDir := t.TempDir()
		logPath := filepath.Join(tmpDir, "access.log")
		statePath := filepath.Join(tmpDir, "state.json")
		require.NoError(t, os.WriteFile(logPath, []byte("data\n"), 0644))

		fi, err := os.Stat(logPath)
		require.NoError(t, err)
		id, ok := state.Identity(fi)
		require.True(t, ok)
		// A checkpoint for a different inode means the log was replaced.
		id.Inode++
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Identity: id, Offset: 3}))

		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&StateShowCmd{Log: logPath, State: statePath}).Run(globals))

		assert.Contains(t, stdout.String(), "The log was rotated")
	})

	t.Run("detects truncation", func(t *testing.T) {
		tmpDir := t.TempDir()
		logPath := filepath.Join(tmpDir, "access.log")
		statePath := filepath.Join(tmpDir, "state.json")
		require.NoError(t, os.WriteFile(logPath, []byte("short\n"), 0644))

		fi, err := os.Stat(logPath)
		require.NoError(t, err)
		id, ok := state.Identity(fi)
		require.True(t, ok)
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Identity: id, Offset: 500}))

		globals, stdout, _ := testGlobals("text")
		require.NoError(t, (&StateShowCmd{Log: logPath, State: statePath}).Run(globals))

		assert.Contains(t, stdout.String(), "The log shrank")
	})

	t.Run("outputs state in NDJSON format", func(t *testing.T) {
		tmpDir := t.TempDir()
		logPath := filepath.Join(tmpDir, "access.log")
		statePath := filepath.Join(tmpDir, "state.json")
		require.NoError(t, os.WriteFile(logPath, []byte("data\n"), 0644))

		fi, err := os.Stat(logPath)
		require.NoError(t, err)
		id, ok := state.Identity(fi)
		require.True(t, ok)
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Identity: id, Offset: 5}))

		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&StateShowCmd{Log: logPath, State: statePath}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "state", result["type"])
		assert.Equal(t, true, result["exists"])
		assert.Equal(t, float64(5), result["offset"])
	})
}

func TestStateResetCmd_Run(t *testing.T) {
	t.Run("removes checkpoint", func(t *testing.T) {
		statePath := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Offset: 10}))

		globals, stdout, _ := testGlobals("text")
		cmd := &StateResetCmd{State: statePath}

		require.NoError(t, cmd.Run(globals))

		_, err := os.Stat(statePath)
		assert.True(t, os.IsNotExist(err), "state file should be gone")
		assert.Contains(t, stdout.String(), "removed")
	})

	t.Run("resetting a missing checkpoint is not an error", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &StateResetCmd{State: filepath.Join(t.TempDir(), "state.json")}

		assert.NoError(t, cmd.Run(globals))
	})

	t.Run("outputs state event in NDJSON format", func(t *testing.T) {
		statePath := filepath.Join(t.TempDir(), "state.json")
		require.NoError(t, state.Save(statePath, domain.Checkpoint{Offset: 10}))

		globals, stdout, _ := testGlobals("ndjson")
		require.NoError(t, (&StateResetCmd{State: statePath}).Run(globals))

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "state", result["type"])
		assert.Equal(t, false, result["exists"])
	})
}

// --- Doctor Command Tests ---

func TestDoctorCmd_Run(t *testing.T) {
	setup := func(t *testing.T) (logPath, statePath, cfgPath string) {
		t.Helper()
		tmpDir := t.TempDir()

		logPath = filepath.Join(tmpDir, "access.log")
		require.NoError(t, os.WriteFile(logPath, []byte("line\n"), 0644))
		statePath = filepath.Join(tmpDir, "state", "state.json")
		cfgPath = filepath.Join(tmpDir, "config.conf")
		require.NoError(t, os.WriteFile(cfgPath, []byte("LOG="+logPath+"\n"), 0644))

		binDir := filepath.Join(tmpDir, "bin")
		require.NoError(t, os.MkdirAll(binDir, 0755))
		stub := filepath.Join(binDir, "sendmail")
		require.NoError(t, os.WriteFile(stub, []byte("#!/bin/sh\nexit 0\n"), 0755))
		t.Setenv("PATH", binDir)

		return logPath, statePath, cfgPath
	}

	t.Run("all checks pass", func(t *testing.T) {
		logPath, statePath, cfgPath := setup(t)

		globals, stdout, _ := testGlobals("text")
		cmd := &DoctorCmd{ConfigPath: cfgPath, Log: logPath, State: statePath}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "watch404 doctor")
		assert.Contains(t, output, "access log")
		assert.Contains(t, output, "state file")
		assert.Contains(t, output, "mail agent")
		assert.Contains(t, output, "config file")
		assert.Contains(t, output, "All checks passed.")
	})

	t.Run("missing log is a failure but still exits zero", func(t *testing.T) {
		_, statePath, cfgPath := setup(t)

		globals, stdout, _ := testGlobals("text")
		cmd := &DoctorCmd{ConfigPath: cfgPath, Log: "/nonexistent/access.log", State: statePath}

		err := cmd.Run(globals)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "Failures: 1")
	})

	t.Run("missing mail agent is only a warning", func(t *testing.T) {
		logPath, statePath, cfgPath := setup(t)
		t.Setenv("PATH", t.TempDir())

		globals, stdout, _ := testGlobals("text")
		cmd := &DoctorCmd{ConfigPath: cfgPath, Log: logPath, State: statePath}

		err := cmd.Run(globals)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "warnings: 1")
	})

	t.Run("outputs one check event per check in NDJSON format", func(t *testing.T) {
		logPath, statePath, cfgPath := setup(t)

		globals, stdout, _ := testGlobals("ndjson")
		cmd := &DoctorCmd{ConfigPath: cfgPath, Log: logPath, State: statePath}

		require.NoError(t, cmd.Run(globals))

		events := decodeNDJSON(t, stdout)
		require.Len(t, events, 4)

		names := make([]string, 0, len(events))
		for _, event := range events {
			assert.Equal(t, "check", event["type"])
			assert.Equal(t, "ok", event["status"])
			names = append(names, event["name"].(string))
		}
		assert.ElementsMatch(t, []string{"access log", "state file", "mail agent", "config file"}, names)
	})
}

// --- Completion Command Tests ---

func TestCompletionCmd_Run(t *testing.T) {
	t.Run("generates bash completion", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &CompletionCmd{Shell: "bash"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "_watch404_completions")
		assert.Contains(t, output, "scan preview ui state config doctor version completion examples")
	})

	t.Run("generates zsh completion", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &CompletionCmd{Shell: "zsh"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		assert.Contains(t, stdout.String(), "#compdef watch404")
	})

	t.Run("generates fish completion", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &CompletionCmd{Shell: "fish"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "complete -c watch404")
		assert.Contains(t, output, "images-only")
	})

	t.Run("rejects unsupported shell", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &CompletionCmd{Shell: "powershell"}

		err := cmd.Run(globals)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported shell")
	})
}

// --- Examples Command Tests ---

func TestExamplesCmd_Run(t *testing.T) {
	t.Run("outputs all examples in text format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ExamplesCmd{}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "WATCH404 USAGE EXAMPLES")
		assert.Contains(t, output, "## SCAN")
		assert.Contains(t, output, "## DOCTOR")
		assert.Contains(t, output, "WORKFLOWS")
		assert.Contains(t, output, "nightly_cron")
	})

	t.Run("outputs a single command's examples", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ExamplesCmd{Command: "scan"}

		err := cmd.Run(globals)
		require.NoError(t, err)

		output := stdout.String()
		assert.Contains(t, output, "## SCAN")
		assert.NotContains(t, output, "WORKFLOWS")
	})

	t.Run("rejects unknown command", func(t *testing.T) {
		globals, _, _ := testGlobals("text")
		cmd := &ExamplesCmd{Command: "nope"}

		err := cmd.Run(globals)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unknown command")
	})

	t.Run("outputs JSON", func(t *testing.T) {
		globals, stdout, _ := testGlobals("text")
		cmd := &ExamplesCmd{JSON: true}

		err := cmd.Run(globals)
		require.NoError(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "examples", result["type"])
		assert.NotEmpty(t, result["commands"])
		assert.NotEmpty(t, result["workflows"])
	})
}

// --- Error Helper Tests ---

func TestOutputErrorCommon(t *testing.T) {
	t.Run("writes structured error in NDJSON format", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		err := outputErrorCommon(globals, codeLogNotFound, "cannot open log", "Check the LOG path")
		require.Error(t, err)

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))

		assert.Equal(t, "error", result["type"])
		assert.Equal(t, "LOG_NOT_FOUND", result["code"])
		assert.Equal(t, "cannot open log", result["message"])
		assert.Equal(t, "Check the LOG path", result["hint"])
	})

	t.Run("writes human error to stderr in text format", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")

		err := outputErrorCommon(globals, codeStateWriteFailed, "cannot save checkpoint", "Set STATE to a writable path")
		require.Error(t, err)

		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Error [STATE_WRITE_FAILED]: cannot save checkpoint")
		assert.Contains(t, stderr.String(), "Hint: Set STATE to a writable path")
	})
}

func TestEmitWarning(t *testing.T) {
	t.Run("text warnings go to stderr", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")

		emitWarning(globals, "state file unreadable")

		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "Warning: state file unreadable")
	})

	t.Run("ndjson warnings are events on stdout", func(t *testing.T) {
		globals, stdout, _ := testGlobals("ndjson")

		emitWarning(globals, "state file unreadable")

		var result map[string]interface{}
		require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
		assert.Equal(t, "warning", result["type"])
		assert.Equal(t, "state file unreadable", result["message"])
	})

	t.Run("quiet suppresses warnings", func(t *testing.T) {
		globals, stdout, stderr := testGlobals("text")
		globals.Quiet = true

		emitWarning(globals, "ignored")

		assert.Empty(t, stdout.String())
		assert.Empty(t, stderr.String())
	})
}
