package cli

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/vburojevic/watch404/internal/config"
	"github.com/vburojevic/watch404/internal/report"
	"github.com/vburojevic/watch404/internal/state"
)

// DoctorCmd checks that a scheduled scan would actually work: the log is
// readable, the checkpoint is writable, a mail agent exists, and the
// config file parses.
type DoctorCmd struct {
	ConfigPath string `arg:"" optional:"" name:"config" help:"KEY=VALUE config file (bypasses the search path)" type:"path"`
	Log        string `help:"Access log to check" placeholder:"FILE"`
	State      string `help:"Checkpoint file to check" placeholder:"FILE"`
}

// Run executes the doctor command
func (c *DoctorCmd) Run(globals *Globals) error {
	opts := resolveScanOptions(globals, &ScanFlags{ConfigPath: c.ConfigPath, Log: c.Log, State: c.State})

	// The checks are independent probes; run them together and keep
	// the output order fixed.
	checks := make([]report.CheckOutput, 4)
	var g errgroup.Group

	g.Go(func() error {
		checks[0] = checkLog(opts.Log)
		return nil
	})
	g.Go(func() error {
		checks[1] = checkState(opts.StatePath)
		return nil
	})
	g.Go(func() error {
		checks[2] = checkMailAgent(opts.SendmailPath, opts.To)
		return nil
	})
	g.Go(func() error {
		checks[3] = checkConfigFile(c.ConfigPath)
		return nil
	})

	_ = g.Wait()

	if globals.Format == "ndjson" {
		nd := report.NewNDJSONWriter(globals.Stdout)
		for _, check := range checks {
			if err := nd.WriteCheck(check.Name, check.Status, check.Message, check.Details); err != nil {
				return err
			}
		}
		return nil
	}

	fmt.Fprintln(globals.Stdout, "watch404 doctor")
	fmt.Fprintln(globals.Stdout)

	warnings, failures := 0, 0
	for _, check := range checks {
		switch check.Status {
		case "warn":
			warnings++
		case "fail":
			failures++
		}

		fmt.Fprintf(globals.Stdout, "%s %s\n", report.CheckIndicator(check.Status), check.Name)
		if check.Message != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Message)
		}
		if check.Details != "" {
			fmt.Fprintf(globals.Stdout, "  %s\n", check.Details)
		}
	}

	fmt.Fprintln(globals.Stdout)
	if failures == 0 && warnings == 0 {
		fmt.Fprintln(globals.Stdout, "All checks passed.")
	} else {
		fmt.Fprintf(globals.Stdout, "Failures: %d, warnings: %d\n", failures, warnings)
	}

	return nil
}

func checkLog(path string) report.CheckOutput {
	if path == "" {
		return report.CheckOutput{
			Name:    "access log",
			Status:  "warn",
			Message: "no access log configured",
			Details: "Set LOG in a config file or pass --log",
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return report.CheckOutput{
			Name:    "access log",
			Status:  "fail",
			Message: fmt.Sprintf("cannot open %s: %v", path, err),
			Details: hintForLog(err),
		}
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return report.CheckOutput{
			Name:    "access log",
			Status:  "fail",
			Message: fmt.Sprintf("cannot stat %s: %v", path, err),
		}
	}

	return report.CheckOutput{
		Name:    "access log",
		Status:  "ok",
		Message: fmt.Sprintf("%s (%s)", path, humanize.Bytes(uint64(fi.Size()))),
	}
}

func checkState(path string) report.CheckOutput {
	if path == "" {
		return report.CheckOutput{
			Name:    "state file",
			Status:  "warn",
			Message: "no state file configured; every scan would start from the top",
		}
	}

	if _, err := state.Load(path); err != nil {
		return report.CheckOutput{
			Name:    "state file",
			Status:  "warn",
			Message: fmt.Sprintf("existing state is unusable: %v", err),
			Details: "The next scan starts from the top and rewrites it",
		}
	}

	// Probe that a checkpoint save would succeed: same directory, same
	// kind of write.
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return report.CheckOutput{
			Name:    "state file",
			Status:  "fail",
			Message: fmt.Sprintf("state directory not writable: %v", err),
			Details: hintForState(err),
		}
	}
	probe, err := os.CreateTemp(dir, ".watch404-doctor-*")
	if err != nil {
		return report.CheckOutput{
			Name:    "state file",
			Status:  "fail",
			Message: fmt.Sprintf("state directory not writable: %v", err),
			Details: hintForState(err),
		}
	}
	probe.Close()
	os.Remove(probe.Name())

	return report.CheckOutput{
		Name:    "state file",
		Status:  "ok",
		Message: path,
	}
}

func checkMailAgent(sendmailPath, to string) report.CheckOutput {
	agent := sendmailPath
	if agent == "" {
		agent = "sendmail"
	}

	resolved, err := exec.LookPath(agent)
	if err != nil {
		details := "Reports will be printed to stdout instead"
		if to == "" {
			details = "No recipient configured either; reports go to stdout"
		}
		return report.CheckOutput{
			Name:    "mail agent",
			Status:  "warn",
			Message: fmt.Sprintf("%s not found", agent),
			Details: details,
		}
	}

	return report.CheckOutput{
		Name:    "mail agent",
		Status:  "ok",
		Message: resolved,
	}
}

func checkConfigFile(explicit string) report.CheckOutput {
	if explicit != "" {
		if _, _, err := config.LoadFromFile(explicit); err != nil {
			return report.CheckOutput{
				Name:    "config file",
				Status:  "warn",
				Message: fmt.Sprintf("%s: %v", explicit, err),
				Details: "Scans would fall back to built-in defaults",
			}
		}
		return report.CheckOutput{
			Name:    "config file",
			Status:  "ok",
			Message: explicit,
		}
	}

	path := config.ConfigFile()
	if path == "" {
		return report.CheckOutput{
			Name:    "config file",
			Status:  "warn",
			Message: "no config file found; built-in defaults are in effect",
			Details: "Run `watch404 config generate` for a starting point",
		}
	}

	if _, _, err := config.LoadFromFile(path); err != nil {
		return report.CheckOutput{
			Name:    "config file",
			Status:  "warn",
			Message: fmt.Sprintf("%s: %v", path, err),
			Details: "Scans would fall back to built-in defaults",
		}
	}

	return report.CheckOutput{
		Name:    "config file",
		Status:  "ok",
		Message: path,
	}
}
