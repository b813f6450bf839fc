package cli

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/vburojevic/watch404/internal/report"
	"github.com/vburojevic/watch404/internal/state"
)

// StateCmd inspects or resets the scan checkpoint
type StateCmd struct {
	Show  StateShowCmd  `cmd:"" default:"withargs" help:"Show the stored checkpoint against the current log"`
	Reset StateResetCmd `cmd:"" help:"Delete the checkpoint so the next scan starts from the top"`
}

// StateShowCmd shows the stored checkpoint
type StateShowCmd struct {
	ConfigPath string `arg:"" optional:"" name:"config" help:"KEY=VALUE config file (bypasses the search path)" type:"path"`
	Log        string `help:"Access log to compare against" placeholder:"FILE"`
	State      string `help:"Checkpoint file" placeholder:"FILE"`
}

// Run executes the state show command
func (c *StateShowCmd) Run(globals *Globals) error {
	opts := resolveScanOptions(globals, &ScanFlags{ConfigPath: c.ConfigPath, Log: c.Log, State: c.State})

	cp, err := state.Load(opts.StatePath)
	if err != nil {
		emitWarning(globals, fmt.Sprintf("state file unreadable: %v", err))
	}

	if globals.Format == "ndjson" {
		return report.NewNDJSONWriter(globals.Stdout).WriteState(opts.StatePath, cp)
	}

	if cp == nil {
		fmt.Fprintf(globals.Stdout, "No checkpoint at %s; the next scan starts from the top.\n", opts.StatePath)
	} else {
		fmt.Fprintf(globals.Stdout, "Checkpoint %s\n", opts.StatePath)
		fmt.Fprintf(globals.Stdout, "  device/inode: %d/%d\n", cp.Identity.Device, cp.Identity.Inode)
		fmt.Fprintf(globals.Stdout, "  offset:       %s (%d bytes)\n", humanize.Bytes(uint64(cp.Offset)), cp.Offset)
	}

	if opts.Log == "" {
		return nil
	}

	fi, err := os.Stat(opts.Log)
	if err != nil {
		fmt.Fprintf(globals.Stdout, "Log %s: %v\n", opts.Log, err)
		return nil
	}

	id, ok := state.Identity(fi)
	fmt.Fprintf(globals.Stdout, "Log %s\n", opts.Log)
	if ok {
		fmt.Fprintf(globals.Stdout, "  device/inode: %d/%d\n", id.Device, id.Inode)
	}
	fmt.Fprintf(globals.Stdout, "  size:         %s (%d bytes)\n", humanize.Bytes(uint64(fi.Size())), fi.Size())

	if cp == nil {
		return nil
	}

	effective := state.Reconcile(cp, id, fi.Size())
	switch {
	case effective == cp.Offset:
		fmt.Fprintf(globals.Stdout, "Next scan resumes at offset %d (%s unread).\n",
			effective, humanize.Bytes(uint64(fi.Size()-effective)))
	case cp.Identity != id:
		fmt.Fprintln(globals.Stdout, "The log was rotated; the next scan starts from the top.")
	default:
		fmt.Fprintln(globals.Stdout, "The log shrank (truncation or copytruncate rotation); the next scan starts from the top.")
	}

	return nil
}

// StateResetCmd deletes the stored checkpoint
type StateResetCmd struct {
	ConfigPath string `arg:"" optional:"" name:"config" help:"KEY=VALUE config file (bypasses the search path)" type:"path"`
	State      string `help:"Checkpoint file" placeholder:"FILE"`
}

// Run executes the state reset command
func (c *StateResetCmd) Run(globals *Globals) error {
	opts := resolveScanOptions(globals, &ScanFlags{ConfigPath: c.ConfigPath, State: c.State})

	if err := state.Reset(opts.StatePath); err != nil {
		return outputErrorCommon(globals, codeStateWriteFailed,
			fmt.Sprintf("reset checkpoint: %v", err), hintForState(err))
	}

	if globals.Format == "ndjson" {
		return report.NewNDJSONWriter(globals.Stdout).WriteState(opts.StatePath, nil)
	}
	if !globals.Quiet {
		fmt.Fprintf(globals.Stdout, "Checkpoint %s removed; the next scan starts from the top.\n", opts.StatePath)
	}

	return nil
}
