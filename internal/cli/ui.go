package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/vburojevic/watch404/internal/tui"
)

// UICmd opens the interactive browser over a read-only scan: the
// checkpoint is left untouched and nothing is mailed, exactly like
// preview.
type UICmd struct {
	ScanFlags
}

// Run executes the ui command
func (c *UICmd) Run(globals *Globals) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return outputErrorCommon(globals, codeInvalidArgs,
			"the interactive browser requires a terminal",
			"Use `watch404 preview` for non-interactive output")
	}

	opts := resolveScanOptions(globals, &c.ScanFlags)

	agg, _, err := runScan(globals, opts, false)
	if err != nil {
		return err
	}

	if agg.Empty() {
		fmt.Fprintln(globals.Stdout, "No recorded 404s in the scan window.")
		return nil
	}

	p := tea.NewProgram(tui.New(agg), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("ui error: %w", err)
	}

	return nil
}
