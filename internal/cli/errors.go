package cli

import (
	"errors"
	"fmt"

	"github.com/vburojevic/watch404/internal/report"
)

// outputErrorCommon normalizes error emission across commands, respecting
// ndjson vs text formats so cron captures and scripts both get a usable
// failure record.
func outputErrorCommon(globals *Globals, code, message string, hint ...string) error {
	if globals != nil && globals.Format == "ndjson" {
		report.NewNDJSONWriter(globals.Stdout).WriteError(code, message, hint...)
	} else if globals != nil {
		fmt.Fprintf(globals.Stderr, "Error [%s]: %s\n", code, message)
		if len(hint) > 0 && hint[0] != "" {
			fmt.Fprintf(globals.Stderr, "Hint: %s\n", hint[0])
		}
	}
	return errors.New(message)
}

// emitWarning respects format/quiet. Warnings never fail the run.
func emitWarning(globals *Globals, msg string) {
	if globals == nil || globals.Quiet {
		return
	}
	if globals.Format == "ndjson" {
		_ = report.NewNDJSONWriter(globals.Stdout).WriteWarning(msg)
		return
	}
	fmt.Fprintf(globals.Stderr, "Warning: %s\n", msg)
}

// errorCode picks the code carried by a CLIError, or a fallback.
func errorCode(err error, fallback string) string {
	var ce *CLIError
	if errors.As(err, &ce) && ce.Code != "" {
		return ce.Code
	}
	return fallback
}
