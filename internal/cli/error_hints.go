package cli

import (
	"errors"
	"os"
	"os/exec"
	"strings"
)

func hintForLog(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, os.ErrNotExist) {
		return "Check the LOG path in your config or pass --log; try `watch404 config show`"
	}
	if errors.Is(err, os.ErrPermission) {
		return "The access log is not readable by this user; check file permissions or run under the webserver's group"
	}

	return "Run `watch404 doctor` for diagnostics"
}

func hintForState(err error) string {
	if err == nil {
		return ""
	}

	if errors.Is(err, os.ErrPermission) {
		return "The state file's directory is not writable; set STATE to a writable path or pass --state"
	}

	msg := err.Error()
	if strings.Contains(msg, "no space left") {
		return "The filesystem holding the state file is full"
	}

	return "Set STATE to a writable path (the scan itself succeeded; only the checkpoint failed)"
}

func isCommandNotFound(err error, name string) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, exec.ErrNotFound) && name == "" {
		return true
	}

	var ee *exec.Error
	if errors.As(err, &ee) && strings.EqualFold(ee.Name, name) && errors.Is(ee.Err, exec.ErrNotFound) {
		return true
	}

	var pe *os.PathError
	if errors.As(err, &pe) && errors.Is(pe.Err, exec.ErrNotFound) {
		if strings.EqualFold(pe.Path, name) || strings.HasSuffix(pe.Path, string(os.PathSeparator)+name) {
			return true
		}
	}

	// Fallback to string matching for wrapped errors.
	msg := err.Error()
	if strings.Contains(msg, "executable file not found") && strings.Contains(msg, name) {
		return true
	}
	if strings.Contains(msg, "No such file or directory") && strings.Contains(msg, name) {
		return true
	}

	return false
}
