package cli

// Error codes used across commands. Only the fatal ones reach exit
// status 1; everything else is a warning and the run continues.
const (
	codeLogNotFound      = "LOG_NOT_FOUND"
	codeStateWriteFailed = "STATE_WRITE_FAILED"
	codeInvalidArgs      = "INVALID_ARGS"
	codeConfigInvalid    = "CONFIG_INVALID"
)

// CLIError is a structured error used for consistent NDJSON/text emission.
type CLIError struct {
	Code    string
	Message string
	Hint    string
}

func (e *CLIError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}
