package defaults

// Exit codes for the CLI.
const (
	ExitSuccess       = 0 // Clean exit
	ExitNoResults     = 1 // No site analyzed successfully, or self-check failed
	ExitUserError     = 2 // Invalid arguments or configuration
	ExitInternalError = 4 // Unexpected internal error
	ExitInterrupted   = 130
)
