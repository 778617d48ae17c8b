package main

// Exit codes
const (
	ExitSuccess     = 0   // Success, including runs with per-entry failures
	ExitError       = 1   // General error (invalid arguments, I/O failure)
	ExitConfigError = 2   // Configuration error (bad config file, env or flag values)
	ExitDataError   = 3   // Input source could not be read as references (e.g. bad PDF)
	ExitInterrupted = 130 // Run canceled by SIGINT or SIGTERM
)
