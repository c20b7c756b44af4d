package errors

// Process exit codes fixed by the CLI contract.
const (
	// ExitSuccess is the normal exit code.
	ExitSuccess = 0

	// ExitFailure covers generic failures, missing sources and invalid
	// arguments.
	ExitFailure = 1

	// ExitOutdatedFound is returned by outdated when enhanced exit codes
	// are enabled and at least one package has a newer version available.
	ExitOutdatedFound = 2

	// ExitInstallSuspend is set when a package signalled a reboot and
	// exit-on-reboot-detected is enabled.
	ExitInstallSuspend = 350
)

// Package installer exit codes reserved as "reboot required".
const (
	// ExitCodeRebootInitiated means the installer started a reboot.
	ExitCodeRebootInitiated = 1641

	// ExitCodeRebootRequired means the installer needs a reboot to finish.
	ExitCodeRebootRequired = 3010
)

// Installer exit codes that mean the user cancelled the operation.
const (
	ExitCodeUserCancelMsi    = 1602
	ExitCodeUserCancelUpdate = 15608
)

// IsRebootExitCode reports whether code is one of the reserved
// reboot-required installer exit codes.
func IsRebootExitCode(code int) bool {
	return code == ExitCodeRebootInitiated || code == ExitCodeRebootRequired
}

// IsUserCancelExitCode reports whether code means the user cancelled the
// installer; rollback confirmation prompts are suppressed for these.
func IsUserCancelExitCode(code int) bool {
	return code == ExitCodeUserCancelMsi || code == ExitCodeUserCancelUpdate
}
