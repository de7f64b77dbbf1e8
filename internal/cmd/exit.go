// Package cmd provides command implementations for the arx CLI.
package cmd

// Exit codes reported by the CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitConfigError indicates the build configuration is invalid.
	ExitConfigError = 2

	// ExitToolchainError indicates the Erlang toolchain is missing or broken.
	ExitToolchainError = 3

	// ExitNotFound indicates an application, unit, or artifact was not found.
	ExitNotFound = 4
)

// ExitCodeName returns the name of the exit code.
func ExitCodeName(code int) string {
	switch code {
	case ExitSuccess:
		return "Success"
	case ExitGeneralError:
		return "General Error"
	case ExitConfigError:
		return "Config Error"
	case ExitToolchainError:
		return "Toolchain Error"
	case ExitNotFound:
		return "Not Found"
	default:
		return "Unknown"
	}
}
