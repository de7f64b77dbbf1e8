package version

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

// otpReleaseRegex matches erl output like "Erlang/OTP 27" or a bare "27.2".
var otpReleaseRegex = regexp.MustCompile(`\d+(?:\.\d+)*`)

// ErlangInfo describes the Erlang/OTP installation used to compile the
// bootstrap unit.
type ErlangInfo struct {
	// Release is the OTP release, e.g. "27".
	Release string `json:"release"`

	// Path is the path to the erlc binary.
	Path string `json:"path"`

	// Found indicates whether the toolchain was located.
	Found bool `json:"found"`

	// Message carries detection details when something is off.
	Message string `json:"message,omitempty"`
}

// DetectErlang finds and checks the Erlang/OTP installation. A build can
// only succeed with erlc on PATH; erl is queried for the release number.
func DetectErlang() ErlangInfo {
	path, err := exec.LookPath("erlc")
	if err != nil {
		return ErlangInfo{
			Found:   false,
			Message: "erlc not found in PATH",
		}
	}

	release, err := getOTPRelease()
	if err != nil {
		return ErlangInfo{
			Path:    path,
			Found:   true,
			Message: "failed to get OTP release: " + err.Error(),
		}
	}

	return ErlangInfo{
		Release: release,
		Path:    path,
		Found:   true,
	}
}

// getOTPRelease asks erl for its release number.
func getOTPRelease() (string, error) {
	path, err := exec.LookPath("erl")
	if err != nil {
		return "", err
	}

	cmd := exec.Command(path,
		"-noshell", "-eval",
		"io:put_chars(erlang:system_info(otp_release)), halt().")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		return "", err
	}
	return extractRelease(out.String())
}

// extractRelease pulls the release number out of erl output.
func extractRelease(output string) (string, error) {
	match := otpReleaseRegex.FindString(output)
	if match == "" {
		lines := strings.Split(output, "\n")
		if len(lines) > 0 {
			match = otpReleaseRegex.FindString(lines[0])
		}
	}
	if match == "" {
		return "", &releaseParseError{output: output}
	}
	return match, nil
}

// String returns a human-readable Erlang toolchain string.
func (e ErlangInfo) String() string {
	if !e.Found {
		return "  Release: not found\n  Path:    -"
	}

	release := e.Release
	if release == "" {
		release = "unknown (" + e.Message + ")"
	}
	return fmt.Sprintf("  Release: %s\n  Path:    %s", release, e.Path)
}

// releaseParseError indicates failure to parse erl release output.
type releaseParseError struct {
	output string
}

func (e *releaseParseError) Error() string {
	return "failed to parse OTP release from output: " + e.output
}
