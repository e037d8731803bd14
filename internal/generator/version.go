package generator

import (
	"context"
	"os/exec"
	"regexp"
)

var versionRegex = regexp.MustCompile(`v?(\d+\.\d+\.\d+)`)

// DetectVersion runs "<command> --version" and returns the semantic version, or
// "" when the command is missing or prints no version.
func DetectVersion(ctx context.Context, command string) string {
	bin, err := exec.LookPath(command)
	if err != nil {
		return ""
	}
	// #nosec G204 - bin is resolved from configuration
	output, err := exec.CommandContext(ctx, bin, "--version").Output()
	if err != nil {
		return ""
	}
	return ParseVersion(string(output))
}

// ParseVersion extracts the first semantic version from tool output.
func ParseVersion(output string) string {
	if m := versionRegex.FindStringSubmatch(output); len(m) >= 2 {
		return m[1]
	}
	return ""
}
