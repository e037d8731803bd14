// Package version holds build metadata injected with -ldflags:
//
//	go build -ldflags "-X git.home.luguber.info/inful/kexdocs/internal/version.Version=v1.0.0 \
//	  -X git.home.luguber.info/inful/kexdocs/internal/version.GitCommit=$(git rev-parse --short HEAD)"
package version

import "strings"

const unknown = "unknown"

var (
	Version   = unknown
	BuildTime = unknown
	GitCommit = unknown
)

// String renders the version line printed by --version, omitting unset parts.
func String() string {
	var b strings.Builder
	b.WriteString("kexdocs ")
	b.WriteString(Version)
	var extra []string
	if GitCommit != unknown && GitCommit != "" {
		extra = append(extra, "commit "+GitCommit)
	}
	if BuildTime != unknown && BuildTime != "" {
		extra = append(extra, "built "+BuildTime)
	}
	if len(extra) > 0 {
		b.WriteString(" (" + strings.Join(extra, ", ") + ")")
	}
	return b.String()
}
