// Package git reads revision information of the documentation project's own
// worktree for build provenance.
package git
