// Package testutil provides fixtures and assertions shared by package tests:
// a temporary KEX documentation project, file system assertions and git helpers.
package testutil
