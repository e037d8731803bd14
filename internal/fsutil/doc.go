// Package fsutil holds the filesystem primitives shared by the build stages:
// glob expansion with "**", atomic writes, mode-preserving copies and hashing.
package fsutil
