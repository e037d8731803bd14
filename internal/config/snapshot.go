package config

import (
	"crypto/sha256"
	"encoding/hex"

	"gopkg.in/yaml.v3"
)

// Snapshot computes a stable hash of the normalized configuration. ProjectDir is
// excluded so the same project checked out in two places hashes equally.
func (c *Config) Snapshot() string {
	if c == nil {
		return ""
	}
	cp := *c
	cp.ProjectDir = ""
	data, err := yaml.Marshal(&cp)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
