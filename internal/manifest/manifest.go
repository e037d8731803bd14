// Package manifest records the inputs and outputs of a documentation build.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/kexdocs/internal/fsutil"
	"git.home.luguber.info/inful/kexdocs/internal/git"
)

// FileName is the manifest file name inside the state directory.
const FileName = "manifest.json"

// BuildManifest represents a complete record of a build's inputs and outputs.
type BuildManifest struct {
	ID          string        `json:"id"`
	Timestamp   time.Time     `json:"timestamp"`
	ToolVersion string        `json:"tool_version"`
	Generator   GeneratorInfo `json:"generator"`
	Revision    git.Revision  `json:"revision,omitzero"`
	Inputs      Inputs        `json:"inputs"`
	Outputs     Outputs       `json:"outputs"`
	Status      string        `json:"status"`
	Duration    int64         `json:"duration_ms"`
}

// GeneratorInfo identifies the documentation generator that ran.
type GeneratorInfo struct {
	Enabled bool   `json:"enabled"`
	Command string `json:"command,omitempty"`
	Version string `json:"version,omitempty"`
}

// Inputs captures all inputs to the build.
type Inputs struct {
	Declarations   []InputFile `json:"declarations"`
	CombinedSHA256 string      `json:"combined_sha256"`
	ConfigHash     string      `json:"config_hash"`
}

// InputFile is one hashed input.
type InputFile struct {
	Path   string `json:"path"`
	Size   int64  `json:"size"`
	SHA256 string `json:"sha256"`
}

// Outputs captures the output tree.
type Outputs struct {
	Root        string            `json:"root"`
	ContentHash string            `json:"content_hash,omitempty"`
	Files       map[string]string `json:"files,omitempty"`
}

// New returns a manifest with a fresh build id.
func New(toolVersion string) *BuildManifest {
	return &BuildManifest{
		ID:          uuid.NewString(),
		Timestamp:   time.Now().UTC(),
		ToolVersion: toolVersion,
	}
}

// RecordOutputs hashes every file under root.
func (m *BuildManifest) RecordOutputs(root string) error {
	files, err := fsutil.HashTree(root)
	if err != nil {
		return fmt.Errorf("hash outputs: %w", err)
	}
	m.Outputs = Outputs{Root: root, Files: files, ContentHash: contentHash(files)}
	return nil
}

func contentHash(files map[string]string) string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s\x00%s\n", k, files[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ToJSON serializes the manifest to JSON.
func (m *BuildManifest) ToJSON() ([]byte, error) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal manifest: %w", err)
	}
	return append(data, '\n'), nil
}

// FromJSON deserializes a manifest from JSON.
func FromJSON(data []byte) (*BuildManifest, error) {
	var m BuildManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal manifest: %w", err)
	}
	return &m, nil
}

// Write stores the manifest atomically at path, creating parent directories.
func (m *BuildManifest) Write(path string) error {
	data, err := m.ToJSON()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	return fsutil.WriteFileAtomic(path, data, 0o644)
}

// Read loads a manifest from path.
func Read(path string) (*BuildManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromJSON(data)
}

// Hash computes a deterministic hash of the manifest's inputs and generator.
// Two builds with the same hash consumed identical sources.
func (m *BuildManifest) Hash() (string, error) {
	hashInput := struct {
		Inputs    Inputs        `json:"inputs"`
		Generator GeneratorInfo `json:"generator"`
		Commit    string        `json:"commit"`
	}{
		Inputs:    m.Inputs,
		Generator: m.Generator,
		Commit:    m.Revision.Commit,
	}

	data, err := json.Marshal(hashInput)
	if err != nil {
		return "", fmt.Errorf("marshal for hash: %w", err)
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash), nil
}
