package config

import "time"

// Built-in defaults mirror the KEX documentation layout.
const (
	DefaultDeclarationsPattern = "declarations/*.d.ts"
	DefaultDeclarationsOutput  = "headers/kernel-extension.d.ts"
	DefaultBanner              = `/// <reference path="./core-engine.d.ts" />`
	DefaultSeparator           = "\n"
	DefaultGeneratorCommand    = "typedoc"
	DefaultTitle               = "Kernel Extension"
	DefaultReadme              = "README.md"
	DefaultGeneratorOut        = "out/api"
	DefaultOutputDirectory     = "out"
	DefaultStateDirectory      = ".kexdocs"
	DefaultWatchDebounce       = 500 * time.Millisecond
)

// DefaultGeneratorArgs is the TypeDoc argument template.
func DefaultGeneratorArgs() []string {
	return []string{"--out", "${out}", "--name", "${title}", "--readme", "${readme}", "${input}"}
}

// DefaultAssets returns the copy rules of the KEX documentation site.
func DefaultAssets() []AssetRule {
	return []AssetRule{
		{Src: "headers", Dest: "headers", Flatten: true},
		{Src: "images", Dest: "images", Optional: true},
		{Src: "documentation/static", Dest: "."},
		{Src: "README.md", Dest: "."},
	}
}

// Default returns a configuration with every default applied, rooted at the working directory.
func Default() *Config {
	cfg := &Config{ProjectDir: "."}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field.
func (c *Config) ApplyDefaults() {
	if c.ProjectDir == "" {
		c.ProjectDir = "."
	}
	d := &c.Declarations
	if d.Pattern == "" {
		d.Pattern = DefaultDeclarationsPattern
	}
	if d.Output == "" {
		d.Output = DefaultDeclarationsOutput
	}
	if d.Banner == "" {
		d.Banner = DefaultBanner
	}
	if d.Separator == nil {
		sep := DefaultSeparator
		d.Separator = &sep
	}

	g := &c.Generator
	if g.Command == "" {
		g.Command = DefaultGeneratorCommand
	}
	if len(g.Args) == 0 {
		g.Args = DefaultGeneratorArgs()
	}
	if g.Title == "" {
		g.Title = DefaultTitle
	}
	if g.Readme == "" {
		g.Readme = DefaultReadme
	}
	if g.Out == "" {
		g.Out = DefaultGeneratorOut
	}

	if c.Output.Directory == "" {
		c.Output.Directory = DefaultOutputDirectory
	}
	if c.Assets == nil {
		c.Assets = DefaultAssets()
	}
	if c.State.Directory == "" {
		c.State.Directory = DefaultStateDirectory
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = DefaultWatchDebounce
	}
}
