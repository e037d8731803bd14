package build

import (
	"git.home.luguber.info/inful/kexdocs/internal/aggregate"
	"git.home.luguber.info/inful/kexdocs/internal/assets"
	"git.home.luguber.info/inful/kexdocs/internal/config"
	"git.home.luguber.info/inful/kexdocs/internal/generator"
	"git.home.luguber.info/inful/kexdocs/internal/linkcheck"
	"git.home.luguber.info/inful/kexdocs/internal/manifest"
	"git.home.luguber.info/inful/kexdocs/internal/metrics"
)

// State is shared by the stages of one build. Earlier stages publish their results
// for later ones (generate reads Aggregate, write_manifest reads everything).
type State struct {
	Config      *config.Config
	Generator   generator.Generator
	Recorder    metrics.Recorder
	Report      *Report
	ToolVersion string

	Aggregate        *aggregate.Result
	GeneratorVersion string
	Assets           *assets.Result
	Links            *linkcheck.Report
	Manifest         *manifest.BuildManifest
}
