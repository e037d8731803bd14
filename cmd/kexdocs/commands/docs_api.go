package commands

import "git.home.luguber.info/inful/kexdocs/internal/build"

// DocsAPICmd implements the 'docs-api' command.
type DocsAPICmd struct {
	SkipGenerate bool `name:"skip-generate" help:"Do not run the documentation generator"`
	NoVerify     bool `name:"no-verify" help:"Skip link verification of the output"`
	FailOnBroken bool `name:"fail-on-broken" help:"Fail the build when the output has broken local links"`
}

func (d *DocsAPICmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	off := false
	if d.SkipGenerate {
		cfg.Generator.Enabled = &off
	}
	if d.NoVerify {
		cfg.Verify.Enabled = &off
	}
	if d.FailOnBroken {
		cfg.Verify.FailOnBroken = true
	}
	return runBuild(g, build.CommandDocsAPI, newService(cfg).DocsAPI)
}
