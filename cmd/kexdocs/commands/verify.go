package commands

import "git.home.luguber.info/inful/kexdocs/internal/build"

// VerifyCmd implements the 'verify' command. Unlike the verification stage of
// docs-api, broken links fail the command unless --warn-only is given.
type VerifyCmd struct {
	WarnOnly bool `name:"warn-only" help:"Report broken links without failing"`
}

func (v *VerifyCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	cfg.Verify.FailOnBroken = !v.WarnOnly
	return runBuild(g, build.CommandVerify, newService(cfg).VerifyOnly)
}
