package commands

import "git.home.luguber.info/inful/kexdocs/internal/build"

// CopyfCmd implements the 'copyf' command.
type CopyfCmd struct{}

func (c *CopyfCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	return runBuild(g, build.CommandCopy, newService(cfg).CopyOnly)
}
