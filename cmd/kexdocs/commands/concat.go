package commands

import "git.home.luguber.info/inful/kexdocs/internal/build"

// ConcatCmd implements the 'concat' command.
type ConcatCmd struct {
	AllowEmpty bool `name:"allow-empty" help:"Write only the banner when no declaration matches"`
}

func (c *ConcatCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if c.AllowEmpty {
		cfg.Declarations.AllowEmpty = true
	}
	return runBuild(g, build.CommandConcat, newService(cfg).ConcatOnly)
}
