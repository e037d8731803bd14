package commands

import (
	"path/filepath"

	"git.home.luguber.info/inful/kexdocs/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Directory to write kexdocs.yaml into"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	path := root.Config
	if i.Output != "" {
		path = filepath.Join(i.Output, config.DefaultConfigFile)
	}
	g.printf("Initializing kexdocs project")
	g.printf("Writing configuration to %s", path)
	if err := config.Init(path, i.Force); err != nil {
		g.printf("Initialization failed")
		return err
	}
	g.printf("initialized successfully")
	return nil
}
