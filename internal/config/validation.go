package config

import (
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/kexdocs/internal/foundation/errors"
)

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Declarations.Pattern) == "" {
		return errors.ValidationError("declarations.pattern must not be empty").Build()
	}
	if _, err := filepath.Match(c.Declarations.Pattern, ""); err != nil {
		return errors.WrapError(err, errors.CategoryValidation, "declarations.pattern is not a valid glob").
			Fatal().WithContext("pattern", c.Declarations.Pattern).Build()
	}
	if strings.ContainsAny(c.Declarations.Banner, "\r\n") {
		return errors.ValidationError("declarations.banner must be a single line").Build()
	}

	if c.Generator.IsEnabled() && strings.TrimSpace(c.Generator.Command) == "" {
		return errors.ValidationError("generator.command must not be empty").Build()
	}

	out := filepath.Clean(c.OutputRoot())
	if out == filepath.Clean(c.ProjectDir) || out == string(filepath.Separator) {
		return errors.ValidationError("output.directory must be a sub directory of the project").
			WithContext("directory", c.Output.Directory).Build()
	}

	for i, rule := range c.Assets {
		if rule.Src == "" {
			return errors.ValidationError("asset rule has empty src").WithContext("index", i).Build()
		}
		if filepath.IsAbs(rule.Dest) || escapes(rule.Dest) {
			return errors.ValidationError("asset dest must stay inside the output directory").
				WithContext("index", i).WithContext("dest", rule.Dest).Build()
		}
	}

	if c.Watch.Debounce < 0 {
		return errors.ValidationError("watch.debounce must not be negative").Build()
	}
	return nil
}

func escapes(rel string) bool {
	clean := filepath.Clean(rel)
	return clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator))
}
