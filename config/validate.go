package config

import (
	"strings"

	"github.com/teranos/enumtag/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	suffix := c.Output.FileSuffix
	if suffix == "" {
		return errors.New("output.file_suffix cannot be empty (omit for default _enumtag.go)")
	}
	if !strings.HasSuffix(suffix, ".go") {
		return errors.Newf("output.file_suffix must end in .go, got %q", suffix)
	}
	// The go tool would not compile generated code into the package
	if strings.HasSuffix(suffix, "_test.go") {
		return errors.WithHint(
			errors.Newf("output.file_suffix must not end in _test.go, got %q", suffix),
			"generated tags are part of the package API, not its tests",
		)
	}
	if strings.ContainsAny(suffix, `/\`) {
		return errors.Newf("output.file_suffix must be a file name, got %q", suffix)
	}

	for _, tag := range c.Load.BuildTags {
		if tag == "" || strings.ContainsAny(tag, " ,\t") {
			return errors.Newf("load.build_tags entries must be single tags, got %q", tag)
		}
	}

	switch c.Log.Theme {
	case "everforest", "gruvbox":
	default:
		return errors.Newf("log.theme must be everforest or gruvbox, got %q", c.Log.Theme)
	}

	return nil
}
