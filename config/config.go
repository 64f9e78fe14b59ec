// Package config holds enumtag's settings: where generated code goes, how
// packages are loaded, and how the CLI logs.
//
// Sources in increasing precedence: built-in defaults, the user config
// (~/.config/enumtag/enumtag.toml), the nearest enumtag.toml found walking up
// from the working directory, ENUMTAG_* environment variables, command-line flags.
package config

// Config represents the enumtag configuration
type Config struct {
	Output OutputConfig `mapstructure:"output" toml:"output" json:"output" yaml:"output"`
	Load   LoadConfig   `mapstructure:"load" toml:"load" json:"load" yaml:"load"`
	Log    LogConfig    `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
}

// OutputConfig controls the generated file
type OutputConfig struct {
	// FileSuffix is appended to the package name: shape + "_enumtag.go"
	FileSuffix string `mapstructure:"file_suffix" toml:"file_suffix" json:"file_suffix" yaml:"file_suffix"`
	// Header is an extra comment block placed above the package clause (e.g. a license)
	Header string `mapstructure:"header" toml:"header" json:"header" yaml:"header"`
}

// LoadConfig controls how Go packages are loaded
type LoadConfig struct {
	BuildTags []string `mapstructure:"build_tags" toml:"build_tags" json:"build_tags" yaml:"build_tags"`
	Tests     bool     `mapstructure:"tests" toml:"tests" json:"tests" yaml:"tests"` // include _test.go files
}

// LogConfig configures CLI logging
type LogConfig struct {
	JSON  bool   `mapstructure:"json" toml:"json" json:"json" yaml:"json"`
	Theme string `mapstructure:"theme" toml:"theme" json:"theme" yaml:"theme"` // everforest, gruvbox
}

// FileName is the name of the project config file searched for upward from the working directory
const FileName = "enumtag.toml"

// Defaults
const (
	DefaultFileSuffix = "_enumtag.go"
	DefaultTheme      = "everforest"
)

// OutputFile returns the generated file name for a package
func (c *Config) OutputFile(pkgName string) string {
	suffix := c.Output.FileSuffix
	if suffix == "" {
		suffix = DefaultFileSuffix
	}
	return pkgName + suffix
}
