package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output.file_suffix", DefaultFileSuffix)
	v.SetDefault("output.header", "")

	v.SetDefault("load.build_tags", []string{})
	v.SetDefault("load.tests", false)

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", DefaultTheme)
}

// Default returns a Config holding only the built-in defaults
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := LoadWithViper(v)
	if err != nil {
		// Defaults always decode
		panic(err)
	}
	return cfg
}
