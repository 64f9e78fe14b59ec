package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/enumtag/config"
	"github.com/teranos/enumtag/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage enumtag configuration",
	Long: `Display and manage enumtag configuration.

Configuration sources (in order of precedence):
1. Command line flags (--tags, --tests, --suffix, --json)
2. Environment variables (ENUMTAG_* prefix, e.g. ENUMTAG_OUTPUT_FILE_SUFFIX)
3. Project config (enumtag.toml, searched upward from the working directory)
4. User config (enumtag/enumtag.toml in the user config directory)
5. Default values

Examples:
  enumtag config show                 # Show current configuration
  enumtag config show --format json   # Show configuration in JSON format
  enumtag config get output.file_suffix
  enumtag config validate             # Validate current configuration
  enumtag config init                 # Write enumtag.toml with defaults`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  "Display the effective enumtag configuration from all sources",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., output.file_suffix, load.build_tags)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate current configuration",
	RunE:  runConfigValidate,
}

var configWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	Long: `Show the configuration cascade and which files were checked.

Lists the candidate files in order of precedence, marking the ones that exist.`,
	RunE: runConfigWhere,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a config file holding the defaults",
	Long: `Write the built-in defaults to enumtag.toml in the working directory, or
to path. An existing file is only replaced with --force; its previous
versions are kept as .back1 to .back3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var (
	configFormat string
	configForce  bool
)

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, json, yaml")
	configInitCmd.Flags().BoolVar(&configForce, "force", false, "Replace an existing file")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configGetCmd)
	ConfigCmd.AddCommand(configValidateCmd)
	ConfigCmd.AddCommand(configWhereCmd)
	ConfigCmd.AddCommand(configInitCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	loaded, err := loadConfig(cmd)
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	switch configFormat {
	case "json":
		data, err := json.MarshalIndent(loaded, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))

	case "yaml":
		data, err := yaml.Marshal(loaded)
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to YAML")
		}
		fmt.Fprintf(out, "# enumtag configuration\n%s", string(data))

	case "toml":
		data, err := loaded.Marshal()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "# enumtag configuration\n%s", string(data))

	default:
		return errors.WithHint(
			errors.Newf("unsupported format: %s", configFormat),
			"supported formats: toml, json, yaml",
		)
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	v, err := config.GetViper()
	if err != nil {
		return err
	}
	if !v.IsSet(key) {
		return errors.NewNotFoundError("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), v.Get(key))
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	fmt.Fprintln(cmd.OutOrStdout(), pterm.Green("✓")+" Configuration is valid")
	return nil
}

func runConfigWhere(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")

	userPath := "(no user config directory)"
	if dir, err := os.UserConfigDir(); err == nil {
		userPath = filepath.Join(dir, "enumtag", config.FileName)
	}
	fmt.Fprintf(out, "  2. [USER]     %s %s\n", userPath, presence(userPath))

	projectPath := "./" + config.FileName + " (searches up directories)"
	if wd, err := os.Getwd(); err == nil {
		if found := config.FindProjectConfig(wd); found != "" {
			projectPath = found
		}
	}
	fmt.Fprintf(out, "  3. [PROJECT]  %s %s\n", projectPath, presence(projectPath))
	fmt.Fprintln(out, "  4. [ENV]      ENUMTAG_* environment variables")
	fmt.Fprintln(out, "  5. [FLAGS]    --tags, --tests, --suffix, --json")

	fmt.Fprintln(out)
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	used := config.UsedFiles()
	if len(used) == 0 {
		fmt.Fprintln(out, "No config files found; using defaults.")
		return nil
	}
	fmt.Fprintln(out, "Files in use:")
	for _, p := range used {
		fmt.Fprintf(out, "  %s\n", p)
	}
	return nil
}

func presence(path string) string {
	if _, err := os.Stat(path); err == nil {
		return pterm.Green("(found)")
	}
	return pterm.Gray("(missing)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path := config.FileName
	if len(args) == 1 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil && !configForce {
		return errors.WithHint(
			errors.Newf("%s already exists", path),
			"use --force to replace it; the old file is kept as "+path+".back1",
		)
	}
	if err := config.Save(config.Default(), path); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", pterm.Green("✓"), path)
	return nil
}
