package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show enumtag version information",
	Long:  `Display version, build time, commit hash, and platform information for the enumtag binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		asYAML, _ := cmd.Flags().GetBool("yaml")

		info := version.Get()
		out := cmd.OutOrStdout()

		switch {
		case jsonOutput:
			data, err := json.MarshalIndent(info, "", "  ")
			if err != nil {
				return errors.Wrap(err, "failed to format version as JSON")
			}
			fmt.Fprintln(out, string(data))
		case asYAML:
			data, err := yaml.Marshal(info)
			if err != nil {
				return errors.Wrap(err, "failed to format version as YAML")
			}
			fmt.Fprint(out, string(data))
		default:
			fmt.Fprintln(out, info.String())
			fmt.Fprintf(out, "Platform: %s\n", info.Platform)
			fmt.Fprintf(out, "Go: %s\n", info.GoVersion)
		}
		return nil
	},
}

func init() {
	VersionCmd.Flags().Bool("yaml", false, "Output version info as YAML")
}
