package commands

import (
	"github.com/spf13/cobra"

	"github.com/teranos/enumtag/derive"
)

// CheckCmd verifies that generated files match their sources
var CheckCmd = &cobra.Command{
	Use:   "check [packages]",
	Short: "Verify generated files are up to date",
	Long: `Regenerate every derived type in memory and compare the result with the
files on disk. Nothing is written.

A file is stale when it is missing, when its declarations differ from a fresh
generation, or when it is left over after its last //enumtag:derive was
removed. Differences in formatting and in the enumtag version line are
ignored.

Packages generated with -o are checked with the same -o.

Exits with status 1 when any file is stale, so it can gate CI:
  enumtag check ./...`,
	RunE: runCheck,
}

func init() {
	CheckCmd.Flags().StringVarP(&outputName, "output", "o", "", "Name of the generated file, as passed to enumtag -o (single package only)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	pkgs, err := loadPackages(cmd, args)
	if err != nil {
		return err
	}
	if err := checkSelection(pkgs); err != nil {
		return err
	}

	stale := false
	for _, pkg := range pkgs {
		opts, ok := generateOptions(pkg)
		if !ok {
			continue
		}
		result, err := derive.Check(pkg, opts)
		if err != nil {
			return err
		}
		reporter.Checked(pkg, result)
		stale = stale || !result.UpToDate
	}
	if stale {
		return ErrStale
	}
	return nil
}
