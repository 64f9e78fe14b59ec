package commands

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/teranos/enumtag/derive"
	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
	"github.com/teranos/enumtag/version"
)

var (
	outputName string
	toStdout   bool
)

func runGenerate(cmd *cobra.Command, args []string) error {
	pkgs, err := loadPackages(cmd, args)
	if err != nil {
		return err
	}
	if err := checkSelection(pkgs); err != nil {
		return err
	}

	wrote := 0
	for _, pkg := range pkgs {
		opts, ok := generateOptions(pkg)
		if !ok {
			continue
		}
		outputs, err := derive.Generate(pkg, opts)
		if err != nil {
			return err
		}

		if toStdout {
			for _, out := range outputs {
				if _, err := cmd.OutOrStdout().Write(out.Source); err != nil {
					return errors.Wrap(err, "failed to write generated code")
				}
			}
			continue
		}
		if err := derive.Write(outputs); err != nil {
			return err
		}
		for _, out := range outputs {
			logger.Infow("generated", logger.FieldFile, out.Path, logger.FieldCount, len(out.Types))
			reporter.Written(out)
			wrote++
		}
	}

	if wrote == 0 && !toStdout {
		logger.Warnw("nothing to generate: no //enumtag:derive types found", logger.FieldCount, len(pkgs))
	}
	return nil
}

// loadPackages loads the packages named by args. Under go generate, with no
// arguments, only the package of the invoking file is kept.
func loadPackages(cmd *cobra.Command, args []string) ([]*derive.Package, error) {
	start := time.Now()
	pkgs, err := derive.Load(cmd.Context(), derive.LoadOptions{
		BuildTags: cfg.Load.BuildTags,
		Tests:     cfg.Load.Tests,
	}, args...)
	if err != nil {
		return nil, err
	}
	reporter.Timing("load", time.Since(start))

	if goPackage := os.Getenv("GOPACKAGE"); goPackage != "" && len(args) == 0 {
		var kept []*derive.Package
		for _, pkg := range pkgs {
			if pkg.Name == goPackage {
				kept = append(kept, pkg)
			}
		}
		logger.Debugw("running under go generate", logger.FieldPackage, goPackage, "file", os.Getenv("GOFILE"))
		pkgs = kept
	}

	for _, pkg := range pkgs {
		reporter.Loaded(pkg)
	}
	return pkgs, nil
}

// generateOptions builds the options for one package. With -t, packages
// declaring none of the named types are skipped.
func generateOptions(pkg *derive.Package) (derive.GenerateOptions, bool) {
	opts := derive.GenerateOptions{
		Options: derive.Options{OnStage: reporter.Stage},
		RenderOptions: derive.RenderOptions{
			Version: version.Get().Stamp(),
			Header:  cfg.Output.Header,
		},
		FileSuffix: cfg.Output.FileSuffix,
		OutputName: outputName,
	}
	if len(typeNames) == 0 {
		return opts, true
	}
	for _, name := range typeNames {
		if pkg.Declares(strings.TrimSpace(name)) {
			opts.Types = append(opts.Types, strings.TrimSpace(name))
		}
	}
	return opts, len(opts.Types) > 0
}

// checkSelection validates --output and -t against the loaded packages.
func checkSelection(pkgs []*derive.Package) error {
	if outputName != "" && len(pkgs) > 1 {
		return errors.WithHint(
			errors.Newf("--output names a single file but %d packages matched", len(pkgs)),
			"drop --output or name one package",
		)
	}
	return checkTypeNames(pkgs)
}

// checkTypeNames rejects -t names that no loaded package declares.
func checkTypeNames(pkgs []*derive.Package) error {
	for _, name := range typeNames {
		name = strings.TrimSpace(name)
		found := false
		for _, pkg := range pkgs {
			if pkg.Declares(name) {
				found = true
				break
			}
		}
		if !found {
			return errors.WithHint(
				errors.Mark(errors.NewNotFoundError("type %s not found in the loaded packages", name), derive.ErrTypeNotFound),
				"-t names a sum type declared in one of the packages being generated",
			)
		}
	}
	return nil
}
