package derive

import (
	"bytes"
	"context"
	"go/ast"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// GeneratedMarker starts the first line of every file enumtag writes.
const GeneratedMarker = "// Code generated by enumtag; DO NOT EDIT."

// File is one parsed source file of a package.
type File struct {
	Path string
	AST  *ast.File
	Test bool
}

// Package is a parsed Go package ready for extraction.
type Package struct {
	Name  string
	Path  string // import path, may be empty for ad hoc packages
	Dir   string
	Fset  *token.FileSet
	Files []*File // lexical file-name order
}

// NewPackage assembles a Package from files parsed with fset. Files are sorted
// by name; files previously written by enumtag are left out.
func NewPackage(fset *token.FileSet, files []*ast.File) *Package {
	pkg := &Package{Fset: fset}
	for _, f := range files {
		path := fset.Position(f.Package).Filename
		if isGenerated(f) {
			continue
		}
		if pkg.Name == "" {
			pkg.Name = f.Name.Name
		}
		pkg.Files = append(pkg.Files, &File{
			Path: path,
			AST:  f,
			Test: strings.HasSuffix(path, "_test.go"),
		})
	}
	sort.SliceStable(pkg.Files, func(i, j int) bool {
		return filepath.Base(pkg.Files[i].Path) < filepath.Base(pkg.Files[j].Path)
	})
	if len(pkg.Files) > 0 {
		pkg.Dir = filepath.Dir(pkg.Files[0].Path)
	}
	return pkg
}

// isGenerated reports whether f was written by enumtag.
func isGenerated(f *ast.File) bool {
	for _, cg := range f.Comments {
		if cg.Pos() > f.Package {
			return false
		}
		for _, c := range cg.List {
			if c.Text == GeneratedMarker {
				return true
			}
		}
	}
	return false
}

// IsGeneratedSource reports whether src starts like a file written by enumtag.
func IsGeneratedSource(src []byte) bool {
	for _, line := range bytes.SplitN(src, []byte("\n"), 20) {
		if string(bytes.TrimSpace(line)) == GeneratedMarker {
			return true
		}
	}
	return false
}

// LoadOptions control how packages are loaded.
type LoadOptions struct {
	Dir       string   // working directory for pattern resolution
	BuildTags []string // passed as -tags
	Tests     bool     // include _test.go files
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedSyntax

// Load lists and parses the packages matching patterns. Only syntax is loaded:
// a sum type may name a tag type that has not been generated yet, so the
// packages need not type-check. List and parse errors are fatal.
func Load(ctx context.Context, opts LoadOptions, patterns ...string) ([]*Package, error) {
	log := logger.ComponentLogger("derive.load")
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   opts.Tests,
	}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.NewNotFoundError("no packages found for %s", strings.Join(patterns, " "))
	}

	var out []*Package
	var skipped error
	for _, p := range selectVariants(pkgs) {
		if len(p.Syntax) == 0 {
			// Directories holding only test files or nothing buildable
			if len(p.Errors) > 0 && skipped == nil {
				skipped = errors.Newf("%s: %s", p.PkgPath, p.Errors[0].Error())
			}
			log.Debugw("skipping package without Go files", logger.FieldPackage, p.PkgPath)
			continue
		}
		for _, perr := range p.Errors {
			if perr.Kind == packages.TypeError {
				log.Debugw("tolerating type error", logger.FieldPackage, p.PkgPath, logger.FieldError, perr.Msg)
				continue
			}
			return nil, errors.WithHint(
				errors.Newf("%s: %s", p.PkgPath, perr.Error()),
				"the package must parse before tags can be derived",
			)
		}
		pkg := NewPackage(p.Fset, p.Syntax)
		pkg.Name = p.Name
		pkg.Path = p.PkgPath
		if len(p.GoFiles) > 0 {
			pkg.Dir = filepath.Dir(p.GoFiles[0])
		}
		log.Infow("loaded package", logger.FieldPackage, pkg.Path, logger.FieldDir, pkg.Dir, logger.FieldCount, len(pkg.Files))
		out = append(out, pkg)
	}
	if len(out) == 0 && skipped != nil {
		return nil, skipped
	}
	return out, nil
}

// selectVariants drops the duplicates packages.Load returns with Tests set:
// for each package the variant compiled with its tests wins, and generated
// test mains are ignored.
func selectVariants(pkgs []*packages.Package) []*packages.Package {
	best := make(map[string]*packages.Package)
	var order []string
	for _, p := range pkgs {
		if p.Name == "main" && strings.HasSuffix(p.ID, ".test") {
			continue
		}
		key := p.PkgPath + "\x00" + p.Name
		cur, ok := best[key]
		if !ok {
			order = append(order, key)
			best[key] = p
			continue
		}
		if len(p.Syntax) > len(cur.Syntax) {
			best[key] = p
		}
	}
	out := make([]*packages.Package, 0, len(order))
	for _, key := range order {
		out = append(out, best[key])
	}
	return out
}
