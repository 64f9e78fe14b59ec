package derive

import (
	"go/ast"
	"go/token"
	"path/filepath"
	"strings"
	"time"

	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// Options select the types to derive and observe the pipeline.
type Options struct {
	// Types restricts derivation to these type names. Empty means every
	// type whose doc comment carries //enumtag:derive.
	Types []string

	// OnStage, when set, is called on every stage transition.
	OnStage func(typeName string, stage Stage)
}

// Derive runs the pipeline for one type of pkg.
func Derive(pkg *Package, name string) (*Derived, error) {
	return derive(newIndex(pkg), name, nil)
}

func derive(idx *index, name string, onStage func(string, Stage)) (*Derived, error) {
	enter := func(s Stage) {
		logger.StageDebugw(s, "derive", logger.FieldPackage, idx.pkg.Name, logger.FieldType, name)
		if onStage != nil {
			onStage(name, s)
		}
	}

	enter(StageExtracting)
	sum, err := idx.extract(name)
	if err != nil {
		enter(StageRejected)
		logger.StageInfow(StageRejected, "derive", logger.FieldPackage, idx.pkg.Name, logger.FieldType, name, logger.FieldError, err.Error())
		return nil, err
	}
	if len(sum.Variants) == 0 {
		logger.StageWarnw(StageExtracting, "sum type has no variants; its TagOf function always panics",
			logger.FieldPackage, idx.pkg.Name, logger.FieldType, name, logger.FieldFile, sum.Pos.String())
	}

	enter(StageSynthesizing)
	tag := Synthesize(sum)

	enter(StageBinding)
	binding := Bind(sum, tag)

	enter(StageDone)
	return &Derived{Sum: sum, Tag: tag, Binding: binding}, nil
}

// DeriveAll derives every requested type of pkg in declaration order.
// Derivation is all or nothing: the first rejected type aborts the package.
func DeriveAll(pkg *Package, opts Options) ([]*Derived, error) {
	log := logger.ComponentLogger("derive")
	start := time.Now()
	idx := newIndex(pkg)

	names := idx.derivable()
	if len(opts.Types) > 0 {
		var err error
		if names, err = idx.requested(opts.Types); err != nil {
			return nil, err
		}
	}

	out := make([]*Derived, 0, len(names))
	for _, name := range names {
		d, err := derive(idx, name, opts.OnStage)
		if err != nil {
			return nil, err
		}
		typeLog := logger.ChildLogger(log, logger.FieldPackage, pkg.Name, logger.FieldType, name)
		typeLog.Infow("derived", logger.FieldTag, d.Tag.Name, logger.FieldVariants, len(d.Sum.Variants))
		for _, v := range d.Sum.Variants {
			typeLog.Debugw("variant", logger.FieldVariant, v.Name,
				logger.FieldShape, v.Shape.String(), "discriminant", v.Discriminant)
		}
		out = append(out, d)
	}
	if err := checkSharedVariants(out); err != nil {
		return nil, err
	}
	log.Debugw("package derived", logger.FieldPackage, pkg.Name, logger.FieldCount, len(out),
		logger.FieldDurationMS, time.Since(start).Milliseconds())
	return out, nil
}

// checkSharedVariants rejects a type that is a variant of two derived sum
// types, since it can carry only one Tag method.
func checkSharedVariants(derived []*Derived) error {
	owner := make(map[string]string)
	for _, d := range derived {
		for _, v := range d.Sum.Variants {
			if first, ok := owner[v.Name]; ok {
				return errors.WithHint(
					inputError(ErrInvalidVariant, v.Pos,
						"%s is a variant of both %s and %s", v.Name, first, d.Sum.Name),
					"give each sum type its own marker method, or derive only one of them",
				)
			}
			owner[v.Name] = d.Sum.Name
		}
	}
	return nil
}

// requested orders explicitly named types by declaration and rejects unknown names.
func (idx *index) requested(types []string) ([]string, error) {
	want := make(map[string]bool, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if _, ok := idx.types[t]; !ok {
			return nil, inputError(ErrTypeNotFound, token.Position{}, "type %s not found in package %s", t, idx.pkg.Name)
		}
		want[t] = true
	}
	var names []string
	for _, td := range idx.order {
		if want[td.spec.Name.Name] {
			names = append(names, td.spec.Name.Name)
		}
	}
	return names, nil
}

// Declares reports whether pkg declares a type named name.
func (p *Package) Declares(name string) bool {
	for _, f := range p.Files {
		for _, decl := range f.AST.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				if spec.(*ast.TypeSpec).Name.Name == name {
					return true
				}
			}
		}
	}
	return false
}

// GenerateOptions configure Generate.
type GenerateOptions struct {
	Options
	RenderOptions

	// FileSuffix names the output: package name + suffix. Types declared in
	// _test.go files go to the same name with _test inserted before .go.
	FileSuffix string

	// OutputName, when set, replaces the name of the single generated file.
	// Relative names are resolved against the package directory.
	OutputName string
}

// Output is one generated file.
type Output struct {
	Path   string
	Source []byte
	Types  []string
}

// Generate derives pkg and renders one file for its regular files and, when
// test files declare derived types, one more for those.
func Generate(pkg *Package, opts GenerateOptions) ([]*Output, error) {
	derived, err := DeriveAll(pkg, opts.Options)
	if err != nil {
		return nil, err
	}

	var regular, test []*Derived
	for _, d := range derived {
		if d.Sum.Test {
			test = append(test, d)
		} else {
			regular = append(regular, d)
		}
	}

	var outputs []*Output
	for _, group := range []struct {
		derived []*Derived
		test    bool
	}{{regular, false}, {test, true}} {
		if len(group.derived) == 0 {
			continue
		}
		path := OutputPath(pkg, opts.FileSuffix, group.test)
		if opts.OutputName != "" {
			path = namedOutputPath(pkg, opts.OutputName)
		}
		ropts := opts.RenderOptions
		ropts.FileName = path
		src, err := Render(pkg.Name, group.derived, ropts)
		if err != nil {
			return nil, err
		}
		out := &Output{Path: path, Source: src}
		for _, d := range group.derived {
			out.Types = append(out.Types, d.Sum.Name)
		}
		outputs = append(outputs, out)
	}

	if opts.OutputName != "" && len(outputs) > 1 {
		return nil, errors.WithHint(
			errors.Newf("%s cannot hold both regular and test types of package %s", opts.OutputName, pkg.Name),
			"drop the output name or derive the test types separately",
		)
	}
	return outputs, nil
}

// DefaultFileSuffix is used when GenerateOptions.FileSuffix is empty.
const DefaultFileSuffix = "_enumtag.go"

func namedOutputPath(pkg *Package, name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(pkg.Dir, name)
}

// OutputPath returns where the generated file of pkg lives.
func OutputPath(pkg *Package, suffix string, test bool) string {
	if suffix == "" {
		suffix = DefaultFileSuffix
	}
	if test {
		suffix = strings.TrimSuffix(suffix, ".go") + "_test.go"
	}
	return filepath.Join(pkg.Dir, pkg.Name+suffix)
}
