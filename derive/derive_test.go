package derive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// parsePackage parses files (name -> source) as if they lived in dir.
func parsePackage(t *testing.T, dir string, files map[string]string) *Package {
	t.Helper()
	fset := token.NewFileSet()
	var parsed []*ast.File
	for name, src := range files {
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), src, parser.ParseComments)
		require.NoError(t, err, name)
		parsed = append(parsed, f)
	}
	return NewPackage(fset, parsed)
}

func parseSource(t *testing.T, src string) *Package {
	t.Helper()
	return parsePackage(t, "/src/pkg", map[string]string{"pkg.go": src})
}

func deriveSource(t *testing.T, src, name string) *Derived {
	t.Helper()
	d, err := Derive(parseSource(t, src), name)
	require.NoError(t, err)
	return d
}

const shapeSource = `package shape

//enumtag:derive
type Shape interface {
	isShape()
	Tag() ShapeTag
}

// Circle is round.
type Circle struct{ Radius float64 }

type Segment [2]Point

type Point struct{}

type Polygon struct {
	Point
	Sides int
}

type Label string

type NotAVariant struct{}

func (Circle) isShape()   {}
func (Segment) isShape()  {}
func (*Point) isShape()   {}
func (Polygon) isShape()  {}
func (Label) isShape()    {}

func (NotAVariant) Tag() ShapeTag { return 0 }
`

func TestDeriveStages(t *testing.T) {
	tests := []struct {
		name string
		src  string
		typ  string
		want []Stage
	}{
		{
			name: "sum type",
			src:  shapeSource,
			typ:  "Shape",
			want: []Stage{StageExtracting, StageSynthesizing, StageBinding, StageDone},
		},
		{
			name: "struct",
			src:  shapeSource,
			typ:  "Circle",
			want: []Stage{StageExtracting, StageRejected},
		},
		{
			name: "unknown type",
			src:  shapeSource,
			typ:  "Triangle",
			want: []Stage{StageExtracting, StageRejected},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Stage
			onStage := func(name string, s Stage) {
				assert.Equal(t, tt.typ, name)
				got = append(got, s)
			}
			_, _ = derive(newIndex(parseSource(t, tt.src)), tt.typ, onStage)
			assert.Equal(t, tt.want, got)
			assert.True(t, got[len(got)-1].Terminal())
		})
	}
}

func TestDeriveShape(t *testing.T) {
	d := deriveSource(t, shapeSource, "Shape")

	assert.Equal(t, "Shape", d.Sum.Name)
	assert.Equal(t, "ShapeTag", d.Tag.Name)
	assert.Equal(t, "ShapeTagOf", d.Binding.Func)
	require.Len(t, d.Tag.Cases, 5)
	require.Len(t, d.Binding.Arms, 5)
	for i, v := range d.Sum.Variants {
		assert.Equal(t, v.Name, d.Tag.Cases[i].Name)
		assert.Equal(t, v.Name, d.Binding.Arms[i].Variant)
		assert.Equal(t, d.Tag.Cases[i].Const, d.Binding.Arms[i].Const)
	}
}

func TestDeriveAll(t *testing.T) {
	src := `package multi

type Plain interface{ isPlain() }

//enumtag:derive
type Second interface{ isSecond() }

//enumtag:derive
type First interface{ isFirst() }

type A struct{}
type B struct{}

func (A) isFirst()  {}
func (B) isSecond() {}
func (B) isPlain()  {}
`
	pkg := parseSource(t, src)

	t.Run("directives in declaration order", func(t *testing.T) {
		derived, err := DeriveAll(pkg, Options{})
		require.NoError(t, err)
		require.Len(t, derived, 2)
		assert.Equal(t, "Second", derived[0].Sum.Name)
		assert.Equal(t, "First", derived[1].Sum.Name)
	})

	t.Run("explicit types need no directive", func(t *testing.T) {
		derived, err := DeriveAll(pkg, Options{Types: []string{"First", "Plain"}})
		require.NoError(t, err)
		require.Len(t, derived, 2)
		assert.Equal(t, "Plain", derived[0].Sum.Name)
		assert.Equal(t, "First", derived[1].Sum.Name)
	})

	t.Run("unknown explicit type", func(t *testing.T) {
		_, err := DeriveAll(pkg, Options{Types: []string{"Missing"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrTypeNotFound))
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("variant shared by two derived types", func(t *testing.T) {
		_, err := DeriveAll(pkg, Options{Types: []string{"Second", "Plain"}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidVariant))
		assert.Contains(t, err.Error(), "pkg.go:12:6: B is a variant of both Plain and Second")
		assert.NotEmpty(t, errors.GetAllHints(err))
	})

	t.Run("no directives", func(t *testing.T) {
		derived, err := DeriveAll(parseSource(t, "package empty\n\ntype X struct{}\n"), Options{})
		require.NoError(t, err)
		assert.Empty(t, derived)
	})
}

func TestDeriveAllIsAllOrNothing(t *testing.T) {
	src := `package broken

//enumtag:derive
type Good interface{ isGood() }

//enumtag:derive
type Bad struct{ X int }

type V struct{}

func (V) isGood() {}
`
	var stages []Stage
	derived, err := DeriveAll(parseSource(t, src), Options{
		OnStage: func(name string, s Stage) {
			if name == "Good" {
				stages = append(stages, s)
			}
		},
	})
	require.Error(t, err)
	assert.Nil(t, derived)
	assert.True(t, IsRejected(err))
	assert.Equal(t, StageDone, stages[len(stages)-1])
}

func TestPackageDeclares(t *testing.T) {
	pkg := parseSource(t, shapeSource)

	assert.True(t, pkg.Declares("Shape"))
	assert.True(t, pkg.Declares("Label"))
	assert.False(t, pkg.Declares("ShapeTag"))
	assert.False(t, pkg.Declares("isShape"))
}

func TestOutputPath(t *testing.T) {
	pkg := &Package{Name: "shape", Dir: "/src/shape"}

	tests := []struct {
		suffix string
		test   bool
		want   string
	}{
		{"", false, "/src/shape/shape_enumtag.go"},
		{"", true, "/src/shape/shape_enumtag_test.go"},
		{"_tags.go", false, "/src/shape/shape_tags.go"},
		{"_tags.go", true, "/src/shape/shape_tags_test.go"},
	}
	for _, tt := range tests {
		assert.Equal(t, filepath.FromSlash(tt.want), OutputPath(pkg, tt.suffix, tt.test), "%q test=%v", tt.suffix, tt.test)
	}
}

func TestGenerateSplitsTestTypes(t *testing.T) {
	pkg := parsePackage(t, "/src/shape", map[string]string{
		"shape.go": shapeSource,
		"fixture_test.go": `package shape

//enumtag:derive
type Fixture interface{ isFixture() }

type Stub struct{}

func (Stub) isFixture() {}
`,
	})

	outputs, err := Generate(pkg, GenerateOptions{RenderOptions: RenderOptions{Version: "v1.0.0"}})
	require.NoError(t, err)
	require.Len(t, outputs, 2)

	assert.Equal(t, filepath.FromSlash("/src/shape/shape_enumtag.go"), outputs[0].Path)
	assert.Equal(t, []string{"Shape"}, outputs[0].Types)
	assert.Contains(t, string(outputs[0].Source), "type ShapeTag int")
	assert.NotContains(t, string(outputs[0].Source), "FixtureTag")

	assert.Equal(t, filepath.FromSlash("/src/shape/shape_enumtag_test.go"), outputs[1].Path)
	assert.Equal(t, []string{"Fixture"}, outputs[1].Types)
	assert.Contains(t, string(outputs[1].Source), "type FixtureTag int")
}

func TestGenerateOutputName(t *testing.T) {
	pkg := parsePackage(t, "/src/shape", map[string]string{"shape.go": shapeSource})

	outputs, err := Generate(pkg, GenerateOptions{OutputName: "tags.go"})
	require.NoError(t, err)
	require.Len(t, outputs, 1)
	assert.Equal(t, filepath.FromSlash("/src/shape/tags.go"), outputs[0].Path)

	abs := filepath.FromSlash("/elsewhere/tags.go")
	outputs, err = Generate(pkg, GenerateOptions{OutputName: abs})
	require.NoError(t, err)
	assert.Equal(t, abs, outputs[0].Path)

	t.Run("regular and test types", func(t *testing.T) {
		pkg := parsePackage(t, "/src/shape", map[string]string{
			"shape.go":        shapeSource,
			"fixture_test.go": "package shape\n\n//enumtag:derive\ntype Fixture interface{ isFixture() }\n",
		})
		_, err := Generate(pkg, GenerateOptions{OutputName: "tags.go"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot hold both regular and test types")
	})
}

func TestGenerateNothingToDerive(t *testing.T) {
	outputs, err := Generate(parseSource(t, "package plain\n\ntype X int\n"), GenerateOptions{})
	require.NoError(t, err)
	assert.Empty(t, outputs)
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core).Sugar()
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func TestDeriveLogging(t *testing.T) {
	logs := observeLogs(t)

	_, err := DeriveAll(parseSource(t, "package empty\n\n//enumtag:derive\ntype Never interface{ isNever() }\n"), Options{})
	require.NoError(t, err)

	warned := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warned, 1)
	assert.Equal(t, "extracting", warned[0].ContextMap()[logger.FieldStage])
	assert.Equal(t, "Never", warned[0].ContextMap()[logger.FieldType])

	derived := logs.FilterMessage("derived").All()
	require.Len(t, derived, 1)
	assert.Equal(t, "derive", derived[0].LoggerName)
	assert.Equal(t, "empty", derived[0].ContextMap()[logger.FieldPackage])
	assert.Equal(t, "Never", derived[0].ContextMap()[logger.FieldType])

	logs.TakeAll()
	_, err = Derive(parseSource(t, "package bad\n\ntype Bad struct{}\n"), "Bad")
	require.Error(t, err)

	rejected := logs.FilterField(zap.String(logger.FieldStage, "rejected")).FilterLevelExact(zapcore.InfoLevel).All()
	require.Len(t, rejected, 1)
	assert.Contains(t, rejected[0].ContextMap()[logger.FieldError], "found struct Bad")
}
