package derive

import (
	"go/ast"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/enumtag/errors"
)

func comments(lines ...string) *ast.CommentGroup {
	cg := &ast.CommentGroup{}
	for _, l := range lines {
		cg.List = append(cg.List, &ast.Comment{Text: l})
	}
	return cg
}

func TestParseDirectives(t *testing.T) {
	fset := token.NewFileSet()

	tests := []struct {
		name    string
		doc     *ast.CommentGroup
		want    []Directive
		wantErr bool
	}{
		{name: "nil doc"},
		{
			name: "plain comments ignored",
			doc:  comments("// Shape is drawable.", "// enumtag:derive is not a directive"),
		},
		{
			name: "derive",
			doc:  comments("// Shape is drawable.", "//enumtag:derive"),
			want: []Directive{{Name: DirectiveDerive}},
		},
		{
			name: "repr",
			doc:  comments("//enumtag:repr uint8"),
			want: []Directive{{Name: DirectiveRepr, Args: []string{"uint8"}}},
		},
		{
			name: "quoted expression",
			doc:  comments(`//enumtag:value "1 << 4"`),
			want: []Directive{{Name: DirectiveValue, Args: []string{"1 << 4"}}},
		},
		{
			name:    "unknown directive",
			doc:     comments("//enumtag:frob"),
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			doc:     comments(`//enumtag:value "1 << 4`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDirectives(fset, tt.doc)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidDirective))
				assert.True(t, errors.IsInvalidInputError(err))
				return
			}
			require.NoError(t, err)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i].Name, got[i].Name)
				assert.Equal(t, tt.want[i].Args, got[i].Args)
			}
		})
	}
}

func TestHasDerive(t *testing.T) {
	assert.True(t, HasDerive(comments("//enumtag:derive")))
	assert.True(t, HasDerive(comments("// Doc.", "//enumtag:repr int8", "//enumtag:derive")))
	assert.False(t, HasDerive(comments("//enumtag:derived")))
	assert.False(t, HasDerive(comments("// enumtag:derive")))
	assert.False(t, HasDerive(nil))
}

func TestSumDirectives(t *testing.T) {
	fset := token.NewFileSet()

	tests := []struct {
		name     string
		lines    []string
		wantRepr string
		wantErr  string
	}{
		{name: "default repr", lines: []string{"//enumtag:derive"}},
		{name: "repr", lines: []string{"//enumtag:derive", "//enumtag:repr uint16"}, wantRepr: "uint16"},
		{name: "repr rune", lines: []string{"//enumtag:repr rune"}, wantRepr: "rune"},
		{name: "repr float", lines: []string{"//enumtag:repr float64"}, wantErr: "not a builtin integer type"},
		{name: "repr missing type", lines: []string{"//enumtag:repr"}, wantErr: "takes one integer type"},
		{name: "repr two types", lines: []string{"//enumtag:repr int8 int16"}, wantErr: "takes one integer type"},
		{name: "derive with args", lines: []string{"//enumtag:derive all"}, wantErr: "takes no arguments"},
		{name: "duplicate repr", lines: []string{"//enumtag:repr int8", "//enumtag:repr int8"}, wantErr: "duplicate enumtag:repr"},
		{name: "value on sum", lines: []string{"//enumtag:value 1"}, wantErr: "belongs on a variant"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repr, err := sumDirectives(fset, comments(tt.lines...))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, ErrInvalidDirective))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRepr, repr)
		})
	}
}

func TestVariantDirectives(t *testing.T) {
	fset := token.NewFileSet()

	tests := []struct {
		name      string
		lines     []string
		wantValue string
		wantErr   string
	}{
		{name: "none", lines: []string{"// Circle is round."}},
		{name: "literal", lines: []string{"//enumtag:value 3"}, wantValue: "3"},
		{name: "quoted expression", lines: []string{`//enumtag:value "1 << 4"`}, wantValue: "1 << 4"},
		{name: "qualified", lines: []string{"//enumtag:value http.StatusOK"}, wantValue: "http.StatusOK"},
		{name: "unquoted spaces", lines: []string{"//enumtag:value 1 << 4"}, wantErr: "quote expressions"},
		{name: "not an expression", lines: []string{`//enumtag:value "1 +"`}, wantErr: "not a Go expression"},
		{name: "duplicate", lines: []string{"//enumtag:value 1", "//enumtag:value 2"}, wantErr: "duplicate enumtag:value"},
		{name: "repr on variant", lines: []string{"//enumtag:repr int8"}, wantErr: "belongs on a sum type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, expr, err := variantDirectives(fset, comments(tt.lines...))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				assert.True(t, errors.Is(err, ErrInvalidDirective))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantValue, value)
			assert.Equal(t, tt.wantValue != "", expr != nil)
		})
	}
}

func TestDocLinesDropDirectives(t *testing.T) {
	doc := comments("// Circle is round.", "//", "// Radius is in metres.", "//enumtag:value 3")
	assert.Equal(t, []string{"Circle is round.", "", "Radius is in metres."}, docLines(doc))

	assert.Nil(t, docLines(comments("//enumtag:derive")))
	assert.Nil(t, docLines(nil))
}

func TestDirectivePositions(t *testing.T) {
	pkg := parseSource(t, strings.Join([]string{
		"package pos",
		"",
		"//enumtag:derive",
		"//enumtag:bogus",
		"type X interface{ isX() }",
	}, "\n"))

	_, err := Extract(pkg, "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pkg.go:4:1: unknown directive \"enumtag:bogus\"")
}
