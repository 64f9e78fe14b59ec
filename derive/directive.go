package derive

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"

	"github.com/kballard/go-shellquote"
)

// directivePrefix starts every enumtag comment directive. Like //go: directives
// there is no space after the slashes, and go/ast leaves them out of doc text.
const directivePrefix = "//enumtag:"

// Directive names.
const (
	DirectiveDerive = "derive" // on a sum type: generate its tag
	DirectiveRepr   = "repr"   // on a sum type: integer type of the tag
	DirectiveValue  = "value"  // on a variant: explicit discriminant expression
)

// Directive is one parsed //enumtag: comment line.
type Directive struct {
	Name string
	Args []string
	Pos  token.Position
}

// reprTypes are the integer types a tag may be represented by.
var reprTypes = map[string]bool{
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
}

// ParseDirectives reads the //enumtag: lines of a comment group.
// Arguments are split with shell quoting rules, so an expression holding
// spaces is written //enumtag:value "1 << 4".
func ParseDirectives(fset *token.FileSet, doc *ast.CommentGroup) ([]Directive, error) {
	if doc == nil {
		return nil, nil
	}
	var out []Directive
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		pos := fset.Position(c.Slash)
		body := strings.TrimPrefix(c.Text, directivePrefix)
		name, rest, _ := strings.Cut(body, " ")
		name = strings.TrimSpace(name)
		switch name {
		case DirectiveDerive, DirectiveRepr, DirectiveValue:
		default:
			return nil, inputError(ErrInvalidDirective, pos, "unknown directive %q", "enumtag:"+name)
		}
		args, err := shellquote.Split(rest)
		if err != nil {
			return nil, inputError(ErrInvalidDirective, pos, "enumtag:%s: %v", name, err)
		}
		if len(args) == 0 {
			args = nil
		}
		out = append(out, Directive{Name: name, Args: args, Pos: pos})
	}
	return out, nil
}

// HasDerive reports whether a comment group requests a tag.
func HasDerive(doc *ast.CommentGroup) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if c.Text == directivePrefix+DirectiveDerive || strings.HasPrefix(c.Text, directivePrefix+DirectiveDerive+" ") {
			return true
		}
	}
	return false
}

// sumDirectives validates the directives on a sum type and returns its repr.
func sumDirectives(fset *token.FileSet, doc *ast.CommentGroup) (repr string, err error) {
	dirs, err := ParseDirectives(fset, doc)
	if err != nil {
		return "", err
	}
	seen := make(map[string]bool)
	for _, d := range dirs {
		if seen[d.Name] {
			return "", inputError(ErrInvalidDirective, d.Pos, "duplicate enumtag:%s", d.Name)
		}
		seen[d.Name] = true

		switch d.Name {
		case DirectiveDerive:
			if len(d.Args) != 0 {
				return "", inputError(ErrInvalidDirective, d.Pos, "enumtag:derive takes no arguments, got %q", d.Args)
			}
		case DirectiveRepr:
			if len(d.Args) != 1 {
				return "", inputError(ErrInvalidDirective, d.Pos, "enumtag:repr takes one integer type, got %d arguments", len(d.Args))
			}
			if !reprTypes[d.Args[0]] {
				return "", inputError(ErrInvalidDirective, d.Pos, "enumtag:repr %s is not a builtin integer type", d.Args[0])
			}
			repr = d.Args[0]
		case DirectiveValue:
			return "", inputError(ErrInvalidDirective, d.Pos, "enumtag:value belongs on a variant, not on a sum type")
		}
	}
	return repr, nil
}

// variantDirectives validates the directives on a variant and returns its
// discriminant expression, if any.
func variantDirectives(fset *token.FileSet, doc *ast.CommentGroup) (value string, expr ast.Expr, err error) {
	dirs, err := ParseDirectives(fset, doc)
	if err != nil {
		return "", nil, err
	}
	for _, d := range dirs {
		switch d.Name {
		case DirectiveRepr:
			return "", nil, inputError(ErrInvalidDirective, d.Pos, "enumtag:repr belongs on a sum type, not on a variant")
		case DirectiveValue:
			if expr != nil {
				return "", nil, inputError(ErrInvalidDirective, d.Pos, "duplicate enumtag:value")
			}
			if len(d.Args) != 1 {
				return "", nil, inputError(ErrInvalidDirective, d.Pos, "enumtag:value takes one expression, got %d arguments (quote expressions holding spaces)", len(d.Args))
			}
			e, perr := parser.ParseExpr(d.Args[0])
			if perr != nil {
				return "", nil, inputError(ErrInvalidDirective, d.Pos, "enumtag:value %q is not a Go expression", d.Args[0])
			}
			value, expr = d.Args[0], e
		}
	}
	return value, expr, nil
}

// docLines returns the text of a comment group without directives, one entry per line.
func docLines(doc *ast.CommentGroup) []string {
	if doc == nil {
		return nil
	}
	text := strings.TrimRight(doc.Text(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
