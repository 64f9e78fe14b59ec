package derive

import (
	"go/ast"
	"go/token"
	"go/types"
	"path"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/enumtag/errors"
)

// contractMethod is the method generated for every variant; it never marks membership.
const contractMethod = "Tag"

type typeDecl struct {
	spec *ast.TypeSpec
	doc  *ast.CommentGroup
	file *File
}

type methodInfo struct {
	pointer bool
	test    bool
	pos     token.Pos
}

// index holds the declarations of one package in source order.
type index struct {
	pkg     *Package
	types   map[string]*typeDecl
	order   []*typeDecl
	methods map[string]map[string]methodInfo // receiver type -> method -> info
}

func newIndex(pkg *Package) *index {
	idx := &index{
		pkg:     pkg,
		types:   make(map[string]*typeDecl),
		methods: make(map[string]map[string]methodInfo),
	}
	for _, f := range pkg.Files {
		for _, decl := range f.AST.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					doc := ts.Doc
					if doc == nil && len(d.Specs) == 1 {
						doc = d.Doc
					}
					td := &typeDecl{spec: ts, doc: doc, file: f}
					idx.types[ts.Name.Name] = td
					idx.order = append(idx.order, td)
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) == 0 {
					continue
				}
				recv, pointer := receiverBase(d.Recv.List[0].Type)
				if recv == "" {
					continue
				}
				if idx.methods[recv] == nil {
					idx.methods[recv] = make(map[string]methodInfo)
				}
				prev, seen := idx.methods[recv][d.Name.Name]
				info := methodInfo{pointer: pointer, test: f.Test, pos: d.Name.Pos()}
				if seen && !prev.test {
					info.test = false
				}
				idx.methods[recv][d.Name.Name] = info
			}
		}
	}
	return idx
}

// derivable returns the names of the types carrying //enumtag:derive, in source order.
func (idx *index) derivable() []string {
	var names []string
	for _, td := range idx.order {
		if HasDerive(td.doc) {
			names = append(names, td.spec.Name.Name)
		}
	}
	return names
}

// Extract reads the named type declaration of pkg into a SumType.
// Declarations that are not sum types are rejected with a *KindError.
func Extract(pkg *Package, name string) (*SumType, error) {
	return newIndex(pkg).extract(name)
}

func (idx *index) extract(name string) (*SumType, error) {
	td, ok := idx.types[name]
	if !ok {
		return nil, inputError(ErrTypeNotFound, token.Position{}, "type %s not found in package %s", name, idx.pkg.Name)
	}
	fset := idx.pkg.Fset
	spec := td.spec
	pos := fset.Position(spec.Name.Pos())

	if spec.Assign.IsValid() {
		return nil, rejectKind(Opaque, name, "alias", pos)
	}

	iface, ok := unparen(spec.Type).(*ast.InterfaceType)
	if !ok {
		kind, found := idx.classify(spec.Type)
		return nil, rejectKind(kind, name, found, pos)
	}

	var markers []string
	var elems []*ast.Field
	if iface.Methods != nil {
		elems = iface.Methods.List
	}
	for _, m := range elems {
		if len(m.Names) == 0 {
			if idx.isTypeSetElem(m.Type) {
				return nil, rejectKind(Union, name, "constraint interface", pos)
			}
			// Embedded interfaces add methods the variants need not declare here
			continue
		}
		for _, n := range m.Names {
			if n.Name != contractMethod {
				markers = append(markers, n.Name)
			}
		}
	}

	repr, err := sumDirectives(fset, td.doc)
	if err != nil {
		return nil, err
	}

	if len(markers) == 0 {
		return nil, errors.WithHint(
			inputError(ErrNoMarkers, pos, "interface %s declares no marker methods to identify its variants", name),
			"add an unexported method such as is"+name+"() and declare it on every variant",
		)
	}

	sum := &SumType{
		Name:       name,
		Package:    idx.pkg.Name,
		TypeParams: typeParams(spec.TypeParams),
		Markers:    markers,
		Repr:       repr,
		Test:       td.file.Test,
		Pos:        pos,
	}

	imports := newImportSet()
	if spec.TypeParams != nil {
		for _, field := range spec.TypeParams.List {
			imports.add(td.file.AST, field.Type)
		}
	}

	for _, cand := range idx.order {
		v, ok, err := idx.variant(sum, cand)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		if v.expr != nil {
			imports.add(cand.file.AST, v.expr)
		}
		sum.Variants = append(sum.Variants, v.Variant)
	}
	sum.Imports = imports.list()
	return sum, nil
}

type extractedVariant struct {
	Variant
	expr ast.Expr
}

// variant returns the variant described by cand, or false when cand does not
// declare every marker of sum.
func (idx *index) variant(sum *SumType, cand *typeDecl) (extractedVariant, bool, error) {
	spec := cand.spec
	if spec.Assign.IsValid() {
		return extractedVariant{}, false, nil
	}
	if _, isIface := unparen(spec.Type).(*ast.InterfaceType); isIface {
		return extractedVariant{}, false, nil
	}
	// A sum type outside tests cannot reach test-only variants
	if cand.file.Test && !sum.Test {
		return extractedVariant{}, false, nil
	}

	methods := idx.methods[spec.Name.Name]
	pointer := false
	for _, m := range sum.Markers {
		info, ok := methods[m]
		if !ok || (info.test && !sum.Test) {
			return extractedVariant{}, false, nil
		}
		pointer = pointer || info.pointer
	}

	fset := idx.pkg.Fset
	pos := fset.Position(spec.Name.Pos())
	own := paramNames(spec.TypeParams)
	if len(own) != 0 && len(own) != len(sum.TypeParams) {
		return extractedVariant{}, false, inputError(ErrInvalidVariant, pos,
			"variant %s of %s declares %d type parameters; variants take none or exactly %d",
			spec.Name.Name, sum.Name, len(own), len(sum.TypeParams))
	}

	if err := idx.checkContractFree(sum, cand); err != nil {
		return extractedVariant{}, false, err
	}

	value, expr, err := variantDirectives(fset, cand.doc)
	if err != nil {
		return extractedVariant{}, false, err
	}

	shape, fields := fieldsOf(spec.Type)
	return extractedVariant{
		Variant: Variant{
			Name:          spec.Name.Name,
			Shape:         shape,
			Fields:        fields,
			Discriminant:  value,
			TypeParams:    own,
			PointerMarker: pointer,
			Composite:     isComposite(spec.Type),
			Doc:           docLines(cand.doc),
			Pos:           pos,
		},
		expr: expr,
	}, true, nil
}

// checkContractFree rejects a variant that already has a field or method
// named Tag, which the generated method would collide with.
func (idx *index) checkContractFree(sum *SumType, cand *typeDecl) error {
	fset := idx.pkg.Fset
	name := cand.spec.Name.Name
	if m, ok := idx.methods[name][contractMethod]; ok && (!m.test || sum.Test) {
		return errors.WithHint(
			inputError(ErrInvalidVariant, fset.Position(m.pos),
				"variant %s of %s declares its own %s method", name, sum.Name, contractMethod),
			"remove the method; enumtag generates "+name+"."+contractMethod+"()",
		)
	}
	st, ok := unparen(cand.spec.Type).(*ast.StructType)
	if !ok || st.Fields == nil {
		return nil
	}
	for _, f := range st.Fields.List {
		names := f.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: embeddedName(f.Type), NamePos: f.Type.Pos()}}
		}
		for _, n := range names {
			if n.Name == contractMethod {
				return errors.WithHint(
					inputError(ErrInvalidVariant, fset.Position(n.Pos()),
						"variant %s of %s has a field named %s", name, sum.Name, contractMethod),
					"rename the field; a type cannot have a field and a method with the same name",
				)
			}
		}
	}
	return nil
}

// classify names the kind of a non-interface declaration.
func (idx *index) classify(expr ast.Expr) (UnsupportedKind, string) {
	switch t := unparen(expr).(type) {
	case *ast.StructType:
		return Product, "struct"
	case *ast.ArrayType:
		if t.Len != nil {
			return Product, "array"
		}
		return Opaque, "slice"
	case *ast.MapType:
		return Opaque, "map"
	case *ast.ChanType:
		return Opaque, "chan"
	case *ast.FuncType:
		return Opaque, "func"
	case *ast.StarExpr:
		return Opaque, "pointer"
	case *ast.Ident:
		if isPredeclaredType(t.Name) {
			return Opaque, "basic type"
		}
	}
	return Opaque, "defined type"
}

// isTypeSetElem reports whether an embedded interface element restricts the
// type set (~T, A | B, a non-interface type), which makes the interface a
// constraint rather than a sum type.
func (idx *index) isTypeSetElem(expr ast.Expr) bool {
	switch t := unparen(expr).(type) {
	case *ast.BinaryExpr:
		return t.Op == token.OR
	case *ast.UnaryExpr:
		return t.Op == token.TILDE
	case *ast.Ident:
		if t.Name == "comparable" || isPredeclaredType(t.Name) {
			return true
		}
		if td, ok := idx.types[t.Name]; ok {
			_, isIface := unparen(td.spec.Type).(*ast.InterfaceType)
			return !isIface
		}
	case *ast.ArrayType, *ast.MapType, *ast.ChanType, *ast.FuncType, *ast.StructType, *ast.StarExpr:
		return true
	}
	return false
}

// isPredeclaredType reports whether name is a builtin non-interface type.
func isPredeclaredType(name string) bool {
	switch name {
	case "bool", "string", "byte", "rune",
		"int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
		"float32", "float64", "complex64", "complex128":
		return true
	}
	return false
}

func unparen(expr ast.Expr) ast.Expr {
	for {
		p, ok := expr.(*ast.ParenExpr)
		if !ok {
			return expr
		}
		expr = p.X
	}
}

// receiverBase returns the type name of a method receiver.
func receiverBase(expr ast.Expr) (name string, pointer bool) {
	expr = unparen(expr)
	if star, ok := expr.(*ast.StarExpr); ok {
		pointer = true
		expr = unparen(star.X)
	}
	switch e := expr.(type) {
	case *ast.IndexExpr:
		expr = e.X
	case *ast.IndexListExpr:
		expr = e.X
	}
	if id, ok := expr.(*ast.Ident); ok {
		return id.Name, pointer
	}
	return "", false
}

func typeParams(list *ast.FieldList) []TypeParam {
	if list == nil {
		return nil
	}
	var out []TypeParam
	for _, field := range list.List {
		constraint := types.ExprString(field.Type)
		for _, n := range field.Names {
			out = append(out, TypeParam{Name: n.Name, Constraint: constraint})
		}
	}
	return out
}

func paramNames(list *ast.FieldList) []string {
	var names []string
	for _, p := range typeParams(list) {
		names = append(names, p.Name)
	}
	return names
}

// fieldsOf describes the payload of a variant declaration.
func fieldsOf(expr ast.Expr) (FieldShape, []Field) {
	st, ok := unparen(expr).(*ast.StructType)
	if !ok {
		return PositionalFields, []Field{{Type: types.ExprString(expr)}}
	}
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return NoFields, nil
	}

	embeddedOnly := true
	for _, f := range st.Fields.List {
		if len(f.Names) > 0 {
			embeddedOnly = false
			break
		}
	}

	var fields []Field
	for _, f := range st.Fields.List {
		typ := types.ExprString(f.Type)
		if len(f.Names) == 0 {
			name := ""
			if !embeddedOnly {
				name = embeddedName(f.Type)
			}
			fields = append(fields, Field{Name: name, Type: typ})
			continue
		}
		for _, n := range f.Names {
			fields = append(fields, Field{Name: n.Name, Type: typ})
		}
	}
	if embeddedOnly {
		return PositionalFields, fields
	}
	return NamedFields, fields
}

// embeddedName is the implicit field name of an embedded type.
func embeddedName(expr ast.Expr) string {
	switch t := unparen(expr).(type) {
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

// isComposite reports whether T{} is a valid value of a type declared as expr.
func isComposite(expr ast.Expr) bool {
	switch unparen(expr).(type) {
	case *ast.StructType, *ast.ArrayType, *ast.MapType:
		return true
	}
	return false
}

// importSet collects the imports that qualified identifiers in copied
// expressions refer to.
type importSet struct {
	byPath map[string]Import
}

func newImportSet() *importSet {
	return &importSet{byPath: make(map[string]Import)}
}

// add records the imports of file used by selector expressions in expr.
func (s *importSet) add(file *ast.File, expr ast.Expr) {
	local := make(map[string]Import)
	for _, spec := range file.Imports {
		p, err := strconv.Unquote(spec.Path.Value)
		if err != nil {
			continue
		}
		imp := Import{Path: p}
		name := assumedName(p)
		if spec.Name != nil {
			if spec.Name.Name == "_" || spec.Name.Name == "." {
				continue
			}
			name = spec.Name.Name
			imp.Name = spec.Name.Name
		}
		local[name] = imp
	}

	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if id, ok := sel.X.(*ast.Ident); ok {
			if imp, ok := local[id.Name]; ok {
				s.byPath[imp.Path] = imp
			}
		}
		return true
	})
}

func (s *importSet) list() []Import {
	if len(s.byPath) == 0 {
		return nil
	}
	out := make([]Import, 0, len(s.byPath))
	for _, imp := range s.byPath {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// assumedName guesses the package name of an unrenamed import the way the go
// tool's import fixer does: last path element, skipping a major version
// suffix and a go- prefix, cut at the first non-identifier character.
func assumedName(importPath string) string {
	base := path.Base(importPath)
	if strings.HasPrefix(base, "v") {
		if _, err := strconv.Atoi(base[1:]); err == nil {
			if dir := path.Dir(importPath); dir != "." {
				base = path.Base(dir)
			}
		}
	}
	base = strings.TrimPrefix(base, "go-")
	if i := strings.IndexFunc(base, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	}); i >= 0 {
		base = base[:i]
	}
	return base
}
