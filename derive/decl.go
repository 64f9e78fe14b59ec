package derive

import (
	"go/token"
)

// FieldShape describes how a variant carries its payload.
type FieldShape int

const (
	NoFields         FieldShape = iota // struct{}
	PositionalFields                   // embedded-only struct, or any non-struct type
	NamedFields                        // struct with at least one named field
)

func (s FieldShape) String() string {
	switch s {
	case NoFields:
		return "no-fields"
	case PositionalFields:
		return "positional"
	case NamedFields:
		return "named"
	}
	return "unknown"
}

// Field is one payload field of a variant. Name is empty for positional fields.
type Field struct {
	Name string
	Type string
}

// TypeParam is a generic parameter with its constraint as written in source.
type TypeParam struct {
	Name       string
	Constraint string
}

// Import is a package referenced by an expression copied into generated code.
// Name is set only when the source file renamed the import.
type Import struct {
	Name string
	Path string
}

// Variant is one case of a sum type.
type Variant struct {
	Name   string
	Shape  FieldShape
	Fields []Field

	// Discriminant is the //enumtag:value expression, empty when absent.
	Discriminant string

	// TypeParams are the variant's own parameter names; either none or as
	// many as the sum type has.
	TypeParams []string

	// PointerMarker is set when the marker methods use a pointer receiver,
	// so only *V belongs to the sum type.
	PointerMarker bool

	// Composite is set when V{} is a valid zero value (struct, array, slice, map).
	Composite bool

	Doc []string
	Pos token.Position
}

// Generic reports whether the variant declares type parameters.
func (v *Variant) Generic() bool {
	return len(v.TypeParams) > 0
}

// SumType is the extracted form of a sum type declaration.
type SumType struct {
	Name       string
	Package    string
	TypeParams []TypeParam
	Markers    []string
	Variants   []Variant

	// Repr is the //enumtag:repr integer type, empty for the default int.
	Repr string

	// Imports needed by constraint and discriminant expressions.
	Imports []Import

	// Test is set when the declaration lives in a _test.go file.
	Test bool

	Pos token.Position
}

// Capability is a structural property every tag type supports.
type Capability int

const (
	CapDebug      Capability = iota // String() returns the variant name
	CapCopy                         // plain integer value semantics
	CapEqual                        // ==
	CapTotalEqual                   // == is reflexive for integers
	CapOrdered                      // < and Compare
	CapHash                         // usable as a map key
)

// Capabilities lists what is attached to every tag type, regardless of the
// payload types of the sum type.
var Capabilities = []Capability{CapDebug, CapCopy, CapEqual, CapTotalEqual, CapOrdered, CapHash}

func (c Capability) String() string {
	switch c {
	case CapDebug:
		return "debug"
	case CapCopy:
		return "copy"
	case CapEqual:
		return "equal"
	case CapTotalEqual:
		return "total-equal"
	case CapOrdered:
		return "ordered"
	case CapHash:
		return "hash"
	}
	return "unknown"
}

// Case is one constant of a tag type.
type Case struct {
	Name         string // variant name, also the textual form
	Const        string // ShapeTagCircle
	Discriminant string
	Doc          []string
}

// TagType is the payload-free enumeration derived from a SumType.
type TagType struct {
	Name         string
	Repr         string
	Cases        []Case
	Capabilities []Capability
}

// Unsigned reports whether the representation is an unsigned integer type.
func (t *TagType) Unsigned() bool {
	switch t.Repr {
	case "uint", "uint8", "uint16", "uint32", "uint64", "uintptr", "byte":
		return true
	}
	return false
}

// Arm maps the types of one variant to its tag constant.
type Arm struct {
	Variant string
	// Types are the type-switch cases: "Circle", "*Circle" or "Leaf[T]".
	Types []string
	Const string
	// Receiver is the receiver type of the variant's Tag method.
	Receiver string
	// Assert is the value checked against enumtag.Tagged; empty for generic variants.
	Assert string
}

// Binding is the classification of a sum type into its tag type.
type Binding struct {
	Sum        string
	TypeParams []TypeParam
	Tag        string
	Func       string // ShapeTagOf
	Arms       []Arm
}

// Derived holds everything generated for one sum type.
type Derived struct {
	Sum     *SumType
	Tag     *TagType
	Binding *Binding
}
