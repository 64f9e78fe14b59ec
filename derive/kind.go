package derive

import (
	"fmt"
	"go/token"

	"github.com/teranos/enumtag/errors"
)

// UnsupportedKind classifies declarations that are not sum types.
type UnsupportedKind int

const (
	// Product is a single fixed field layout: a struct or an array.
	Product UnsupportedKind = iota + 1
	// Union is a constraint interface with type-set elements (~int | string).
	Union
	// Opaque is any other declaration: basic, map, chan, func, pointer, alias.
	Opaque
)

func (k UnsupportedKind) String() string {
	switch k {
	case Product:
		return "Product"
	case Union:
		return "Union"
	case Opaque:
		return "Opaque"
	}
	return fmt.Sprintf("UnsupportedKind(%d)", int(k))
}

// KindError rejects a declaration that is not a sum type.
type KindError struct {
	Kind     UnsupportedKind
	TypeName string
	Found    string // "struct", "array", "constraint interface", "map", ...
	Pos      token.Position
}

func (e *KindError) Error() string {
	msg := fmt.Sprintf("derive(enumtag) only works on sum types but found %s %s", e.Found, e.TypeName)
	if e.Pos.IsValid() {
		return e.Pos.String() + ": " + msg
	}
	return msg
}

// hint explains how to turn the rejected declaration into a sum type.
func (e *KindError) hint() string {
	switch e.Kind {
	case Product:
		return fmt.Sprintf("declare %s as an interface with a marker method, e.g. `type %s interface{ is%s() }`, and give each case its own type implementing it",
			e.TypeName, e.TypeName, e.TypeName)
	case Union:
		return "constraint interfaces describe type sets, not sum types; replace the | and ~ elements with a marker method"
	default:
		return "only interface types with marker methods can derive a tag"
	}
}

// Input errors, reported with the position of the offending declaration.
var (
	ErrTypeNotFound     = errors.New("type not found")
	ErrInvalidDirective = errors.New("invalid directive")
	ErrInvalidVariant   = errors.New("invalid variant")
	ErrNoMarkers        = errors.New("no marker methods")
)

func rejectKind(kind UnsupportedKind, name, found string, pos token.Position) error {
	err := &KindError{Kind: kind, TypeName: name, Found: found, Pos: pos}
	return errors.WithHint(errors.WithStack(err), err.hint())
}

// inputError marks a formatted message with one of the input sentinels and
// the matching sentinel of the errors package.
func inputError(sentinel error, pos token.Position, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if pos.IsValid() {
		msg = pos.String() + ": " + msg
	}
	generic := errors.ErrInvalidInput
	if sentinel == ErrTypeNotFound {
		generic = errors.ErrNotFound
	}
	return errors.Mark(errors.Mark(errors.New(msg), sentinel), generic)
}

// IsRejected reports whether err rejects a declaration for its kind.
func IsRejected(err error) bool {
	var kerr *KindError
	return errors.As(err, &kerr)
}
