package derive

import "strings"

// Bind builds the classification of sum into tag: one arm per variant, in
// variant order, generic over exactly the type parameters of sum.
func Bind(sum *SumType, tag *TagType) *Binding {
	b := &Binding{
		Sum:        sum.Name,
		TypeParams: sum.TypeParams,
		Tag:        tag.Name,
		Func:       tag.Name + "Of",
		Arms:       make([]Arm, 0, len(sum.Variants)),
	}

	sumParams := make([]string, len(sum.TypeParams))
	for i, p := range sum.TypeParams {
		sumParams[i] = p.Name
	}

	for i, v := range sum.Variants {
		arm := Arm{Variant: v.Name, Const: tag.Cases[i].Const}

		// In the dispatch function the variant is instantiated with the
		// sum's parameters; its Tag method uses the variant's own names.
		inst, recv := v.Name, v.Name
		if v.Generic() {
			inst = v.Name + "[" + strings.Join(sumParams, ", ") + "]"
			recv = v.Name + "[" + strings.Join(v.TypeParams, ", ") + "]"
		}

		if v.PointerMarker {
			arm.Types = []string{"*" + inst}
			arm.Receiver = "*" + recv
		} else {
			arm.Types = []string{inst, "*" + inst}
			arm.Receiver = recv
		}

		if !v.Generic() {
			switch {
			case v.PointerMarker:
				arm.Assert = "(*" + v.Name + ")(nil)"
			case v.Composite:
				arm.Assert = v.Name + "{}"
			default:
				arm.Assert = "*new(" + v.Name + ")"
			}
		}
		b.Arms = append(b.Arms, arm)
	}
	return b
}

// Signature returns the dispatch function's type parameter list and sum
// type instantiation: "[T any]" and "Tree[T]", or "" and "Shape".
func (b *Binding) Signature() (params, sum string) {
	if len(b.TypeParams) == 0 {
		return "", b.Sum
	}
	decl := make([]string, len(b.TypeParams))
	names := make([]string, len(b.TypeParams))
	for i, p := range b.TypeParams {
		decl[i] = p.Name + " " + p.Constraint
		names[i] = p.Name
	}
	return "[" + strings.Join(decl, ", ") + "]", b.Sum + "[" + strings.Join(names, ", ") + "]"
}
