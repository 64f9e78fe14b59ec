package derive

// Synthesize derives the payload-free tag type of sum. Case order, names and
// discriminants copy the variants exactly; fields are dropped.
func Synthesize(sum *SumType) *TagType {
	tag := &TagType{
		Name:         sum.Name + "Tag",
		Repr:         sum.Repr,
		Capabilities: append([]Capability(nil), Capabilities...),
	}
	if tag.Repr == "" {
		tag.Repr = "int"
	}
	tag.Cases = make([]Case, 0, len(sum.Variants))
	for _, v := range sum.Variants {
		tag.Cases = append(tag.Cases, Case{
			Name:         v.Name,
			Const:        tag.Name + v.Name,
			Discriminant: v.Discriminant,
			Doc:          v.Doc,
		})
	}
	return tag
}

// HasDiscriminants reports whether any case carries an explicit value.
func (t *TagType) HasDiscriminants() bool {
	for _, c := range t.Cases {
		if c.Discriminant != "" {
			return true
		}
	}
	return false
}

// Has reports whether the tag type supports capability c.
func (t *TagType) Has(c Capability) bool {
	for _, have := range t.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}
