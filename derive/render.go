package derive

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/teranos/enumtag/errors"
)

// MetadataPrefix starts the line recording the generator version. Staleness
// checks ignore it.
const MetadataPrefix = "// enumtag version: "

// RuntimeImport is the package holding the Tagged contract.
const RuntimeImport = "github.com/teranos/enumtag"

// RenderOptions control the generated file.
type RenderOptions struct {
	// Version is written to the metadata line.
	Version string
	// Header is placed above the generated-code marker, e.g. a license.
	// Lines not starting with // are commented out.
	Header string
	// FileName is used in formatting errors.
	FileName string
}

// Render writes the derived declarations of one package as a formatted Go file.
func Render(pkgName string, derived []*Derived, opts RenderOptions) ([]byte, error) {
	var b strings.Builder

	if header := strings.TrimRight(opts.Header, "\n"); header != "" {
		for _, line := range strings.Split(header, "\n") {
			if !strings.HasPrefix(line, "//") {
				line = strings.TrimRight("// "+line, " ")
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	version := opts.Version
	if version == "" {
		version = "dev"
	}
	b.WriteString(GeneratedMarker + "\n")
	b.WriteString(MetadataPrefix + version + "\n\n")
	b.WriteString("package " + pkgName + "\n\n")

	writeImports(&b, derived)

	for _, d := range derived {
		writeTagType(&b, d.Tag)
		writeBinding(&b, d.Sum, d.Binding)
	}

	name := opts.FileName
	if name == "" {
		name = pkgName + DefaultFileSuffix
	}
	src, err := imports.Process(name, []byte(b.String()), &imports.Options{
		FormatOnly: true,
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
	})
	if err != nil {
		return nil, errors.WithDetail(
			errors.Wrapf(err, "failed to format generated %s", name),
			b.String(),
		)
	}
	return src, nil
}

func writeImports(b *strings.Builder, derived []*Derived) {
	seen := map[string]bool{"cmp": true, "fmt": true, "strconv": true}
	std := []string{`"cmp"`, `"fmt"`, `"strconv"`}
	var external []string

	add := func(name, path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		line := strconv.Quote(path)
		if name != "" {
			line = name + " " + line
		}
		if first, _, _ := strings.Cut(path, "/"); strings.Contains(first, ".") {
			external = append(external, line)
		} else {
			std = append(std, line)
		}
	}

	for _, d := range derived {
		for _, arm := range d.Binding.Arms {
			if arm.Assert != "" {
				add("", RuntimeImport)
			}
		}
		for _, imp := range d.Sum.Imports {
			add(imp.Name, imp.Path)
		}
	}

	b.WriteString("import (\n")
	for _, l := range std {
		b.WriteString("\t" + l + "\n")
	}
	if len(external) > 0 {
		b.WriteString("\n")
		for _, l := range external {
			b.WriteString("\t" + l + "\n")
		}
	}
	b.WriteString(")\n")
}

func writeDoc(b *strings.Builder, indent string, lines []string) {
	for _, l := range lines {
		if l == "" {
			b.WriteString(indent + "//\n")
			continue
		}
		b.WriteString(indent + "// " + l + "\n")
	}
}

func writeTagType(b *strings.Builder, tag *TagType) {
	fmt.Fprintf(b, "\n// %s identifies a variant without its payload.\n", tag.Name)
	fmt.Fprintf(b, "type %s %s\n", tag.Name, tag.Repr)

	if len(tag.Cases) > 0 {
		b.WriteString("\nconst (\n")
		explicit := tag.HasDiscriminants()
		for i, c := range tag.Cases {
			writeDoc(b, "\t", c.Doc)
			switch {
			case c.Discriminant != "":
				fmt.Fprintf(b, "\t%s %s = %s\n", c.Const, tag.Name, c.Discriminant)
			case i == 0:
				fmt.Fprintf(b, "\t%s %s = iota\n", c.Const, tag.Name)
			case explicit:
				// Without a value a case follows its predecessor
				fmt.Fprintf(b, "\t%s %s = %s + 1\n", c.Const, tag.Name, tag.Cases[i-1].Const)
			default:
				fmt.Fprintf(b, "\t%s\n", c.Const)
			}
		}
		b.WriteString(")\n")
	}

	consts := make([]string, len(tag.Cases))
	for i, c := range tag.Cases {
		consts[i] = c.Const
	}

	if tag.Has(CapDebug) {
		format := "strconv.FormatInt(int64(t), 10)"
		if tag.Unsigned() {
			format = "strconv.FormatUint(uint64(t), 10)"
		}
		b.WriteString("\n// String returns the name of the variant.\n")
		fmt.Fprintf(b, "func (t %s) String() string {\n", tag.Name)
		if len(tag.Cases) > 0 {
			b.WriteString("\tswitch t {\n")
			for _, c := range tag.Cases {
				fmt.Fprintf(b, "\tcase %s:\n\t\treturn %q\n", c.Const, c.Name)
			}
			b.WriteString("\t}\n")
		}
		fmt.Fprintf(b, "\treturn %q + %s + \")\"\n}\n", tag.Name+"(", format)
	}

	if tag.Has(CapOrdered) {
		b.WriteString("\n// Compare returns -1, 0 or +1 as t orders before, with or after u.\n")
		fmt.Fprintf(b, "func (t %s) Compare(u %s) int {\n\treturn cmp.Compare(t, u)\n}\n", tag.Name, tag.Name)
	}

	fmt.Fprintf(b, "\n// IsValid reports whether t is one of the %s constants.\n", tag.Name)
	fmt.Fprintf(b, "func (t %s) IsValid() bool {\n", tag.Name)
	if len(consts) > 0 {
		fmt.Fprintf(b, "\tswitch t {\n\tcase %s:\n\t\treturn true\n\t}\n", strings.Join(consts, ", "))
	}
	b.WriteString("\treturn false\n}\n")

	b.WriteString("\n// MarshalText encodes t as the name of its variant.\n")
	fmt.Fprintf(b, "func (t %s) MarshalText() ([]byte, error) {\n", tag.Name)
	fmt.Fprintf(b, "\tif !t.IsValid() {\n\t\treturn nil, fmt.Errorf(\"invalid %s %%d\", t)\n\t}\n", tag.Name)
	b.WriteString("\treturn []byte(t.String()), nil\n}\n")

	b.WriteString("\n// UnmarshalText decodes the name of a variant.\n")
	fmt.Fprintf(b, "func (t *%s) UnmarshalText(text []byte) error {\n", tag.Name)
	b.WriteString("\tswitch string(text) {\n")
	for _, c := range tag.Cases {
		fmt.Fprintf(b, "\tcase %q:\n\t\t*t = %s\n", c.Name, c.Const)
	}
	fmt.Fprintf(b, "\tdefault:\n\t\treturn fmt.Errorf(\"unknown %s %%q\", text)\n\t}\n", tag.Name)
	b.WriteString("\treturn nil\n}\n")
}

func writeBinding(b *strings.Builder, sum *SumType, binding *Binding) {
	for _, arm := range binding.Arms {
		fmt.Fprintf(b, "\nfunc (%s) Tag() %s {\n\treturn %s\n}\n", arm.Receiver, binding.Tag, arm.Const)
	}

	params, inst := binding.Signature()
	fmt.Fprintf(b, "\n// %s returns the tag of the variant held by v.\n", binding.Func)
	if params != "" {
		// Marker methods never mention the type parameters, so v gives
		// nothing to infer them from.
		fmt.Fprintf(b, "// Type arguments cannot be inferred and must be given: %s[%s](v).\n",
			binding.Func, strings.TrimPrefix(strings.TrimSuffix(inst, "]"), binding.Sum+"["))
	}
	fmt.Fprintf(b, "func %s%s(v %s) %s {\n", binding.Func, params, inst, binding.Tag)
	if len(binding.Arms) > 0 {
		b.WriteString("\tswitch v.(type) {\n")
		for _, arm := range binding.Arms {
			fmt.Fprintf(b, "\tcase %s:\n\t\treturn %s\n", strings.Join(arm.Types, ", "), arm.Const)
		}
		b.WriteString("\t}\n")
	}
	fmt.Fprintf(b, "\tpanic(fmt.Sprintf(\"enumtag: %%T is not a variant of %s\", v))\n}\n", sum.Name)

	var asserts []string
	for _, arm := range binding.Arms {
		if arm.Assert != "" {
			asserts = append(asserts, arm.Assert)
		}
	}
	if len(asserts) > 0 {
		b.WriteString("\nvar (\n")
		for _, a := range asserts {
			fmt.Fprintf(b, "\t_ enumtag.Tagged[%s] = %s\n", binding.Tag, a)
		}
		b.WriteString(")\n")
	}
}
