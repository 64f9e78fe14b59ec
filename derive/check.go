package derive

import (
	"bufio"
	"bytes"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/teranos/enumtag/errors"
)

// Staleness reasons.
const (
	StaleMissing  = "missing"  // generated file does not exist
	StaleOutdated = "outdated" // contents differ from a fresh generation
	StaleObsolete = "obsolete" // generated file exists but nothing derives into it
)

// Stale describes a generated file that does not match its sources.
type Stale struct {
	Path   string
	Reason string
}

// CheckResult holds the result of a staleness check
type CheckResult struct {
	UpToDate bool
	Checked  []string
	Stale    []Stale
}

// Check regenerates pkg in memory and compares the result with the files on
// disk. The version metadata line is ignored.
func Check(pkg *Package, opts GenerateOptions) (*CheckResult, error) {
	outputs, err := Generate(pkg, opts)
	if err != nil {
		return nil, err
	}

	result := &CheckResult{}
	expected := make(map[string]bool)
	for _, out := range outputs {
		expected[out.Path] = true
		result.Checked = append(result.Checked, out.Path)

		existing, err := os.ReadFile(out.Path)
		if os.IsNotExist(err) {
			result.Stale = append(result.Stale, Stale{Path: out.Path, Reason: StaleMissing})
			continue
		}
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", out.Path)
		}
		if filesAreDifferent(out.Source, existing) {
			result.Stale = append(result.Stale, Stale{Path: out.Path, Reason: StaleOutdated})
		}
	}

	// A generated file left behind after its last derive directive was removed
	candidates := []string{OutputPath(pkg, opts.FileSuffix, false), OutputPath(pkg, opts.FileSuffix, true)}
	if opts.OutputName != "" {
		candidates = append(candidates, namedOutputPath(pkg, opts.OutputName))
	}
	for _, path := range candidates {
		if expected[path] {
			continue
		}
		existing, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if IsGeneratedSource(existing) {
			result.Stale = append(result.Stale, Stale{Path: path, Reason: StaleObsolete})
		}
	}

	sort.Slice(result.Stale, func(i, j int) bool { return result.Stale[i].Path < result.Stale[j].Path })
	result.UpToDate = len(result.Stale) == 0
	return result, nil
}

// filesAreDifferent compares fresh output with a file on disk. The file on
// disk is gofmt-normalized first, so formatting-only edits do not count.
// Content that cannot be read line by line is always different.
func filesAreDifferent(fresh, existing []byte) bool {
	if formatted, err := format.Source(existing); err == nil {
		existing = formatted
	}
	a, err := filterMetadataLines(fresh)
	if err != nil {
		return true
	}
	b, err := filterMetadataLines(existing)
	if err != nil {
		return true
	}
	return a != b
}

// maxLineSize bounds a single line of a compared file.
const maxLineSize = 4 * 1024 * 1024

// filterMetadataLines removes the version line that changes with every
// release of the generator without changing the generated declarations.
func filterMetadataLines(content []byte) (string, error) {
	var result strings.Builder
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), strings.TrimSpace(MetadataPrefix)) {
			continue
		}
		result.WriteString(line)
		result.WriteString("\n")
	}

	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "failed to scan generated source")
	}
	return result.String(), nil
}

// Write stores outputs on disk.
func Write(outputs []*Output) error {
	for _, out := range outputs {
		if err := os.MkdirAll(filepath.Dir(out.Path), 0755); err != nil {
			return errors.Wrapf(err, "failed to create directory for %s", out.Path)
		}
		if err := os.WriteFile(out.Path, out.Source, 0644); err != nil {
			return errors.Wrapf(err, "failed to write %s", out.Path)
		}
	}
	return nil
}
