package derive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGenerated generates pkg and writes the result, as the enumtag command does.
func writeGenerated(t *testing.T, pkg *Package, opts GenerateOptions) []*Output {
	t.Helper()
	outputs, err := Generate(pkg, opts)
	require.NoError(t, err)
	require.NoError(t, Write(outputs))
	return outputs
}

func TestCheck(t *testing.T) {
	opts := GenerateOptions{RenderOptions: RenderOptions{Version: "v1.0.0"}}

	t.Run("up to date", func(t *testing.T) {
		pkg := parsePackage(t, t.TempDir(), map[string]string{"shape.go": shapeSource})
		outputs := writeGenerated(t, pkg, opts)

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.True(t, result.UpToDate)
		assert.Empty(t, result.Stale)
		assert.Equal(t, []string{outputs[0].Path}, result.Checked)
	})

	t.Run("generator version ignored", func(t *testing.T) {
		pkg := parsePackage(t, t.TempDir(), map[string]string{"shape.go": shapeSource})
		writeGenerated(t, pkg, opts)

		newer := opts
		newer.Version = "v2.0.0"
		result, err := Check(pkg, newer)
		require.NoError(t, err)
		assert.True(t, result.UpToDate)
	})

	t.Run("custom output name", func(t *testing.T) {
		dir := t.TempDir()
		pkg := parsePackage(t, dir, map[string]string{"shape.go": shapeSource})
		named := opts
		named.OutputName = "tags.go"
		writeGenerated(t, pkg, named)

		result, err := Check(pkg, named)
		require.NoError(t, err)
		assert.True(t, result.UpToDate)
		assert.Equal(t, []string{filepath.Join(dir, "tags.go")}, result.Checked)

		// Without the name the default file is missing
		result, err = Check(pkg, opts)
		require.NoError(t, err)
		assert.Equal(t, []Stale{{Path: filepath.Join(dir, "shape_enumtag.go"), Reason: StaleMissing}}, result.Stale)
	})

	t.Run("formatting ignored", func(t *testing.T) {
		pkg := parsePackage(t, t.TempDir(), map[string]string{"shape.go": shapeSource})
		outputs := writeGenerated(t, pkg, opts)

		mangled := strings.ReplaceAll(string(outputs[0].Source), "\treturn ", "        return ")
		require.NoError(t, os.WriteFile(outputs[0].Path, []byte(mangled), 0644))

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.True(t, result.UpToDate)
	})

	t.Run("outdated", func(t *testing.T) {
		dir := t.TempDir()
		writeGenerated(t, parsePackage(t, dir, map[string]string{"shape.go": shapeSource}), opts)

		// A new variant appears after generation
		changed := shapeSource + "\ntype Square struct{}\n\nfunc (Square) isShape() {}\n"
		pkg := parsePackage(t, dir, map[string]string{"shape.go": changed})

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.False(t, result.UpToDate)
		assert.Equal(t, []Stale{{Path: filepath.Join(dir, "shape_enumtag.go"), Reason: StaleOutdated}}, result.Stale)
	})

	t.Run("missing", func(t *testing.T) {
		dir := t.TempDir()
		pkg := parsePackage(t, dir, map[string]string{"shape.go": shapeSource})

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.False(t, result.UpToDate)
		assert.Equal(t, []Stale{{Path: filepath.Join(dir, "shape_enumtag.go"), Reason: StaleMissing}}, result.Stale)
	})

	t.Run("obsolete", func(t *testing.T) {
		dir := t.TempDir()
		writeGenerated(t, parsePackage(t, dir, map[string]string{"shape.go": shapeSource}), opts)

		// The directive is gone, the file it produced is not
		plain := strings.Replace(shapeSource, "//enumtag:derive\n", "", 1)
		pkg := parsePackage(t, dir, map[string]string{"shape.go": plain})

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.False(t, result.UpToDate)
		assert.Empty(t, result.Checked)
		assert.Equal(t, []Stale{{Path: filepath.Join(dir, "shape_enumtag.go"), Reason: StaleObsolete}}, result.Stale)
	})

	t.Run("hand written file with the same name", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "plain_enumtag.go"), []byte("package plain\n"), 0644))
		pkg := parsePackage(t, dir, map[string]string{"plain.go": "package plain\n\ntype X int\n"})

		result, err := Check(pkg, opts)
		require.NoError(t, err)
		assert.True(t, result.UpToDate)
	})

	t.Run("rejected type", func(t *testing.T) {
		pkg := parsePackage(t, t.TempDir(), map[string]string{
			"bad.go": "package bad\n\n//enumtag:derive\ntype Bad struct{}\n",
		})

		_, err := Check(pkg, opts)
		require.Error(t, err)
		assert.True(t, IsRejected(err))
	})
}

func TestFilterMetadataLines(t *testing.T) {
	a := GeneratedMarker + "\n" + MetadataPrefix + "v1.0.0\n\npackage x\n"
	b := GeneratedMarker + "\n" + MetadataPrefix + "dev\n\npackage x\n"

	fa, err := filterMetadataLines([]byte(a))
	require.NoError(t, err)
	fb, err := filterMetadataLines([]byte(b))
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
	assert.Equal(t, GeneratedMarker+"\n\npackage x\n", fa)
	assert.False(t, filesAreDifferent([]byte(a), []byte(b)))
	assert.True(t, filesAreDifferent([]byte(a), []byte(strings.Replace(b, "package x", "package y", 1))))
}

func TestUnreadableContentIsDifferent(t *testing.T) {
	long := []byte("// " + strings.Repeat("x", maxLineSize) + "\n")

	_, err := filterMetadataLines(long)
	require.Error(t, err)

	// Identical but unscannable content still counts as a mismatch
	assert.True(t, filesAreDifferent(long, long))
}

func TestWriteCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "x_enumtag.go")
	require.NoError(t, Write([]*Output{{Path: path, Source: []byte("package x\n")}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "package x\n", string(data))
}
