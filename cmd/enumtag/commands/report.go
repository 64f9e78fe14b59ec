package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/teranos/enumtag/derive"
	"github.com/teranos/enumtag/errors"
	"github.com/teranos/enumtag/logger"
)

// Reporter presents the progress and results of a run.
//
// Implementations:
//   - cliReporter: pterm output for a terminal, filtered by verbosity
//   - jsonReporter: one JSON event per line for editors and CI
type Reporter interface {
	ConfigFiles(paths []string)
	Loaded(pkg *derive.Package)
	Timing(operation string, d time.Duration)
	Stage(typeName string, stage derive.Stage)
	Written(out *derive.Output)
	Checked(pkg *derive.Package, result *derive.CheckResult)
	Error(err error)
}

func newReporter(jsonOutput bool, out, errw io.Writer, verbosity int) Reporter {
	if jsonOutput {
		return &jsonReporter{encoder: json.NewEncoder(out)}
	}
	return &cliReporter{out: out, errw: errw, verbosity: verbosity}
}

// cliReporter writes results to out and diagnostics to errw.
type cliReporter struct {
	out       io.Writer
	errw      io.Writer
	verbosity int
}

func (r *cliReporter) show(category logger.OutputCategory) bool {
	return logger.ShouldOutput(r.verbosity, category)
}

func (r *cliReporter) ConfigFiles(paths []string) {
	if !r.show(logger.OutputConfig) {
		return
	}
	if len(paths) == 0 {
		fmt.Fprintf(r.errw, "%s built-in defaults\n", pterm.Gray("config:"))
		return
	}
	for _, p := range paths {
		fmt.Fprintf(r.errw, "%s %s\n", pterm.Gray("config:"), p)
	}
}

func (r *cliReporter) Loaded(pkg *derive.Package) {
	if r.show(logger.OutputPackages) {
		fmt.Fprintf(r.errw, "%s %s %s\n", pterm.LightCyan("package"), pkg.Path, pterm.Gray(relPath(pkg.Dir)))
	}
}

func (r *cliReporter) Timing(operation string, d time.Duration) {
	if r.show(logger.OutputTiming) {
		fmt.Fprintf(r.errw, "%s took %s\n", operation, pterm.Yellow(d.Round(time.Millisecond).String()))
	}
}

func (r *cliReporter) Stage(typeName string, stage derive.Stage) {
	if !r.show(logger.OutputStages) {
		return
	}
	name := pterm.LightCyan(stage.String())
	if stage == derive.StageRejected {
		name = pterm.Red(stage.String())
	}
	fmt.Fprintf(r.errw, "  %s %s %s\n", pterm.Gray("→"), typeName, name)
}

func (r *cliReporter) Written(out *derive.Output) {
	fmt.Fprintf(r.out, "%s %s %s\n", pterm.Green("✓"), relPath(out.Path), pterm.Gray("("+strings.Join(out.Types, ", ")+")"))
	if r.show(logger.OutputTypeSummary) {
		for _, t := range out.Types {
			fmt.Fprintf(r.out, "  %s → %s\n", t, pterm.LightGreen(t+"Tag"))
		}
	}
	if r.show(logger.OutputSource) {
		fmt.Fprintln(r.out, string(out.Source))
	}
}

func (r *cliReporter) Checked(pkg *derive.Package, result *derive.CheckResult) {
	if result.UpToDate {
		if r.show(logger.OutputCheckStatus) && len(result.Checked) > 0 {
			fmt.Fprintf(r.out, "%s %s up to date\n", pterm.Green("✓"), pkg.Path)
		}
		return
	}
	for _, s := range result.Stale {
		fmt.Fprintf(r.out, "%s %s %s\n", pterm.Red("✗"), relPath(s.Path), pterm.Yellow(s.Reason))
	}
}

// Error prints a diagnostic with the hints attached to err.
func (r *cliReporter) Error(err error) {
	fmt.Fprint(r.errw, pterm.Error.Sprintln(err.Error()))
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(r.errw, "  %s %s\n", pterm.LightCyan("hint:"), hint)
	}
	if logger.ShouldLogTrace(r.verbosity) {
		fmt.Fprintf(r.errw, "%+v\n", err)
	}
	if r.show(logger.OutputSource) {
		for _, detail := range errors.GetAllDetails(err) {
			fmt.Fprintln(r.errw, detail)
		}
	}
}

// relPath shortens path for display when it lies below the working directory.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}

// Event is one line of --json output.
type Event struct {
	Type      string                 `json:"type"` // "config", "package", "timing", "stage", "written", "checked", "error"
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// jsonReporter emits every event regardless of verbosity.
type jsonReporter struct {
	encoder *json.Encoder
}

func (r *jsonReporter) emit(typ string, data map[string]interface{}) {
	_ = r.encoder.Encode(Event{Type: typ, Timestamp: time.Now(), Data: data})
}

func (r *jsonReporter) ConfigFiles(paths []string) {
	r.emit("config", map[string]interface{}{"files": paths})
}

func (r *jsonReporter) Loaded(pkg *derive.Package) {
	r.emit("package", map[string]interface{}{
		logger.FieldPackage: pkg.Path,
		logger.FieldDir:     pkg.Dir,
		logger.FieldCount:   len(pkg.Files),
	})
}

func (r *jsonReporter) Timing(operation string, d time.Duration) {
	r.emit("timing", map[string]interface{}{
		"operation":            operation,
		logger.FieldDurationMS: d.Milliseconds(),
	})
}

func (r *jsonReporter) Stage(typeName string, stage derive.Stage) {
	r.emit("stage", map[string]interface{}{
		logger.FieldType:  typeName,
		logger.FieldStage: stage.String(),
	})
}

func (r *jsonReporter) Written(out *derive.Output) {
	r.emit("written", map[string]interface{}{
		logger.FieldFile: out.Path,
		"types":          out.Types,
		logger.FieldSize: len(out.Source),
	})
}

func (r *jsonReporter) Checked(pkg *derive.Package, result *derive.CheckResult) {
	stale := make([]map[string]string, 0, len(result.Stale))
	for _, s := range result.Stale {
		stale = append(stale, map[string]string{logger.FieldFile: s.Path, "reason": s.Reason})
	}
	r.emit("checked", map[string]interface{}{
		logger.FieldPackage: pkg.Path,
		"up_to_date":        result.UpToDate,
		"checked":           result.Checked,
		"stale":             stale,
	})
}

func (r *jsonReporter) Error(err error) {
	data := map[string]interface{}{logger.FieldError: err.Error()}
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		data["hints"] = hints
	}
	var kerr *derive.KindError
	if errors.As(err, &kerr) {
		data[logger.FieldErrorKind] = kerr.Kind.String()
		data[logger.FieldFile] = kerr.Pos.Filename
		data[logger.FieldLine] = kerr.Pos.Line
	}
	r.emit("error", data)
}
