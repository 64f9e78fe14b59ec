package logger

// Output controls what categories of information are shown at each verbosity level.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed regardless of severity.
//
// Verbosity Levels:
//
//	0 (default) - Written files, diagnostics with hints, check status
//	1 (-v)      - + Packages loaded, one summary line per derived type
//	2 (-vv)     - + Variant listing, timing, config loaded
//	3 (-vvv)    - + Pipeline stage transitions, tolerated type errors
//	4 (-vvvv)   - + Full generated source

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults     OutputCategory = iota // Generated files, check results
	OutputErrors                            // Diagnostics with hints
	OutputCheckStatus                       // Final up-to-date / stale status

	// Level 1 (-v) - Informational
	OutputPackages    // Packages loaded and their directories
	OutputTypeSummary // "ShapeTag: 3 variants" per derived type

	// Level 2 (-vv) - Detailed
	OutputVariants // Variant names, field shapes, discriminants
	OutputTiming   // Operation timing (e.g., "load took 42ms")
	OutputConfig   // Config values loaded/applied

	// Level 3 (-vvv) - Debug
	OutputStages     // Extracting/Synthesizing/Binding transitions
	OutputTypeErrors // Type errors tolerated while loading

	// Level 4 (-vvvv) - Full dump
	OutputSource // Full generated source
)

// categoryLevels maps each output category to its minimum verbosity level
var categoryLevels = map[OutputCategory]int{
	OutputResults:     VerbosityUser,
	OutputErrors:      VerbosityUser,
	OutputCheckStatus: VerbosityUser,

	OutputPackages:    VerbosityInfo,
	OutputTypeSummary: VerbosityInfo,

	OutputVariants: VerbosityDebug,
	OutputTiming:   VerbosityDebug,
	OutputConfig:   VerbosityDebug,

	OutputStages:     VerbosityTrace,
	OutputTypeErrors: VerbosityTrace,

	OutputSource: VerbosityAll,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		// Unknown category, default to highest verbosity required
		return verbosity >= VerbosityAll
	}
	return verbosity >= minLevel
}

// categoryNames provides human-readable names for output categories
var categoryNames = map[OutputCategory]string{
	OutputResults:     "results",
	OutputErrors:      "errors",
	OutputCheckStatus: "status",
	OutputPackages:    "packages",
	OutputTypeSummary: "type-summary",
	OutputVariants:    "variants",
	OutputTiming:      "timing",
	OutputConfig:      "config",
	OutputStages:      "stages",
	OutputTypeErrors:  "type-errors",
	OutputSource:      "source",
}

// EnabledCategories lists the names of the categories shown at verbosity,
// in level order.
func EnabledCategories(verbosity int) []string {
	var names []string
	for c := OutputResults; c <= OutputSource; c++ {
		if ShouldOutput(verbosity, c) {
			names = append(names, CategoryName(c))
		}
	}
	return names
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch verbosity {
	case VerbosityUser:
		return "written files and errors only"
	case VerbosityInfo:
		return "above + packages and per-type summaries"
	case VerbosityDebug:
		return "above + variants, timing, config details"
	case VerbosityTrace:
		return "above + pipeline stages and type errors"
	case VerbosityAll:
		return "full output including generated source"
	default:
		if verbosity > VerbosityAll {
			return "maximum verbosity"
		}
		return "unknown verbosity level"
	}
}
