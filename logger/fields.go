package logger

import (
	"go.uber.org/zap"
)

// Standard field names for consistent structured logging across enumtag.
// Use these constants instead of raw strings to ensure consistency.
const (
	// Components
	FieldComponent = "component"
	FieldStage     = "stage"

	// Inputs
	FieldPackage  = "package"
	FieldDir      = "dir"
	FieldType     = "type"
	FieldVariant  = "variant"
	FieldVariants = "variants"
	FieldShape    = "shape"
	FieldRepr     = "repr"

	// Outputs
	FieldTag  = "tag"
	FieldFile = "file"
	FieldLine = "line"
	FieldSize = "size"

	// Timing
	FieldDurationMS = "duration_ms"

	// Errors
	FieldError     = "error"
	FieldErrorKind = "error_kind"

	// Counts
	FieldCount = "count"
)

// ComponentLogger returns a named logger for a specific component.
// This is the preferred way to get a logger for dependency injection.
//
// Example:
//
//	type Loader struct {
//	    logger *zap.SugaredLogger
//	}
//
//	func NewLoader() *Loader {
//	    return &Loader{
//	        logger: logger.ComponentLogger("derive.load"),
//	    }
//	}
func ComponentLogger(name string) *zap.SugaredLogger {
	return Logger.Named(name)
}

// ChildLogger creates a child logger with additional context.
// Use for sub-operations that need extra context fields.
//
// Example:
//
//	typeLogger := logger.ChildLogger(baseLogger, "type", decl.Name)
func ChildLogger(parent *zap.SugaredLogger, keysAndValues ...interface{}) *zap.SugaredLogger {
	return parent.With(keysAndValues...)
}
