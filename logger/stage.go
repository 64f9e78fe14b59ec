package logger

import (
	"fmt"
)

// Stage-aware logging helpers.
// These log the pipeline stage as a structured field, not in the message.
//
// Usage:
//
//	// Instead of:
//	logger.Debugw("[synthesizing] ShapeTag", "type", "Shape")
//
//	// Use:
//	logger.StageDebugw(derive.StageSynthesizing, "ShapeTag", "type", "Shape")

// StageDebugw logs a debug message tagged with the pipeline stage
func StageDebugw(stage fmt.Stringer, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Debugw(msg, withStage(stage, keysAndValues)...)
	}
}

// StageInfow logs an info message tagged with the pipeline stage
func StageInfow(stage fmt.Stringer, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Infow(msg, withStage(stage, keysAndValues)...)
	}
}

// StageWarnw logs a warning tagged with the pipeline stage
func StageWarnw(stage fmt.Stringer, msg string, keysAndValues ...interface{}) {
	if Logger != nil {
		Logger.Warnw(msg, withStage(stage, keysAndValues)...)
	}
}

func withStage(stage fmt.Stringer, keysAndValues []interface{}) []interface{} {
	return append([]interface{}{FieldStage, stage.String()}, keysAndValues...)
}
