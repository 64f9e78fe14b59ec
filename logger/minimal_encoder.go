package logger

import (
	"fmt"
	"math"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

const (
	colorReset = "\x1b[0m"
	colorBold  = "\x1b[1m"
)

// palette holds the colors a theme assigns to each part of a log line.
type palette struct {
	fg        string
	time      string
	component []string
	ident     string
	number    string
	stage     string
	warn      string
	warnBg    string
	err       string
	errBg     string
}

// Gruvbox Dark (warm, muted)
var gruvbox = palette{
	fg:        "\x1b[38;5;223m", // #ebdbb2
	time:      "\x1b[38;5;108m", // #8ec07c
	component: []string{"\x1b[38;5;208m", "\x1b[38;5;214m"},
	ident:     "\x1b[38;5;109m", // #83a598
	number:    "\x1b[38;5;175m", // #d3869b
	stage:     "\x1b[38;5;208m", // #fe8019
	warn:      "\x1b[38;5;214m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;88m",
}

// Everforest Dark (forest greens)
var everforest = palette{
	fg:        "\x1b[38;5;223m", // #d3c6aa
	time:      "\x1b[38;5;107m", // #83c092
	component: []string{"\x1b[38;5;108m", "\x1b[38;5;65m", "\x1b[38;5;208m"},
	ident:     "\x1b[38;5;109m", // #7fbbb3
	number:    "\x1b[38;5;108m", // #a7c080
	stage:     "\x1b[38;5;208m", // #e69875
	warn:      "\x1b[38;5;179m",
	warnBg:    "\x1b[48;5;58m",
	err:       "\x1b[38;5;167m",
	errBg:     "\x1b[48;5;52m",
}

// Current active theme (set from config or ENUMTAG_LOG_THEME)
var currentTheme = "everforest"

// SetTheme configures the color scheme for log output.
// Unknown names are ignored.
func SetTheme(theme string) {
	if theme == "everforest" || theme == "gruvbox" {
		currentTheme = theme
	}
}

// Theme returns the active color scheme name.
func Theme() string {
	return currentTheme
}

func colors() palette {
	if currentTheme == "gruvbox" {
		return gruvbox
	}
	return everforest
}

func colorComponent(name string) string {
	// Hash for consistent color per component
	hash := 0
	for _, c := range name {
		hash += int(c)
	}
	p := colors()
	return p.component[hash%len(p.component)]
}

// minimalEncoder implements a calm, compact console encoder with theme support.
// Format: "13:04:35  d.extract  derived ShapeTag  type=Shape variants=3"
type minimalEncoder struct {
	zapcore.Encoder // Embedded for With() field accumulation
	context         []zapcore.Field
}

func newMinimalEncoder() *minimalEncoder {
	return &minimalEncoder{
		Encoder: zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
	}
}

func (enc *minimalEncoder) Clone() zapcore.Encoder {
	context := make([]zapcore.Field, len(enc.context))
	copy(context, enc.context)
	return &minimalEncoder{
		Encoder: enc.Encoder.Clone(),
		context: context,
	}
}

// AddString and friends are how zap hands over fields attached with With().
// They are collected so that EncodeEntry can print them alongside entry fields.
func (enc *minimalEncoder) AddString(key, value string) {
	enc.context = append(enc.context, zap.String(key, value))
}

func (enc *minimalEncoder) AddInt64(key string, value int64) {
	enc.context = append(enc.context, zap.Int64(key, value))
}

func (enc *minimalEncoder) AddInt32(key string, value int32) {
	enc.context = append(enc.context, zap.Int32(key, value))
}

func (enc *minimalEncoder) AddUint64(key string, value uint64) {
	enc.context = append(enc.context, zap.Uint64(key, value))
}

func (enc *minimalEncoder) AddFloat64(key string, value float64) {
	enc.context = append(enc.context, zap.Float64(key, value))
}

func (enc *minimalEncoder) AddDuration(key string, value time.Duration) {
	enc.context = append(enc.context, zap.Duration(key, value))
}

func (enc *minimalEncoder) AddBool(key string, value bool) {
	enc.context = append(enc.context, zap.Bool(key, value))
}

func (enc *minimalEncoder) AddReflected(key string, value interface{}) error {
	enc.context = append(enc.context, zap.Any(key, value))
	return nil
}

var bufferPool = buffer.NewPool()

func (enc *minimalEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	p := colors()
	final := bufferPool.Get()

	final.AppendString(p.time)
	final.AppendString(ent.Time.Format("15:04:05"))
	final.AppendString(colorReset)

	// Level: only shown for non-info entries
	if ent.Level != zapcore.InfoLevel {
		final.AppendString("  ")
		final.AppendString(levelColorString(ent.Level))
	}

	if ent.LoggerName != "" {
		final.AppendString("  ")
		final.AppendString(colorComponent(ent.LoggerName))
		final.AppendString(abbreviateName(ent.LoggerName))
		final.AppendString(colorReset)
	}

	final.AppendString("  ")
	final.AppendString(p.fg)
	final.AppendString(ent.Message)
	final.AppendString(colorReset)

	all := make([]zapcore.Field, 0, len(enc.context)+len(fields))
	all = append(all, enc.context...)
	all = append(all, fields...)
	if rendered := formatFields(all); rendered != "" {
		final.AppendString("  ")
		final.AppendString(rendered)
	}

	final.AppendString("\n")
	return final, nil
}

// levelColorString returns bold + colored + background for WARN/ERROR
func levelColorString(level zapcore.Level) string {
	p := colors()
	switch level {
	case zapcore.DebugLevel:
		return p.fg + "DEBUG" + colorReset
	case zapcore.WarnLevel:
		return colorBold + p.warnBg + p.warn + "WARN" + colorReset
	case zapcore.ErrorLevel:
		return colorBold + p.errBg + p.err + "ERROR" + colorReset
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return colorBold + p.errBg + p.err + level.CapitalString() + colorReset
	default:
		return ""
	}
}

// abbreviateName shortens component names: derive.extract -> d.extract
func abbreviateName(name string) string {
	parts := strings.Split(name, ".")
	if len(parts) > 1 && parts[0] != "" {
		return string(parts[0][0]) + "." + strings.Join(parts[1:], ".")
	}
	return name
}

// fieldValue renders the value of a zap field as plain text.
func fieldValue(field zapcore.Field) (string, bool) {
	switch field.Type {
	case zapcore.SkipType:
		return "", false
	case zapcore.StringType:
		return field.String, true
	case zapcore.BoolType:
		return fmt.Sprintf("%t", field.Integer == 1), true
	case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
		return fmt.Sprintf("%d", field.Integer), true
	case zapcore.Uint64Type, zapcore.Uint32Type, zapcore.Uint16Type, zapcore.Uint8Type, zapcore.UintptrType:
		return fmt.Sprintf("%d", uint64(field.Integer)), true
	case zapcore.Float64Type:
		return fmt.Sprintf("%g", math.Float64frombits(uint64(field.Integer))), true
	case zapcore.Float32Type:
		return fmt.Sprintf("%g", math.Float32frombits(uint32(field.Integer))), true
	case zapcore.DurationType:
		return time.Duration(field.Integer).String(), true
	case zapcore.ErrorType:
		if err, ok := field.Interface.(error); ok && err != nil {
			return err.Error(), true
		}
		return "", false
	}
	if field.Interface != nil {
		return fmt.Sprintf("%v", field.Interface), true
	}
	return "", false
}

// formatFields renders every field as key=value. Identifiers and numbers get
// theme colors; stage values are bracketed.
func formatFields(fields []zapcore.Field) string {
	p := colors()
	var parts []string
	for _, field := range fields {
		val, ok := fieldValue(field)
		if !ok {
			continue
		}
		switch field.Key {
		case FieldType, FieldTag, FieldVariant, FieldPackage:
			val = p.ident + val + colorReset
		case FieldStage:
			val = p.stage + "[" + val + "]" + colorReset
		case FieldDurationMS:
			val = p.number + val + colorReset + "ms"
		case FieldVariants, FieldCount, FieldLine, FieldSize:
			val = p.number + val + colorReset
		}
		parts = append(parts, field.Key+"="+val)
	}
	return strings.Join(parts, " ")
}
