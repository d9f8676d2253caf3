package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/mirror/internal/errors"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides leveled, prefixed output for the CLI and server
type DiagnosticSystem struct {
	mu        sync.Mutex
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
	indent    int
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// LevelFromFlags maps the quiet and verbose switches to a level
func LevelFromFlags(quiet, verbose bool) DiagnosticLevel {
	switch {
	case quiet:
		return DiagnosticError
	case verbose:
		return DiagnosticVerbose
	default:
		return DiagnosticInfo
	}
}

// SetOutput redirects normal and error output. Colors and timestamps are
// disabled so output is stable.
func (d *DiagnosticSystem) SetOutput(out, errOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.output = out
	d.errorOut = errOut
	d.useColors = false
	d.showTime = false
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", color.FgRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", color.FgYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", color.FgBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", color.FgGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", color.FgHiBlack, format, args...)
	}
}

// Debug outputs debug messages (highest verbosity)
func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	if d.level >= DiagnosticDebug {
		d.writeMessage(d.output, "DEBUG", color.FgMagenta, format, args...)
	}
}

// Header outputs the tool header
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, color.FgCyan, fmt.Sprintf("Mirror: %s\n", message))
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.print(d.output, -1, d.getIndent()+"- "+fmt.Sprintf(format, args...)+"\n")
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.mu.Lock()
	d.indent++
	d.mu.Unlock()
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	d.mu.Lock()
	if d.indent > 0 {
		d.indent--
	}
	d.mu.Unlock()
}

// Summary outputs a title followed by sorted key/value statistics
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	if d.level < DiagnosticInfo {
		return
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(&b, "   %s: %v\n", k, stats[k])
	}
	d.print(d.output, -1, b.String())
}

// Report writes a structured error: every member of a batch on its own
// line, followed by its suggestions in verbose mode
func (d *DiagnosticSystem) Report(err error) {
	if err == nil || d.level < DiagnosticError {
		return
	}

	if be, ok := errors.AsBuildError(err); ok {
		d.Error("build failed with %d diagnostic(s)", be.Count())
		d.Indent()
		for _, diag := range be.All() {
			d.reportOne(diag)
		}
		d.Unindent()
		return
	}

	if multi, ok := err.(*errors.MultipleErrors); ok && multi.Count() > 1 {
		d.Error("%d problem(s) found", multi.Count())
		d.Indent()
		for _, e := range multi.Errors {
			d.reportOne(e)
		}
		d.Unindent()
		return
	}

	if me, ok := err.(errors.MirrorError); ok {
		d.reportOne(me)
		return
	}
	d.Error("%v", err)
}

func (d *DiagnosticSystem) reportOne(err errors.MirrorError) {
	d.Error("%s: %s", err.ErrorCode(), err.Error())
	if d.level < DiagnosticVerbose {
		return
	}
	d.Indent()
	for _, s := range err.Suggestions() {
		d.Verbose("hint: %s", s)
	}
	d.Unindent()
}

func (d *DiagnosticSystem) writeMessage(writer io.Writer, level string, attr color.Attribute, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	var output strings.Builder
	output.WriteString(d.getIndent())

	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	prefix := "[" + level + "]"
	if d.useColors {
		prefix = color.New(attr).Sprint(prefix)
	}
	output.WriteString(prefix)
	output.WriteString(" ")
	output.WriteString(message)
	output.WriteString("\n")

	d.print(writer, -1, output.String())
}

// print writes s, coloured with attr unless attr is negative
func (d *DiagnosticSystem) print(writer io.Writer, attr color.Attribute, s string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if attr >= 0 && d.useColors {
		s = color.New(attr).Sprint(s)
	}
	fmt.Fprint(writer, s)
}

func (d *DiagnosticSystem) getIndent() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return strings.Repeat("  ", d.indent)
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
