package utils

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
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

// DiagnosticSystem provides structured, user-facing output
type DiagnosticSystem struct {
	level    DiagnosticLevel
	output   io.Writer
	errorOut io.Writer
	indent   int

	errorColor   *color.Color
	warnColor    *color.Color
	successColor *color.Color
	headerColor  *color.Color
	dimColor     *color.Color
}

// NewDiagnosticSystem creates a diagnostic system writing to stdout/stderr
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return NewDiagnosticSystemWithWriters(level, os.Stdout, os.Stderr)
}

// NewDiagnosticSystemWithWriters creates a diagnostic system with explicit writers
func NewDiagnosticSystemWithWriters(level DiagnosticLevel, out, errOut io.Writer) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:        level,
		output:       out,
		errorOut:     errOut,
		errorColor:   color.New(color.FgRed, color.Bold),
		warnColor:    color.New(color.FgYellow, color.Bold),
		successColor: color.New(color.FgGreen),
		headerColor:  color.New(color.FgCyan),
		dimColor:     color.New(color.FgHiBlack),
	}
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writePrefixed(d.errorOut, d.errorColor, "error: ", format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writePrefixed(d.errorOut, d.warnColor, "! ", format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeLine(d.output, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writePrefixed(d.output, d.dimColor, "  ", format, args...)
	}
}

// Header outputs the tool header
func (d *DiagnosticSystem) Header(message string) {
	if d.level >= DiagnosticInfo {
		d.headerColor.Fprintf(d.output, "arrow: %s\n", message)
	}
}

// PhaseItem outputs a phase item with checkmark
func (d *DiagnosticSystem) PhaseItem(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writePrefixed(d.output, d.successColor, "✓ ", format, args...)
	}
}

// List outputs a bulleted list item
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeLine(d.output, "- "+format, args...)
	}
}

// Indent increases the indentation level
func (d *DiagnosticSystem) Indent() {
	d.indent++
}

// Unindent decreases the indentation level
func (d *DiagnosticSystem) Unindent() {
	if d.indent > 0 {
		d.indent--
	}
}

// Complete outputs the completion message
func (d *DiagnosticSystem) Complete(message string) {
	if d.level >= DiagnosticInfo {
		d.successColor.Fprintf(d.output, "arrow: %s\n", message)
	}
}

func (d *DiagnosticSystem) writePrefixed(w io.Writer, c *color.Color, prefix, format string, args ...interface{}) {
	fmt.Fprint(w, d.getIndent())
	c.Fprint(w, prefix)
	fmt.Fprintf(w, format+"\n", args...)
}

func (d *DiagnosticSystem) writeLine(w io.Writer, format string, args ...interface{}) {
	fmt.Fprint(w, d.getIndent())
	fmt.Fprintf(w, format+"\n", args...)
}

func (d *DiagnosticSystem) getIndent() string {
	return strings.Repeat("  ", d.indent)
}
