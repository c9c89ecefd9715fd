package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"

	arrowerrors "github.com/toyz/arrow/internal/errors"
	"github.com/toyz/arrow/internal/graph"
	"github.com/toyz/arrow/internal/parser"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewDiagnosticReporter creates a reporter writing to stdout and stderr
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return NewDiagnosticReporterWithWriters(verbose, os.Stdout, os.Stderr)
}

// NewDiagnosticReporterWithWriters creates a reporter with explicit writers
func NewDiagnosticReporterWithWriters(verbose bool, out, errOut io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{verbose: verbose, out: out, errOut: errOut}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(format string, args ...interface{}) {
	color.New(color.FgYellow, color.Bold).Fprint(r.errOut, "! ")
	fmt.Fprintf(r.errOut, format+"\n", args...)
}

// ReportError provides comprehensive error reporting with user-friendly output
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(r.errOut, "\nERROR: Code Generation Failed\n")
	fmt.Fprintf(r.errOut, "=============================\n\n")

	var multiple *arrowerrors.MultipleErrors
	if errors.As(err, &multiple) && len(multiple.Errors) > 0 {
		fmt.Fprintf(r.errOut, "%d errors\n\n", len(multiple.Errors))
		for _, e := range multiple.Errors {
			r.reportArrowError(e)
		}
		r.printAdditionalHelp(multiple, multiple.HasCode(arrowerrors.SyntaxErrorCode))
		return
	}

	var arrowErr arrowerrors.ArrowError
	if errors.As(err, &arrowErr) {
		r.reportArrowError(arrowErr)
		r.printAdditionalHelp(arrowErr, arrowErr.ErrorCode() == arrowerrors.SyntaxErrorCode)
		return
	}
	fmt.Fprintf(r.errOut, "Message: %s\n\n", err.Error())
}

func (r *DiagnosticReporter) reportArrowError(err arrowerrors.ArrowError) {
	r.printErrorHeader(err.ErrorCode())

	fmt.Fprintf(r.errOut, "Message: %s\n\n", message(err))

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errOut, "Location: %s\n\n", loc)
	}

	if ctx := err.Context(); len(ctx) > 0 {
		r.printContext(ctx)
	}

	if hints := err.Suggestions(); len(hints) > 0 {
		r.printSuggestions(hints)
	}

	if r.verbose {
		r.printErrorChain(err)
	}
}

// message strips the location prefix the error string already carries
func message(err arrowerrors.ArrowError) string {
	msg := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		msg = strings.TrimPrefix(msg, loc.String()+": ")
	}
	return msg
}

func (r *DiagnosticReporter) printErrorHeader(code arrowerrors.ErrorCode) {
	title := map[arrowerrors.ErrorCode]string{
		arrowerrors.SyntaxErrorCode:        "Go Syntax Error",
		arrowerrors.ValidationErrorCode:    "Validation Error",
		arrowerrors.SchemaErrorCode:        "Annotation Error",
		arrowerrors.GenerationErrorCode:    "Code Generation Error",
		arrowerrors.FileSystemErrorCode:    "File System Error",
		arrowerrors.ConfigurationErrorCode: "Configuration Error",
		arrowerrors.GraphErrorCode:         "Dependency Graph Error",
	}[code]
	if title == "" {
		title = "Unknown Error"
	}

	fmt.Fprintf(r.errOut, "Type: %s\n", title)
	fmt.Fprintf(r.errOut, "%s\n\n", strings.Repeat("-", len(title)+6))
}

// printContext prints context values sorted by key
func (r *DiagnosticReporter) printContext(ctx map[string]interface{}) {
	fmt.Fprintf(r.errOut, "Context:\n")
	keys := lo.Keys(ctx)
	sort.Strings(keys)
	for _, key := range keys {
		value := ctx[key]
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		fmt.Fprintf(r.errOut, "   %s: %v\n", formatContextKey(key), value)
	}
	fmt.Fprintf(r.errOut, "\n")
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	fmt.Fprintf(r.errOut, "Suggestions:\n")
	for i, suggestion := range suggestions {
		lines := strings.Split(suggestion, "\n")
		fmt.Fprintf(r.errOut, "   %d. %s\n", i+1, lines[0])
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) != "" {
				fmt.Fprintf(r.errOut, "      %s\n", line)
			}
		}
	}
	fmt.Fprintf(r.errOut, "\n")
}

// printAdditionalHelp adds background for the errors users hit most
func (r *DiagnosticReporter) printAdditionalHelp(err error, syntax bool) {
	var cycle *graph.CycleError
	if errors.As(err, &cycle) {
		fmt.Fprintf(r.errOut, "Cycle Help:\n")
		fmt.Fprintf(r.errOut, "  - Every provider parameter is a dependency on the provider of its type\n")
		fmt.Fprintf(r.errOut, "  - Use //arrow::named to point a parameter at a named provider\n")
		fmt.Fprintf(r.errOut, "  - Use //arrow::default to pass a literal instead of resolving it\n\n")
	}

	if syntax {
		fmt.Fprintf(r.errOut, "arrow parses every non-test .go file in the scanned directories.\n")
		fmt.Fprintf(r.errOut, "Add broken files to the exclude list in %s to skip them.\n\n", DefaultConfigFile)
	}

	fmt.Fprintf(r.errOut, "For more help:\n")
	fmt.Fprintf(r.errOut, "  - Run with --verbose for more detailed output\n")
	fmt.Fprintf(r.errOut, "  - Run 'arrow graph' to inspect the registration order\n")
}

func (r *DiagnosticReporter) printErrorChain(err error) {
	fmt.Fprintf(r.errOut, "\nError Chain:\n")
	level := 1
	for e := errors.Unwrap(err); e != nil; e = errors.Unwrap(e) {
		fmt.Fprintf(r.errOut, "    %d. %s\n", level, e.Error())
		level++
	}
	fmt.Fprintf(r.errOut, "\n")
}

// ReportGraph prints non-fatal findings of a run: unresolved dependencies,
// duplicate keys and, in verbose mode, skipped members
func (r *DiagnosticReporter) ReportGraph(report *graph.Report, skipped []parser.Skipped) {
	if report != nil {
		for _, m := range report.Unresolved {
			r.ReportWarning("no provider for %s (required by %s)", m.Key, strings.Join(m.RequiredBy, ", "))
		}
		for _, d := range report.Duplicates {
			r.ReportWarning("%s is provided by %s; %s is used", d.Key, strings.Join(d.Providers, ", "), d.Providers[0])
		}
	}

	if !r.verbose {
		return
	}
	for _, s := range skipped {
		fmt.Fprintf(r.errOut, "  skipped %s.%s (%s:%d): %s\n", s.Module, s.Member, s.File, s.Line, s.Reason)
	}
}

// ReportSuccess reports successful generation with summary information
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Fprintf(r.out, "\nCode Generation Completed Successfully!\n")
	fmt.Fprintf(r.out, "=======================================\n\n")

	fmt.Fprintf(r.out, "Scanned %d files in %d packages\n", summary.FilesScanned, summary.PackagesProcessed)
	fmt.Fprintf(r.out, "Found %d modules with %d providers\n", summary.ModulesFound, summary.ProvidersFound)
	if summary.Skipped > 0 {
		fmt.Fprintf(r.out, "Skipped %d members\n", summary.Skipped)
	}
	if summary.Unresolved > 0 {
		fmt.Fprintf(r.out, "Unresolved %d dependencies\n", summary.Unresolved)
	}

	if len(summary.GeneratedFiles) > 0 {
		state := "Generated files"
		if summary.Unchanged {
			state = "Unchanged files"
		}
		fmt.Fprintf(r.out, "\n%s:\n", state)
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.out, "  - %s\n", file)
		}
	}

	if r.verbose {
		fmt.Fprintf(r.out, "\nCompleted in %s\n", summary.Duration.Round(time.Millisecond))
	}
}

// GenerationSummary contains information about the generation process
type GenerationSummary struct {
	FilesScanned      int
	PackagesProcessed int
	ModulesFound      int
	ProvidersFound    int
	Skipped           int
	Unresolved        int
	Duplicates        int
	GeneratedFiles    []string
	Unchanged         bool
	Duration          time.Duration
}
