package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/PranavPurwar/proguard-core/internal/errors"
)

// DiagnosticReporter renders command failures for the terminal
type DiagnosticReporter struct {
	out     io.Writer
	verbose bool
}

// NewDiagnosticReporter creates a reporter writing to out
func NewDiagnosticReporter(out io.Writer, verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{out: out, verbose: verbose}
}

// ReportError prints err with the code, location, context and hints of every
// coded error it contains
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}
	coded := findMetadataErrors(err)
	if len(coded) == 0 {
		fmt.Fprintf(r.out, "Error: %s\n", err.Error())
		return
	}
	for i, metaErr := range coded {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.reportMetadataError(metaErr)
	}
}

func (r *DiagnosticReporter) reportMetadataError(err errors.MetadataError) {
	color.New(color.FgRed, color.Bold).Fprint(r.out, err.ErrorCode().String())
	fmt.Fprintf(r.out, ": %s\n", messageOf(err))
	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "  at %s\n", loc)
	}
	if r.verbose {
		r.printContext(err.Context())
	}
	for _, suggestion := range err.Suggestions() {
		fmt.Fprintf(r.out, "  hint: %s\n", suggestion)
	}
}

func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(r.out, "  %s: %v\n", formatContextKey(key), context[key])
	}
}

// formatContextKey turns snake_case keys into readable labels
func formatContextKey(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}

// messageOf strips the location prefix that BaseError.Error adds
func messageOf(err errors.MetadataError) string {
	message := err.Error()
	if loc := err.Location(); !loc.IsEmpty() {
		message = strings.TrimPrefix(message, loc.String()+": ")
	}
	return message
}

// findMetadataErrors flattens MultipleErrors and %w chains down to the coded errors
func findMetadataErrors(err error) []errors.MetadataError {
	var multiple *errors.MultipleErrors
	if stderrors.As(err, &multiple) {
		return multiple.Errors
	}
	var metaErr errors.MetadataError
	if stderrors.As(err, &metaErr) {
		return []errors.MetadataError{metaErr}
	}
	return nil
}
