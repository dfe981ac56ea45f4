package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ErrorLevel represents the severity of a message
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures the error message formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Consequence  string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders a message with suggestions and help commands:
//
//	❌ TABLE NOT FOUND: Cannot find table 'ordrs'.
//
//	   Did you mean: orders?
//
//	   → See all tables: gridmeta derive
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var header *color.Color
	var symbol string
	switch opts.Level {
	case ErrorLevelWarning:
		header, symbol = color.New(color.FgYellow, color.Bold), "⚠️"
	case ErrorLevelInfo:
		header, symbol = color.New(color.FgCyan, color.Bold), "ℹ️"
	default:
		header, symbol = color.New(color.FgRed, color.Bold), "❌"
	}
	yellow := color.New(color.FgYellow)
	cyan := color.New(color.FgCyan)
	body := color.New(color.FgHiBlack)
	if opts.NoColor {
		for _, c := range []*color.Color{header, yellow, cyan, body} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		header.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		header.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Consequence != "" {
		b.WriteString("\n")
		body.Fprintf(&b, "   %s\n", opts.Consequence)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		yellow.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			cyan.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted error message to the writer
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// TableNotFoundError reports an unknown table identity
func TableNotFoundError(id string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:     "TABLE NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find table '%s'.", id),
		Suggestions: suggestions,
		HelpCommands: []string{
			"See all tables: gridmeta derive",
			"Get help: gridmeta derive --help",
		},
		NoColor: noColor,
	})
}

// EntityNotFoundError reports an unknown entity type
func EntityNotFoundError(name string, suggestions []string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:     "ENTITY NOT FOUND",
		Problem:     fmt.Sprintf("Cannot find entity type '%s'.", name),
		Suggestions: suggestions,
		HelpCommands: []string{
			"See all entity types: gridmeta introspect entities",
		},
		NoColor: noColor,
	})
}

// DerivationError reports a failed derivation pass
func DerivationError(id string, err error, noColor bool) string {
	return FormatError(ErrorOptions{
		Context:     "DERIVATION FAILED",
		Problem:     fmt.Sprintf("Table '%s' could not be derived.", id),
		Consequence: err.Error(),
		HelpCommands: []string{
			"Check column paths: gridmeta introspect paths " + id,
		},
		NoColor: noColor,
	})
}

// ConfigError reports an invalid or unreadable configuration
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"Create a configuration: gridmeta init",
			"Get help: gridmeta --help",
		},
		NoColor: noColor,
	})
}

// Warning creates a warning message
func Warning(message string, noColor bool) string {
	return FormatError(ErrorOptions{Level: ErrorLevelWarning, Problem: message, NoColor: noColor})
}
