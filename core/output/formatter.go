// Package output renders batch reports for people and for machines.
package output

import (
	"fmt"
	"io"
	"strings"

	"cpow/core/batch"
	"cpow/internal/errors"
)

// Format represents output format type
type Format string

const (
	// FormatText is a human-readable table
	FormatText Format = "text"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"
)

// DefaultDecimals is the number of decimal places shown for each part
const DefaultDecimals int32 = 10

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render writes the report to w
	Render(w io.Writer, report *batch.Report) error
}

// Options tune rendering
type Options struct {
	// Decimals is the number of places each part is rounded to
	Decimals int32

	// NoColor disables escape codes even on a terminal
	NoColor bool
}

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "cli", "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", errors.Newf(errors.TypeConfig, "unknown output format %q", s)
}

// New returns the formatter for format
func New(format Format, opts Options) (Formatter, error) {
	if opts.Decimals < 0 {
		return nil, errors.Config(fmt.Sprintf("decimals must not be negative, got %d", opts.Decimals), nil)
	}
	switch format {
	case FormatText:
		return &textFormatter{opts: opts}, nil
	case FormatJSON:
		return &jsonFormatter{opts: opts}, nil
	}
	return nil, errors.Newf(errors.TypeConfig, "unknown output format %q", format)
}
