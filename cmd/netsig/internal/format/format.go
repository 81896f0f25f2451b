// Package format provides consistent CLI output formatting.
package format

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// OutputMode defines the output format for CLI commands.
type OutputMode string

const (
	// ModeJSON outputs data as JSON.
	ModeJSON OutputMode = "json"
	// ModeTable outputs data as ASCII table.
	ModeTable OutputMode = "table"
)

// Formatter provides consistent output formatting across CLI commands.
type Formatter interface {
	// PrintJSON outputs data as JSON to stdout.
	PrintJSON(data any) error

	// PrintTable outputs data as ASCII table to stdout (or structured data in
	// JSON mode).
	PrintTable(headers []string, rows [][]string) error

	// PrintSummary outputs a summary message to stdout (unless quiet mode).
	PrintSummary(message string) error

	// PrintError outputs an error to stderr (or JSON to stdout in JSON mode).
	PrintError(err error) error
}

type formatter struct {
	stdout io.Writer
	stderr io.Writer
	mode   OutputMode
	quiet  bool
	color  bool
}

// New creates a new Formatter.
func New(stdout, stderr io.Writer, mode OutputMode, quiet, colorize bool) Formatter {
	return &formatter{
		stdout: stdout,
		stderr: stderr,
		mode:   mode,
		quiet:  quiet,
		color:  colorize,
	}
}

func (f *formatter) PrintJSON(data any) error {
	enc := json.NewEncoder(f.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

func (f *formatter) PrintTable(headers []string, rows [][]string) error {
	if f.mode == ModeJSON {
		var items []map[string]string
		for _, row := range rows {
			item := make(map[string]string)
			for i, header := range headers {
				if i < len(row) {
					item[header] = row[i]
				}
			}
			items = append(items, item)
		}
		return f.PrintJSON(items)
	}

	w := tabwriter.NewWriter(f.stdout, 0, 0, 2, ' ', 0)

	if f.color {
		headerLine := make([]string, len(headers))
		for i, h := range headers {
			headerLine[i] = color.New(color.Bold).Sprint(strings.ToUpper(h))
		}
		if _, err := fmt.Fprintln(w, strings.Join(headerLine, "\t")); err != nil {
			return err
		}
	} else {
		upper := make([]string, len(headers))
		for i, h := range headers {
			upper[i] = strings.ToUpper(h)
		}
		if _, err := fmt.Fprintln(w, strings.Join(upper, "\t")); err != nil {
			return err
		}
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, strings.Join(row, "\t")); err != nil {
			return err
		}
	}

	return w.Flush()
}

func (f *formatter) PrintSummary(message string) error {
	if f.quiet || f.mode == ModeJSON {
		return nil
	}
	_, err := fmt.Fprintln(f.stdout, message)
	return err
}

func (f *formatter) PrintError(err error) error {
	if err == nil {
		return nil
	}
	if f.mode == ModeJSON {
		return f.PrintJSON(map[string]string{"error": err.Error()})
	}
	if f.color {
		_, werr := fmt.Fprintln(f.stderr, color.New(color.FgRed).Sprintf("Error: %v", err))
		return werr
	}
	_, werr := fmt.Fprintf(f.stderr, "Error: %v\n", err)
	return werr
}
