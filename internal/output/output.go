// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output writes PaperRecords as CSV files, terminal tables, JSON,
// or YAML.
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/get-papers/pkg/types"
)

// WriteCSV writes a header row and one row per record. The header is written
// bare. A numeric PubmedID is written bare; every other field is
// double-quoted.
func WriteCSV(w io.Writer, records []types.PaperRecord) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(types.Columns, ",") + "\n"); err != nil {
		return err
	}
	for _, r := range records {
		row := r.Row()
		for i, field := range row {
			if i == 0 {
				row[i] = quoteNonNumeric(field)
			} else {
				row[i] = quote(field)
			}
		}
		if _, err := bw.WriteString(strings.Join(row, ",") + "\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SaveCSV creates (or truncates) path and writes records to it.
func SaveCSV(path string, records []types.PaperRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

func quoteNonNumeric(s string) string {
	if isNumeric(s) {
		return s
	}
	return quote(s)
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// isNumeric reports whether s is a plain decimal number such as a PMID.
func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' {
			return false
		}
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// FormatTable writes records as a human-readable table to w.
func FormatTable(w io.Writer, records []types.PaperRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-30s  %s\n",
		"PMID", "Title", "Date", "Non-academic Authors", "Email")
	fmt.Fprintln(w, strings.Repeat("-", 120))

	for _, r := range records {
		fmt.Fprintf(w, "%-10s  %-50s  %-10s  %-30s  %s\n",
			r.PubmedID,
			truncate(r.Title, 50),
			r.PublicationDate,
			truncate(r.AuthorsField(), 30),
			r.EmailField())
	}

	fmt.Fprintf(w, "\n%d results\n", len(records))
}

// FormatJSON writes records as indented JSON to w.
func FormatJSON(w io.Writer, records []types.PaperRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// FormatYAML writes records as a YAML list to w.
func FormatYAML(w io.Writer, records []types.PaperRecord) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(records)
}

// Print writes records to w in the given terminal format.
func Print(w io.Writer, format types.OutputFormat, records []types.PaperRecord) error {
	switch format {
	case types.FormatJSON:
		return FormatJSON(w, records)
	case types.FormatYAML:
		return FormatYAML(w, records)
	case types.FormatTable, "":
		FormatTable(w, records)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, or yaml)", format)
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
