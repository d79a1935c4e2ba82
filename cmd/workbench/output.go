package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by -o.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
	formatCSV   = "csv"
)

func checkFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatYAML, formatCSV:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want table, json, yaml or csv)", format)
	}
}

// result is what a command prints: Data for the structured formats and
// Header/Rows for table and csv.
type result struct {
	Data   any
	Header []string
	Rows   [][]string
}

func (a *app) print(r result) error {
	return write(a.out, a.format, r)
}

func write(w io.Writer, format string, r result) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.Data)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r.Data); err != nil {
			return err
		}
		return enc.Close()
	case formatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write(r.Header); err != nil {
			return err
		}
		if err := cw.WriteAll(r.Rows); err != nil {
			return err
		}
		return cw.Error()
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		writeRow(tw, r.Header)
		for _, row := range r.Rows {
			writeRow(tw, row)
		}
		return tw.Flush()
	}
}

func writeRow(w io.Writer, cells []string) {
	for i, c := range cells {
		if i > 0 {
			_, _ = io.WriteString(w, "\t")
		}
		_, _ = io.WriteString(w, c)
	}
	_, _ = io.WriteString(w, "\n")
}

func ftoa(f float64) string { return strconv.FormatFloat(f, 'g', 6, 64) }
