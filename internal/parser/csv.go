package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVConverter renders a CSV file as one pipe table under a single
// heading, so tabular inputs flow through segmentation and table
// detection like any markdown table.
type CSVConverter struct{}

func (c *CSVConverter) Convert(r io.Reader, filename string) (string, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return "", fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", baseTitle(filename))
	writePipeRow(&sb, records[0])
	sb.WriteString("|" + strings.Repeat("---|", len(records[0])) + "\n")
	for _, row := range records[1:] {
		writePipeRow(&sb, row)
	}
	return sb.String(), nil
}

func writePipeRow(sb *strings.Builder, cells []string) {
	sb.WriteString("|")
	for _, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(strings.ReplaceAll(strings.TrimSpace(cell), "|", "\\|"))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
