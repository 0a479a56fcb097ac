package section

import "strings"

// ExtractTables scans the 1-based inclusive line range [start, end] for
// pipe-table blocks. A line belongs to a table when it contains at
// least two pipe characters; consecutive table lines form one block. A
// block running to the end of the range is closed and emitted, not
// dropped.
func ExtractTables(lines []string, start, end int) []Table {
	lo, hi := start-1, end
	if lo < 0 {
		lo = 0
	}
	if hi > len(lines) {
		hi = len(lines)
	}

	var tables []Table
	var block []string
	blockStart := 0 // 1-based

	flush := func(endLine int) {
		if len(block) == 0 {
			return
		}
		tables = append(tables, Table{
			StartLine: blockStart,
			EndLine:   endLine,
			Content:   strings.Join(block, "\n"),
			RowCount:  len(block),
		})
		block = nil
	}

	for i := lo; i < hi; i++ {
		if IsTableLine(lines[i]) {
			if len(block) == 0 {
				blockStart = i + 1
			}
			block = append(block, lines[i])
		} else {
			flush(i) // line i is 1-based i+1; block ended on the line before
		}
	}
	flush(hi)

	return tables
}

// IsTableLine reports whether a line looks like a markdown table row.
func IsTableLine(line string) bool {
	return strings.Count(line, "|") >= 2
}
