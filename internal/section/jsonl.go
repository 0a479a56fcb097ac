package section

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteJSONL writes sections as newline-delimited JSON, one object per
// section, in document order. This is the only semi-durable format the
// core owns; both the index builder and the window assembler read it
// back.
func WriteJSONL(w io.Writer, sections []Section) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	for i := range sections {
		if err := enc.Encode(&sections[i]); err != nil {
			return fmt.Errorf("encode section %d: %w", sections[i].Number, err)
		}
	}
	return bw.Flush()
}

// ReadJSONL reads a newline-delimited section file written by
// WriteJSONL. Blank lines are tolerated; anything else malformed is an
// error, since a half-readable section list would desync line spans.
func ReadJSONL(r io.Reader) ([]Section, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var sections []Section
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		var s Section
		if err := json.Unmarshal([]byte(line), &s); err != nil {
			return nil, fmt.Errorf("section record on line %d: %w", lineNo, err)
		}
		sections = append(sections, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read section records: %w", err)
	}
	return sections, nil
}
