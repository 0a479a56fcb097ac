package index

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// Vector file layout: "FRIX" magic, uint32 row count, uint32 dimension,
// then rows*dim little-endian float32 values. Metadata lives in a
// sibling JSON file in the same row order; Load cross-checks the two
// and fails loudly on any count mismatch.
var vecMagic = [4]byte{'F', 'R', 'I', 'X'}

// Save writes the index to its two sibling files.
func Save(ix *Index, vecPath, metaPath string) error {
	f, err := os.Create(vecPath)
	if err != nil {
		return fmt.Errorf("create vector file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if _, err := w.Write(vecMagic[:]); err != nil {
		return fmt.Errorf("write vector header: %w", err)
	}
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], uint32(len(ix.rows)))
	binary.LittleEndian.PutUint32(header[4:8], uint32(ix.dim))
	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("write vector header: %w", err)
	}

	var buf [4]byte
	for i := range ix.rows {
		for _, v := range ix.rows[i].Vector {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(v))
			if _, err := w.Write(buf[:]); err != nil {
				return fmt.Errorf("write vector row %d: %w", i, err)
			}
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush vector file: %w", err)
	}

	metas := make([]Meta, len(ix.rows))
	for i := range ix.rows {
		metas[i] = ix.rows[i].Meta
	}
	data, err := json.MarshalIndent(metas, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("write metadata file: %w", err)
	}
	return nil
}

// Load reads a persisted index back. The vector count and metadata
// count must agree; a mismatch means the two files no longer describe
// the same build and any search result would be garbage.
func Load(vecPath, metaPath string) (*Index, error) {
	data, err := os.ReadFile(vecPath)
	if err != nil {
		return nil, fmt.Errorf("read vector file: %w", err)
	}
	if len(data) < 12 || [4]byte(data[0:4]) != vecMagic {
		return nil, fmt.Errorf("vector file %s: bad header", vecPath)
	}
	count := int(binary.LittleEndian.Uint32(data[4:8]))
	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	want := 12 + count*dim*4
	if len(data) != want {
		return nil, fmt.Errorf("vector file %s: %d bytes, want %d for %d x %d", vecPath, len(data), want, count, dim)
	}

	metaData, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata file: %w", err)
	}
	var metas []Meta
	if err := json.Unmarshal(metaData, &metas); err != nil {
		return nil, fmt.Errorf("decode metadata file: %w", err)
	}
	if len(metas) != count {
		return nil, fmt.Errorf("index misaligned: %d vectors but %d metadata rows", count, len(metas))
	}

	rows := make([]Row, count)
	off := 12
	for i := 0; i < count; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		rows[i] = Row{Vector: vec, Meta: metas[i]}
	}
	return &Index{rows: rows, dim: dim}, nil
}
