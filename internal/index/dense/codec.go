package dense

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// Serialization layout, little-endian:
//
//	magic   uint32  "LXDV"
//	version uint32
//	dim     uint32
//	count   uint32
//	matrix  count*dim float32, row-major, chunk order
const (
	codecMagic   uint32 = 0x4c584456 // "LXDV"
	codecVersion uint32 = 1
)

// Write serializes the index.
func (idx *Index) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)

	header := []uint32{codecMagic, codecVersion, uint32(idx.dim), uint32(len(idx.vectors))}
	for _, h := range header {
		if err := binary.Write(bw, binary.LittleEndian, h); err != nil {
			return fmt.Errorf("dense: write header: %w", err)
		}
	}

	buf := make([]byte, 4)
	for _, row := range idx.vectors {
		for _, x := range row {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(x))
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("dense: write vector: %w", err)
			}
		}
	}

	return bw.Flush()
}

// Read deserializes an index previously written by Write.
func Read(r io.Reader) (*Index, error) {
	br := bufio.NewReader(r)

	var magic, version, dim, count uint32
	for _, dst := range []*uint32{&magic, &version, &dim, &count} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("dense: read header: %w", domain.ErrBundleCorrupt)
		}
	}

	if magic != codecMagic {
		return nil, fmt.Errorf("dense: bad magic %#x: %w", magic, domain.ErrBundleCorrupt)
	}
	if version != codecVersion {
		return nil, fmt.Errorf("dense: format version %d, want %d: %w",
			version, codecVersion, domain.ErrBundleIncompatible)
	}
	if dim == 0 || count == 0 {
		return nil, fmt.Errorf("dense: empty index on disk: %w", domain.ErrBundleCorrupt)
	}

	vectors := make([][]float32, count)
	buf := make([]byte, 4)
	for i := range vectors {
		row := make([]float32, dim)
		for j := range row {
			if _, err := io.ReadFull(br, buf); err != nil {
				return nil, fmt.Errorf("dense: truncated matrix: %w", domain.ErrBundleCorrupt)
			}
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(buf))
		}
		vectors[i] = row
	}

	return &Index{dim: int(dim), vectors: vectors}, nil
}
