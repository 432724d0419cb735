package sparse

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/lexra-labs/lexra-cli/internal/core/domain"
)

// codecVersion is the on-disk format version for the sparse artifact.
const codecVersion = 1

// diskIndex is the serialized form. Postings are keyed by term; chunk
// positions inside each posting list are ascending.
type diskIndex struct {
	Version   int                  `json:"version"`
	K1        float64              `json:"k1"`
	B         float64              `json:"b"`
	DocLens   []int                `json:"doc_lens"`
	AvgDocLen float64              `json:"avg_doc_len"`
	Postings  map[string][]posting `json:"postings"`
}

// Write serializes the index as JSON.
func (idx *Index) Write(w io.Writer) error {
	disk := diskIndex{
		Version:   codecVersion,
		K1:        idx.k1,
		B:         idx.b,
		DocLens:   idx.docLens,
		AvgDocLen: idx.avgDocLen,
		Postings:  idx.postings,
	}

	if err := json.NewEncoder(w).Encode(disk); err != nil {
		return fmt.Errorf("sparse: encode: %w", err)
	}
	return nil
}

// Read deserializes an index previously written by Write.
func Read(r io.Reader) (*Index, error) {
	var disk diskIndex
	if err := json.NewDecoder(r).Decode(&disk); err != nil {
		return nil, fmt.Errorf("sparse: decode: %w", domain.ErrBundleCorrupt)
	}

	if disk.Version != codecVersion {
		return nil, fmt.Errorf("sparse: format version %d, want %d: %w",
			disk.Version, codecVersion, domain.ErrBundleIncompatible)
	}
	if len(disk.DocLens) == 0 {
		return nil, fmt.Errorf("sparse: empty index on disk: %w", domain.ErrBundleCorrupt)
	}

	idx := &Index{
		k1:        disk.K1,
		b:         disk.B,
		postings:  disk.Postings,
		docLens:   disk.DocLens,
		avgDocLen: disk.AvgDocLen,
	}
	if idx.postings == nil {
		idx.postings = make(map[string][]posting)
	}

	for term, ps := range idx.postings {
		for _, p := range ps {
			if p.Seq < 0 || p.Seq >= len(idx.docLens) {
				return nil, fmt.Errorf("sparse: posting for %q references chunk %d of %d: %w",
					term, p.Seq, len(idx.docLens), domain.ErrBundleCorrupt)
			}
		}
	}

	return idx, nil
}
