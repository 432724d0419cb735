package domain

import "time"

// Document represents an ingested source text unit.
// Documents are immutable once ingested; re-ingesting the same source
// produces a new document under a new bundle, never a mutation.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Label is the human-readable source reference used in citations,
	// e.g. "parking-regulations.txt" or "Règlement intérieur".
	Label string

	// SourcePath is the original location the text was extracted from.
	SourcePath string

	// PageCount is the number of pages in the source, or 0 when the
	// source is not paginated.
	PageCount int

	// IngestedAt is when the document entered a bundle build.
	IngestedAt time.Time
}

// PageBreak marks the character offset at which a new page starts.
// An optional page map lets chunk citations carry page numbers even
// though the engine only ever sees extracted plain text.
type PageBreak struct {
	// Page is the 1-based page number starting at Offset.
	Page int

	// Offset is the rune offset into the document text.
	Offset int
}

// DocumentInput is the raw material handed to a bundle build.
// Text extraction from source file formats happens upstream.
type DocumentInput struct {
	// Label is the citation label for this document.
	Label string

	// SourcePath is where the text came from (informational).
	SourcePath string

	// Text is the extracted plain text.
	Text string

	// Pages is an optional page map, sorted by offset.
	Pages []PageBreak
}

// PageAt returns the page number covering the given rune offset,
// or 0 when no page map is present.
func (d DocumentInput) PageAt(offset int) int {
	page := 0
	for _, pb := range d.Pages {
		if pb.Offset > offset {
			break
		}
		page = pb.Page
	}
	return page
}
