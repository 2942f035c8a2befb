// Package citations implements the identity-resolution and aggregation
// engine: it consumes a fetched citation document for a seed set of papers
// and computes frequently-cited references (R_k), frequently-citing papers
// (Q_k'), and the node/edge graph connecting them.
package citations

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fredbr/cocite/internal/paper"
)

// SeedLabelMaxLen bounds the display label of a seed paper in result output.
const SeedLabelMaxLen = 60

// ErrNoPapers indicates a document without the top-level papers array.
var ErrNoPapers = errors.New("document has no papers array")

// ErrMalformedDocument indicates a document whose top-level shape could not
// be decoded at all.
var ErrMalformedDocument = errors.New("malformed citation document")

// Document is the materialized output of a fetch run: the seed set with
// per-paper metadata, reference lists, and citing-paper lists.
type Document struct {
	QueryInfo *QueryInfo  `json:"query_info,omitempty"`
	Papers    []SeedPaper `json:"papers"`
}

// QueryInfo records how a document was produced.
type QueryInfo struct {
	InputFile         string   `json:"input_file,omitempty"`
	NumDOIs           int      `json:"num_dois"`
	MaxCitingPerPaper int      `json:"max_citing_per_paper"`
	Sources           []string `json:"sources"`
}

// SeedPaper is one seed-set entry: the paper looked up by its input DOI,
// with whatever the providers returned. A nil Metadata means no provider
// found the paper; such entries contribute nothing downstream.
type SeedPaper struct {
	InputDOI    string        `json:"input_doi"`
	Metadata    *paper.Paper  `json:"metadata"`
	References  []paper.Paper `json:"references"`
	CitedBy     []paper.Paper `json:"cited_by"`
	SourcesUsed []string      `json:"sources_used,omitempty"`
	Error       string        `json:"error,omitempty"`
}

// decodeField decodes one field into dst, leaving dst untouched when the
// field is missing or its value cannot be decoded.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// UnmarshalJSON decodes a seed entry field by field. A malformed field is
// treated as absent rather than failing the entry; structural validation
// stops at the document's top level.
func (s *SeedPaper) UnmarshalJSON(data []byte) error {
	*s = SeedPaper{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil
	}

	decodeField(fields, "input_doi", &s.InputDOI)
	decodeField(fields, "metadata", &s.Metadata)
	decodeField(fields, "references", &s.References)
	decodeField(fields, "cited_by", &s.CitedBy)
	decodeField(fields, "sources_used", &s.SourcesUsed)
	decodeField(fields, "error", &s.Error)
	return nil
}

// Label returns the truncated display label used when this seed appears as
// a contributor in result output.
func (s SeedPaper) Label() string {
	if s.Metadata == nil {
		return "Unknown"
	}
	return s.Metadata.Label(SeedLabelMaxLen)
}

// ParseDocument decodes and validates a citation document. A top-level
// structural problem is fatal; malformation inside individual records is
// not, those fields decode as absent. A document with an empty papers array
// is valid; one with no papers array at all is not.
func ParseDocument(r io.Reader) (*Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if doc.Papers == nil {
		return nil, ErrNoPapers
	}
	return &doc, nil
}

// LoadDocument reads and parses a citation document from a file.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening citation document: %w", err)
	}
	defer f.Close()

	doc, err := ParseDocument(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
