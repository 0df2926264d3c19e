package domain

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindArticle Kind = "article"
	KindTable   Kind = "table"
)

// DocumentRecord is the unit of retrieval: a single statute or
// administrative-rule article, or one tabular appendix.
type DocumentRecord struct {
	Kind       Kind      `json:"kind"`
	SourceName string    `json:"source_name"`
	Number     string    `json:"number"`
	Title      string    `json:"title,omitempty"`
	FullText   string    `json:"full_text"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Position   int       `json:"position"`
}

// Corpus is the ordered record sequence for one process run. It is
// built once at startup and read-only afterwards; Position is the only
// cross-reference key between the vector index and the full text.
type Corpus struct {
	records []DocumentRecord
}

// NewCorpus takes ownership of records and assigns positions in order.
func NewCorpus(records []DocumentRecord) *Corpus {
	owned := make([]DocumentRecord, len(records))
	copy(owned, records)
	for i := range owned {
		owned[i].Position = i
	}
	return &Corpus{records: owned}
}

func (c *Corpus) Len() int {
	return len(c.records)
}

// Records exposes the backing slice for iteration. Callers must treat
// it as read-only.
func (c *Corpus) Records() []DocumentRecord {
	return c.records
}

func (c *Corpus) Record(position int) (DocumentRecord, error) {
	if position < 0 || position >= len(c.records) {
		return DocumentRecord{}, WrapError(ErrInvalidInput, "corpus lookup",
			fmt.Errorf("position %d out of range [0,%d)", position, len(c.records)))
	}
	return c.records[position], nil
}

// FullText recovers the complete, untruncated text stored at position.
func (c *Corpus) FullText(position int) (string, error) {
	record, err := c.Record(position)
	if err != nil {
		return "", err
	}
	return record.FullText, nil
}

func (c *Corpus) CountBySource() map[string]int {
	out := make(map[string]int)
	for i := range c.records {
		out[c.records[i].SourceName]++
	}
	return out
}

func (c *Corpus) CountByKind(kind Kind) int {
	count := 0
	for i := range c.records {
		if c.records[i].Kind == kind {
			count++
		}
	}
	return count
}

// Validate rejects records the corpus build must not accept.
func (r DocumentRecord) Validate() error {
	if r.Kind != KindArticle && r.Kind != KindTable {
		return WrapError(ErrInvalidInput, "validate record", fmt.Errorf("unknown kind %q", r.Kind))
	}
	if r.SourceName == "" {
		return WrapError(ErrInvalidInput, "validate record", errors.New("empty source name"))
	}
	if r.FullText == "" {
		return WrapError(ErrInvalidInput, "validate record", errors.New("empty full text"))
	}
	return nil
}
