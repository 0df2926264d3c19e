package domain

// OriginSemantic marks bundle entries contributed by the vector index;
// rule-matched entries carry the rule label instead.
const OriginSemantic = "semantic"

// Provenance is the source attribution of a retrieved passage, used for
// citation display and for deduplication by position.
type Provenance struct {
	Kind       Kind   `json:"kind"`
	SourceName string `json:"source_name"`
	Number     string `json:"number"`
	Title      string `json:"title,omitempty"`
	Position   int    `json:"position"`
	Origin     string `json:"origin"`
	Truncated  bool   `json:"truncated,omitempty"`
}

type ContextEntry struct {
	Text       string     `json:"text"`
	Provenance Provenance `json:"provenance"`
}

// ContextBundle is the hybrid retriever's output: the ordered,
// position-deduplicated passages handed to the answer composer.
type ContextBundle struct {
	Entries []ContextEntry `json:"entries"`
}

func (b *ContextBundle) Contains(position int) bool {
	for i := range b.Entries {
		if b.Entries[i].Provenance.Position == position {
			return true
		}
	}
	return false
}

func (b *ContextBundle) Append(entry ContextEntry) {
	b.Entries = append(b.Entries, entry)
}

func (b *ContextBundle) Provenances() []Provenance {
	out := make([]Provenance, 0, len(b.Entries))
	for i := range b.Entries {
		out = append(out, b.Entries[i].Provenance)
	}
	return out
}

// Neighbor is one vector-index hit, highest similarity first.
type Neighbor struct {
	Position int     `json:"position"`
	Score    float64 `json:"score"`
}

type Answer struct {
	Text    string       `json:"text"`
	Sources []Provenance `json:"sources"`
}
