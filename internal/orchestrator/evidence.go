package orchestrator

import (
	"sort"
	"strconv"
	"strings"

	"github.com/opencitizen/welfare-assistant/internal/search"
)

// EvidenceItem is one retrieved chunk that survived the relevance filter,
// carrying the citation reference number assigned to it.
type EvidenceItem struct {
	Reference int
	ChunkID   string
	Text      string
	Filename  string
	Caption   string
	Score     float64
	Tags      string
}

// BuildContext filters raw hits by reranker score and assigns reference
// numbers 1..N in the original hit order, then re-sorts by score descending.
// Reference numbers are NOT reassigned after the sort: they are citation keys
// tied to filter-time order, not positions in the returned list.
func BuildContext(hits []search.Hit, relevanceThreshold float64) []EvidenceItem {
	items := make([]EvidenceItem, 0, len(hits))
	for _, hit := range hits {
		if hit.RerankerScore <= relevanceThreshold {
			continue
		}
		caption := ""
		if len(hit.Captions) > 0 {
			caption = hit.Captions[0].Text
		}
		items = append(items, EvidenceItem{
			Reference: len(items) + 1,
			ChunkID:   hit.ChunkID,
			Text:      hit.ChunkText,
			Filename:  hit.Filename,
			Caption:   caption,
			Score:     hit.RerankerScore,
			Tags:      strings.Join(hit.Tags, ","),
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})
	return items
}

// serializeEvidence renders the evidence list into the form the completion
// prompt expects: one block per item, keyed by reference number.
func serializeEvidence(items []EvidenceItem) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("[")
		b.WriteString(strconv.Itoa(item.Reference))
		b.WriteString("] (")
		b.WriteString(item.Filename)
		b.WriteString(")\n")
		b.WriteString(item.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
