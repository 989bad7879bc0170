package services

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/rajivsinclair/intentd/internal/core/domain"
)

// Distiller converts the entries after a boundary into a bounded,
// prioritised context set: classify, filter, deduplicate, budget.
type Distiller struct {
	limits domain.Limits
}

// NewDistiller creates a distiller with the given limits.
func NewDistiller(limits domain.Limits) *Distiller {
	return &Distiller{limits: limits}
}

// Distill walks the transcript forward from start and returns the context
// items that survive filtering, deduplication and the two-phase budget.
// The cumulative token estimate of the result never exceeds MaxTokens.
//
// Phase 1 favours recency: ordinary items are admitted until the soft
// target, then only top-tier items until the hard cap. Phase 2 guarantees
// high-value content survives: if the total still exceeds the soft target,
// items are re-admitted greedily in descending relevance order.
func (d *Distiller) Distill(entries []domain.Entry, start int) []domain.ContextItem {
	if start < 0 {
		start = 0
	}
	if start > len(entries) {
		start = len(entries)
	}

	seenFiles := make(map[string]bool)
	seenRequests := make(map[string]bool)
	var items []domain.ContextItem
	total := 0

	for _, e := range entries[start:] {
		ci := Classify(e)
		if ci.Relevance < d.limits.MinRelevance {
			continue
		}

		switch ci.Category {
		case domain.CategoryFileOperation:
			path := ci.Fields[domain.FieldFile]
			if seenFiles[path] {
				continue
			}
			seenFiles[path] = true
		case domain.CategoryUserRequest:
			fp := fingerprint(ci.Fields[domain.FieldText])
			if seenRequests[fp] {
				continue
			}
			seenRequests[fp] = true
		}

		cost := d.estimate(ci.Fields)
		if total+cost > d.limits.TargetTokens {
			if ci.Relevance < d.limits.TopTierRelevance {
				continue
			}
			if total+cost > d.limits.MaxTokens {
				break
			}
		}
		items = append(items, domain.ContextItem{ClassifiedItem: ci, Tokens: cost})
		total += cost
	}

	if total > d.limits.TargetTokens {
		items = d.trimToTarget(items)
	}
	return items
}

// trimToTarget stable-sorts by descending relevance (ties keep transcript
// order) and greedily re-admits items under the soft target.
func (d *Distiller) trimToTarget(items []domain.ContextItem) []domain.ContextItem {
	sorted := make([]domain.ContextItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Relevance > sorted[j].Relevance
	})

	var kept []domain.ContextItem
	total := 0
	for _, it := range sorted {
		if total+it.Tokens > d.limits.TargetTokens {
			continue
		}
		kept = append(kept, it)
		total += it.Tokens
	}
	return kept
}

// estimate converts serialised field size into a token count.
func (d *Distiller) estimate(fields map[string]string) int {
	raw, err := json.Marshal(fields)
	if err != nil {
		return 0
	}
	divisor := d.limits.CharsPerToken
	if divisor <= 0 {
		divisor = domain.DefaultLimits().CharsPerToken
	}
	return int(float64(len(raw)) / divisor)
}

// fingerprint returns a short digest of normalised request text, used to
// deduplicate repeated user requests within one run.
func fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:4])
}
