package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

const (
	// Exact alias matches get the full score; fuzzy matches are scaled so
	// they can never reach the exact-match ceiling.
	exactScore    = 1.0
	fuzzyCeiling  = 0.95
	containScore  = 0.75
	overlapWeight = 0.70

	// Minimum fuzzy score worth proposing at all
	fuzzyFloor = 0.35
)

// Result is the detector's proposal: a mapping, per-field confidence, and
// human-readable suggestions. The mapping is advisory and caller-editable.
type Result struct {
	Mapping     types.FieldMapping  `json:"mapping"`
	Confidence  types.ConfidenceMap `json:"confidence"`
	Suggestions []string            `json:"suggestions,omitempty"`
}

// candidate pairs a canonical field with a CSV column it might map to
type candidate struct {
	fieldIndex int // index into fieldConfigs, used as tie-break
	field      types.Field
	header     string
	score      float64
}

// DetectColumns proposes a FieldMapping for the given CSV headers.
// Detection runs in three passes: case-insensitive exact alias match, fuzzy
// substring/token-overlap scoring, and content sniffing over sample rows for
// fields that stay unmapped. When two fields compete for one column the
// higher score wins and the loser falls through to its next-best candidate.
// The result is deterministic for identical input.
func DetectColumns(headers []string, sampleRows []types.RawRow) *Result {
	res := &Result{
		Mapping:    types.FieldMapping{},
		Confidence: types.ConfidenceMap{},
	}

	// Score every field/header pair (passes 1 and 2 combined; exact matches
	// simply score above the fuzzy ceiling).
	var candidates []candidate
	for fi, fc := range fieldConfigs {
		for _, header := range headers {
			if header == "" {
				continue
			}
			score := scoreHeader(header, fc.Aliases)
			if score >= fuzzyFloor {
				candidates = append(candidates, candidate{fieldIndex: fi, field: fc.Field, header: header, score: score})
			}
		}
	}

	assignGreedy(candidates, res)

	// Pass 3: content sniffing for still-unmapped pattern-shaped fields
	sniffUnmapped(headers, sampleRows, res)

	buildSuggestions(headers, res)
	return res
}

// assignGreedy resolves column contention: best-scoring candidate wins its
// column, losers fall through to their next-best candidate or stay unmapped.
func assignGreedy(candidates []candidate, res *Result) {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].fieldIndex != candidates[j].fieldIndex {
			return candidates[i].fieldIndex < candidates[j].fieldIndex
		}
		return candidates[i].header < candidates[j].header
	})

	claimedHeaders := map[string]bool{}
	for _, c := range candidates {
		if _, mapped := res.Mapping[c.field]; mapped {
			continue
		}
		if claimedHeaders[c.header] {
			continue
		}
		res.Mapping[c.field] = c.header
		res.Confidence[c.field] = c.score
		claimedHeaders[c.header] = true
	}
}

// scoreHeader scores a CSV header against a field's alias list
func scoreHeader(header string, aliases []string) float64 {
	normalized := normalizeHeader(header)
	if normalized == "" {
		return 0
	}

	best := 0.0
	for _, alias := range aliases {
		aliasNorm := normalizeHeader(alias)
		if normalized == aliasNorm {
			return exactScore
		}

		score := 0.0
		if strings.Contains(normalized, aliasNorm) || strings.Contains(aliasNorm, normalized) {
			shorter, longer := len(aliasNorm), len(normalized)
			if shorter > longer {
				shorter, longer = longer, shorter
			}
			score = containScore * float64(shorter) / float64(longer)
		}

		if overlap := tokenOverlap(normalized, aliasNorm); overlap*overlapWeight > score {
			score = overlap * overlapWeight
		}

		if score > best {
			best = score
		}
	}

	if best > fuzzyCeiling {
		best = fuzzyCeiling
	}
	return best
}

// normalizeHeader lowercases a header and collapses punctuation to spaces
func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// tokenOverlap computes Jaccard overlap between the word sets of two strings
func tokenOverlap(a, b string) float64 {
	aTokens := strings.Fields(a)
	bTokens := strings.Fields(b)
	if len(aTokens) == 0 || len(bTokens) == 0 {
		return 0
	}

	seen := map[string]bool{}
	for _, t := range aTokens {
		seen[t] = true
	}
	union := len(seen)
	shared := 0
	for _, t := range bTokens {
		if seen[t] {
			shared++
			seen[t] = false
		} else {
			union++
		}
	}
	return float64(shared) / float64(union)
}

func buildSuggestions(headers []string, res *Result) {
	if _, ok := res.Mapping[types.FieldCompany]; !ok {
		res.Suggestions = append(res.Suggestions,
			"No column could be matched to the required field 'company'; map it manually before importing")
	}

	claimed := map[string]bool{}
	for _, header := range res.Mapping {
		claimed[header] = true
	}
	var unclaimed []string
	for _, h := range headers {
		if h != "" && !claimed[h] {
			unclaimed = append(unclaimed, h)
		}
	}
	if len(unclaimed) > 0 {
		res.Suggestions = append(res.Suggestions,
			fmt.Sprintf("Columns not mapped to any field: %s", strings.Join(unclaimed, ", ")))
	}
}
