package dedup

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// pairCheckInterval is how many pairwise comparisons run between context
// checks. Scoring is CPU-bound, so this is the stage's cancellation point.
const pairCheckInterval = 1024

// Detector scores and groups duplicate applications
type Detector struct {
	cfg Config

	// OnProgress, when set, is called after each block of pairwise
	// comparisons with the number compared so far and the total.
	OnProgress func(compared, total int)
}

// NewDetector creates a detector with the given configuration
func NewDetector(cfg Config) *Detector {
	return &Detector{cfg: cfg}
}

// NewDefaultDetector creates a detector with the default configuration
func NewDefaultDetector() *Detector {
	return &Detector{cfg: DefaultConfig()}
}

// Config exposes the detector's configuration
func (d *Detector) Config() Config {
	return d.cfg
}

// edge is one above-threshold pairwise match in the similarity graph
type edge struct {
	i, j    int
	score   float64
	reasons []string
}

// Detect finds duplicate groups across the incoming batch and, optionally,
// the caller's existing applications. Grouping is the transitive closure of
// the pairwise match relation: connected components of the similarity graph,
// so a chain of near-duplicates collapses into one group. Groups are
// disjoint and only groups with two or more members are returned. The pass
// is quadratic in the member count, so the context is checked between
// comparison blocks and cancellation returns ctx.Err.
func (d *Detector) Detect(ctx context.Context, batch []types.DuplicateMember, existing []types.Application) ([]types.DuplicateGroup, error) {
	members := make([]types.DuplicateMember, 0, len(batch)+len(existing))
	members = append(members, batch...)
	for _, app := range existing {
		members = append(members, types.DuplicateMember{Application: app, RowIndex: -1, Existing: true})
	}
	if len(members) < 2 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parent := make([]int, len(members))
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	var edges []edge
	compared := 0
	totalPairs := len(members) * (len(members) - 1) / 2
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			compared++
			if compared%pairCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				if d.OnProgress != nil {
					d.OnProgress(compared, totalPairs)
				}
			}
			// Two existing records are the caller's own data; only pairs
			// touching the incoming batch are interesting.
			if members[i].Existing && members[j].Existing {
				continue
			}
			score, reasons := Similarity(members[i].Application, members[j].Application, d.cfg)
			if score >= d.cfg.GroupThreshold {
				edges = append(edges, edge{i: i, j: j, score: score, reasons: reasons})
				union(i, j)
			}
		}
	}
	if len(edges) == 0 {
		return nil, nil
	}

	componentEdges := map[int][]edge{}
	for _, e := range edges {
		root := find(e.i)
		componentEdges[root] = append(componentEdges[root], e)
	}

	componentMembers := map[int][]int{}
	for i := range members {
		root := find(i)
		if _, hasEdges := componentEdges[root]; hasEdges {
			componentMembers[root] = append(componentMembers[root], i)
		}
	}

	roots := make([]int, 0, len(componentMembers))
	for root := range componentMembers {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	groups := make([]types.DuplicateGroup, 0, len(roots))
	for _, root := range roots {
		indexes := componentMembers[root]
		sort.Ints(indexes)

		groupMembers := make([]types.DuplicateMember, 0, len(indexes))
		for _, idx := range indexes {
			groupMembers = append(groupMembers, members[idx])
		}

		confidence, reasons := summarizeEdges(componentEdges[root])
		group := types.DuplicateGroup{
			ID:         uuid.NewString(),
			Members:    groupMembers,
			Confidence: confidence,
			Reasons:    reasons,
			Resolution: d.recommendResolution(confidence),
		}
		preview := MergePreview(groupMembers)
		group.MergePreview = &preview
		groups = append(groups, group)
	}

	return groups, nil
}

// summarizeEdges derives a group's confidence (mean of its matching pair
// scores) and its deduplicated match reasons
func summarizeEdges(edges []edge) (float64, []string) {
	total := 0.0
	seen := map[string]bool{}
	var reasons []string
	for _, e := range edges {
		total += e.score
		for _, r := range e.reasons {
			if !seen[r] {
				seen[r] = true
				reasons = append(reasons, r)
			}
		}
	}
	return total / float64(len(edges)), reasons
}

// recommendResolution picks the default action for a group by confidence:
// confident duplicates merge, candidates keep the newest record, anything
// weaker is surfaced for the user to decide.
func (d *Detector) recommendResolution(confidence float64) types.ResolutionAction {
	switch {
	case confidence >= d.cfg.HighThreshold:
		return types.ResolutionMerge
	case confidence >= d.cfg.MediumThreshold:
		return types.ResolutionKeepNewest
	default:
		return types.ResolutionKeepAll
	}
}

// Match is one existing application that resembles a candidate record
type Match struct {
	Application types.Application `json:"application"`
	Confidence  float64           `json:"confidence"`
	Band        string            `json:"band"`
	Reasons     []string          `json:"reasons,omitempty"`
}

// CheckResult is the outcome of a real-time single-record duplicate check
type CheckResult struct {
	IsDuplicate bool    `json:"is_duplicate"`
	Confidence  float64 `json:"confidence"`
	Matches     []Match `json:"matches,omitempty"`
}

// CheckRecord scores one candidate record against existing applications,
// for real-time duplicate warnings during manual entry. It shares the batch
// detector's scoring function and thresholds; IsDuplicate is set only when
// the best match reaches the high band.
func (d *Detector) CheckRecord(candidate types.Application, existing []types.Application) CheckResult {
	var result CheckResult
	for _, app := range existing {
		score, reasons := Similarity(candidate, app, d.cfg)
		if score < d.cfg.LowThreshold {
			continue
		}
		result.Matches = append(result.Matches, Match{
			Application: app,
			Confidence:  score,
			Band:        d.cfg.ConfidenceBand(score),
			Reasons:     reasons,
		})
		if score > result.Confidence {
			result.Confidence = score
		}
	}

	sort.SliceStable(result.Matches, func(i, j int) bool {
		return result.Matches[i].Confidence > result.Matches[j].Confidence
	})
	result.IsDuplicate = result.Confidence >= d.cfg.HighThreshold
	return result
}

// BatchMember wraps a converted row for batch duplicate detection
func BatchMember(app types.Application, rowIndex int) types.DuplicateMember {
	return types.DuplicateMember{Application: app, RowIndex: rowIndex}
}

// DescribeGroup renders a short human-readable label for a group
func DescribeGroup(g types.DuplicateGroup) string {
	if len(g.Members) == 0 {
		return "empty group"
	}
	first := g.Members[0].Application
	return fmt.Sprintf("%s / %s (%d records, %.0f%% confidence)",
		first.Company, first.Position, len(g.Members), g.Confidence*100)
}
