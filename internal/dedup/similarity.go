// Package dedup finds groups of applications that likely represent the same
// real-world application and proposes how to resolve them.
package dedup

import (
	"math"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// Config holds the similarity weights and confidence thresholds. The
// defaults were tuned against representative job-board exports; treat them
// as configuration, not constants of nature.
type Config struct {
	WeightCompany  float64
	WeightPosition float64
	WeightLocation float64
	WeightDate     float64

	// DateWindowDays is how far apart two applied dates may be and still
	// count as close
	DateWindowDays int

	// HighThreshold and up is a confident duplicate; MediumThreshold and
	// up is a candidate match; GroupThreshold is the pairwise cutoff for
	// transitive grouping.
	HighThreshold   float64
	MediumThreshold float64
	LowThreshold    float64
	GroupThreshold  float64
}

// DefaultConfig returns the standard weights and thresholds
func DefaultConfig() Config {
	return Config{
		WeightCompany:   0.50,
		WeightPosition:  0.30,
		WeightLocation:  0.10,
		WeightDate:      0.10,
		DateWindowDays:  14,
		HighThreshold:   0.90,
		MediumThreshold: 0.75,
		LowThreshold:    0.60,
		GroupThreshold:  0.75,
	}
}

// ConfidenceBand names the band a composite score falls into
func (c Config) ConfidenceBand(score float64) string {
	switch {
	case score >= c.HighThreshold:
		return "high"
	case score >= c.MediumThreshold:
		return "medium"
	case score >= c.LowThreshold:
		return "low"
	default:
		return "none"
	}
}

// corporateSuffixes are stripped before comparing company names
var corporateSuffixes = []string{
	"incorporated", "inc", "llc", "ltd", "limited", "corporation", "corp",
	"company", "co", "gmbh", "plc", "sa", "ag",
}

// Similarity computes the weighted composite similarity of two applications
// and the human-readable reasons behind it. Missing fields contribute zero
// to their component; nothing here ever fails on a partial record. An exact
// job-URL match short-circuits to full similarity.
func Similarity(a, b types.Application, cfg Config) (float64, []string) {
	if urlA, urlB := normalizeURL(a.JobURL), normalizeURL(b.JobURL); urlA != "" && urlA == urlB {
		return 1.0, []string{"identical job posting URL"}
	}

	var score float64
	var reasons []string

	if companySim := CompanySimilarity(a.Company, b.Company); companySim > 0 {
		score += companySim * cfg.WeightCompany
		if companySim >= 0.85 {
			reasons = append(reasons, "company names are nearly identical")
		} else if companySim >= 0.6 {
			reasons = append(reasons, "company names are similar")
		}
	}

	if positionSim := PositionSimilarity(a.Position, b.Position); positionSim > 0 {
		score += positionSim * cfg.WeightPosition
		if positionSim >= 0.8 {
			reasons = append(reasons, "position titles are similar")
		}
	}

	if locationSim := textSimilarity(a.Location, b.Location); locationSim > 0 {
		score += locationSim * cfg.WeightLocation
		if locationSim >= 0.8 {
			reasons = append(reasons, "locations match")
		}
	}

	if dateSim := dateProximity(a.AppliedDate, b.AppliedDate, cfg.DateWindowDays); dateSim > 0 {
		score += dateSim * cfg.WeightDate
		if dateSim >= 0.5 {
			reasons = append(reasons, "applied around the same time")
		}
	}

	return score, reasons
}

// CompanySimilarity compares company names, ignoring case, punctuation, and
// corporate suffixes like Inc and LLC
func CompanySimilarity(a, b string) float64 {
	return textSimilarity(normalizeCompany(a), normalizeCompany(b))
}

// PositionSimilarity compares position titles, ignoring case and punctuation
func PositionSimilarity(a, b string) float64 {
	return textSimilarity(a, b)
}

// textSimilarity is a normalized Levenshtein similarity in [0,1]; empty
// input on either side scores zero
func textSimilarity(a, b string) float64 {
	a, b = normalizeText(a), normalizeText(b)
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	distance := levenshtein.ComputeDistance(a, b)
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	return 1 - float64(distance)/float64(longest)
}

// dateProximity scores how close two applied dates are within the window
func dateProximity(a, b *time.Time, windowDays int) float64 {
	if a == nil || b == nil || windowDays <= 0 {
		return 0
	}
	days := math.Abs(a.Sub(*b).Hours()) / 24
	if days > float64(windowDays) {
		return 0
	}
	return 1 - days/float64(windowDays)
}

// normalizeText lowercases and collapses punctuation to single spaces
func normalizeText(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r > 127:
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// normalizeCompany strips trailing corporate suffixes after text normalization
func normalizeCompany(s string) string {
	normalized := normalizeText(s)
	for changed := true; changed; {
		changed = false
		for _, suffix := range corporateSuffixes {
			if strings.HasSuffix(normalized, " "+suffix) {
				normalized = strings.TrimSpace(strings.TrimSuffix(normalized, " "+suffix))
				changed = true
			}
		}
	}
	return normalized
}

// normalizeURL canonicalizes a job URL for exact comparison
func normalizeURL(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	return strings.TrimSuffix(s, "/")
}
