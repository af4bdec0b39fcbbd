package mapping

import (
	"net/mail"
	"net/url"
	"regexp"
	"strings"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

const (
	// sniffSampleSize caps how many rows the content sniffer examines
	sniffSampleSize = 20

	// sniffMinRatio is the fraction of non-empty sample cells that must
	// match a field's pattern before the column is claimed.
	sniffMinRatio = 0.6

	// sniffConfidenceScale keeps sniffed confidences below fuzzy matches
	sniffConfidenceScale = 0.65
)

var datePattern = regexp.MustCompile(
	`^(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/.-]\d{1,2}[/.-]\d{2,4}|[A-Za-z]{3,9}\.? \d{1,2},? \d{4}|\d{1,2} [A-Za-z]{3,9},? \d{4})`)

// sniffUnmapped runs content sniffing for pattern-shaped fields (dates,
// emails, URLs) that the alias passes left unmapped, testing sample cell
// values from unclaimed columns.
func sniffUnmapped(headers []string, sampleRows []types.RawRow, res *Result) {
	if len(sampleRows) == 0 {
		return
	}
	if len(sampleRows) > sniffSampleSize {
		sampleRows = sampleRows[:sniffSampleSize]
	}

	claimed := map[string]bool{}
	for _, header := range res.Mapping {
		claimed[header] = true
	}

	for _, fc := range fieldConfigs {
		if _, mapped := res.Mapping[fc.Field]; mapped {
			continue
		}

		var matcher func(string) bool
		switch fc.Kind {
		case KindDate:
			matcher = looksLikeDate
		case KindEmail:
			matcher = looksLikeEmail
		case KindURL:
			matcher = looksLikeURL
		default:
			continue
		}

		bestHeader := ""
		bestRatio := 0.0
		for _, header := range headers {
			if header == "" || claimed[header] {
				continue
			}
			ratio := matchRatio(header, sampleRows, matcher)
			if ratio > bestRatio {
				bestRatio = ratio
				bestHeader = header
			}
		}

		if bestHeader != "" && bestRatio >= sniffMinRatio {
			res.Mapping[fc.Field] = bestHeader
			res.Confidence[fc.Field] = bestRatio * sniffConfidenceScale
			claimed[bestHeader] = true
		}
	}
}

// matchRatio returns the fraction of non-empty sample cells in a column
// that satisfy the matcher
func matchRatio(header string, sampleRows []types.RawRow, matcher func(string) bool) float64 {
	matched, total := 0, 0
	for _, row := range sampleRows {
		cell := strings.TrimSpace(row[header])
		if cell == "" {
			continue
		}
		total++
		if matcher(cell) {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}

func looksLikeDate(cell string) bool {
	return datePattern.MatchString(cell)
}

func looksLikeEmail(cell string) bool {
	addr, err := mail.ParseAddress(cell)
	return err == nil && strings.Contains(addr.Address, "@")
}

func looksLikeURL(cell string) bool {
	u, err := url.Parse(cell)
	if err != nil {
		return false
	}
	if u.Scheme == "http" || u.Scheme == "https" {
		return u.Host != ""
	}
	// Job boards export bare domains too
	return u.Scheme == "" && strings.Contains(cell, ".") && !strings.ContainsAny(cell, " @")
}
