// Package validation checks mapped CSV cells against field-specific rules,
// separating hard errors (block the row) from auto-corrected warnings.
package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/mapping"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/parsing"
	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// validate backs the email and URL format checks
var validate = validator.New()

// listSeparators are accepted delimiters inside tag/requirement cells
var listSeparators = []string{";", "|", ","}

// cellOutcome is the result of checking one cell: the cleaned value plus an
// optional error or warning. At most one of err/warn is set.
type cellOutcome struct {
	cleaned string
	err     *types.ValidationError
	warn    *types.ValidationWarning
}

// checkCell validates a single cell against its field's rules.
// rowIndex and column only seed the emitted error/warning.
func checkCell(fc mapping.FieldConfig, rowIndex int, column, raw string) cellOutcome {
	trimmed := strings.TrimSpace(raw)

	if trimmed == "" {
		if fc.Required {
			return cellOutcome{cleaned: trimmed, err: &types.ValidationError{
				Row:     rowIndex,
				Column:  column,
				Message: fmt.Sprintf("required field %q is empty", fc.Field),
			}}
		}
		return cellOutcome{cleaned: trimmed}
	}

	out := cellOutcome{cleaned: trimmed}
	if trimmed != raw {
		out.warn = &types.ValidationWarning{
			Row:          rowIndex,
			Column:       column,
			Message:      "surrounding whitespace removed",
			SuggestedFix: trimmed,
		}
	}

	switch fc.Kind {
	case mapping.KindDate:
		return checkDateCell(out, rowIndex, column, trimmed)
	case mapping.KindEnum:
		return checkEnumCell(fc.Field, out, rowIndex, column, trimmed)
	case mapping.KindEmail:
		if err := validate.Var(trimmed, "email"); err != nil {
			// Retained as-is: a malformed email should not block the row
			out.warn = &types.ValidationWarning{
				Row:          rowIndex,
				Column:       column,
				Message:      fmt.Sprintf("%q does not look like an email address", trimmed),
				SuggestedFix: trimmed,
			}
		}
	case mapping.KindURL:
		if err := validate.Var(ensureScheme(trimmed), "url"); err != nil {
			out.warn = &types.ValidationWarning{
				Row:          rowIndex,
				Column:       column,
				Message:      fmt.Sprintf("%q does not look like a URL", trimmed),
				SuggestedFix: trimmed,
			}
		}
	case mapping.KindList:
		out.cleaned = normalizeList(trimmed)
	}

	return out
}

func checkDateCell(out cellOutcome, rowIndex int, column, trimmed string) cellOutcome {
	parsed, ok := parsing.ParseDate(trimmed)
	if !ok {
		// All date fields are optional; unparseable values drop to null
		out.cleaned = ""
		out.warn = &types.ValidationWarning{
			Row:          rowIndex,
			Column:       column,
			Message:      fmt.Sprintf("%q is not a recognized date; value cleared", trimmed),
			SuggestedFix: "",
		}
		return out
	}

	// Successful parses normalize silently; only unparseable values warn
	out.cleaned = parsing.FormatDate(parsed)
	return out
}

func checkEnumCell(field types.Field, out cellOutcome, rowIndex int, column, trimmed string) cellOutcome {
	canonical, matched := matchEnum(field, trimmed)
	if matched {
		out.cleaned = canonical
		return out
	}

	fallback := enumDefault(field)
	out.cleaned = fallback
	out.warn = &types.ValidationWarning{
		Row:          rowIndex,
		Column:       column,
		Message:      fmt.Sprintf("%q is not a recognized %s; defaulting to %q", trimmed, field, fallback),
		SuggestedFix: fallback,
	}
	return out
}

func matchEnum(field types.Field, value string) (string, bool) {
	switch field {
	case types.FieldStatus:
		if s, ok := types.ParseStatus(value); ok {
			return string(s), true
		}
	case types.FieldType:
		if jt, ok := types.ParseJobType(value); ok {
			return string(jt), true
		}
	case types.FieldPriority:
		if p, ok := types.ParsePriority(value); ok {
			return string(p), true
		}
	}
	return "", false
}

func enumDefault(field types.Field) string {
	switch field {
	case types.FieldStatus:
		return string(types.StatusApplied)
	case types.FieldType:
		return string(types.TypeFullTime)
	case types.FieldPriority:
		return string(types.PriorityMedium)
	}
	return ""
}

// normalizeList rewrites a multi-value cell to the canonical "a; b" form
func normalizeList(value string) string {
	return strings.Join(SplitList(value), "; ")
}

// SplitList splits a multi-value cell on the first separator found in it,
// trimming items and dropping empties. Order is preserved.
func SplitList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	sep := ""
	for _, candidate := range listSeparators {
		if strings.Contains(value, candidate) {
			sep = candidate
			break
		}
	}
	if sep == "" {
		return []string{value}
	}

	var items []string
	for _, item := range strings.Split(value, sep) {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ensureScheme lets scheme-less domains pass the URL format check
func ensureScheme(value string) string {
	if strings.Contains(value, "://") {
		return value
	}
	return "https://" + value
}
