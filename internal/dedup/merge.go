package dedup

import (
	"sort"
	"strings"
	"time"

	"github.com/ummugulsunn/ai-application-tracker-sub003/internal/types"
)

// notesSeparator joins notes from different group members in a merge preview
const notesSeparator = "\n---\n"

// MergePreview synthesizes the record a group would collapse into if merged:
// each scalar field takes the non-empty value from the most recently updated
// member, arrays are unioned order-stable by first appearance, and notes are
// concatenated instead of overwritten. The inputs are never mutated.
func MergePreview(members []types.DuplicateMember) types.Application {
	if len(members) == 0 {
		return types.Application{}
	}

	// Newest first, so the first non-empty value per field wins
	ordered := make([]types.DuplicateMember, len(members))
	copy(ordered, members)
	sort.SliceStable(ordered, func(i, j int) bool {
		return memberTime(ordered[i]).After(memberTime(ordered[j]))
	})

	merged := ordered[0].Application
	merged.Tags = nil
	merged.Requirements = nil
	merged.Notes = ""

	for _, m := range ordered {
		app := m.Application
		merged.Company = firstNonEmpty(merged.Company, app.Company)
		merged.Position = firstNonEmpty(merged.Position, app.Position)
		merged.Location = firstNonEmpty(merged.Location, app.Location)
		merged.Salary = firstNonEmpty(merged.Salary, app.Salary)
		merged.ContactPerson = firstNonEmpty(merged.ContactPerson, app.ContactPerson)
		merged.ContactEmail = firstNonEmpty(merged.ContactEmail, app.ContactEmail)
		merged.Website = firstNonEmpty(merged.Website, app.Website)
		merged.JobURL = firstNonEmpty(merged.JobURL, app.JobURL)
		merged.JobDescription = firstNonEmpty(merged.JobDescription, app.JobDescription)
		merged.CompanyWebsite = firstNonEmpty(merged.CompanyWebsite, app.CompanyWebsite)
		if merged.Type == "" {
			merged.Type = app.Type
		}
		if merged.Status == "" {
			merged.Status = app.Status
		}
		if merged.Priority == "" {
			merged.Priority = app.Priority
		}
		if merged.AppliedDate == nil {
			merged.AppliedDate = app.AppliedDate
		}
		if merged.ResponseDate == nil {
			merged.ResponseDate = app.ResponseDate
		}
		if merged.InterviewDate == nil {
			merged.InterviewDate = app.InterviewDate
		}
	}

	// Arrays: union across members order-stable by first appearance,
	// iterating members in their original order
	merged.Tags = unionStrings(members, func(a types.Application) []string { return a.Tags })
	merged.Requirements = unionStrings(members, func(a types.Application) []string { return a.Requirements })
	merged.Notes = concatNotes(members)

	return merged
}

// ApplyResolution returns the applications a group keeps under the given
// action. keep_all returns every member; merge returns only the synthesized
// preview; the rest pick survivors by timestamp or position.
func ApplyResolution(group types.DuplicateGroup, action types.ResolutionAction) []types.Application {
	members := group.Members
	if len(members) == 0 {
		return nil
	}

	switch action {
	case types.ResolutionMerge:
		if group.MergePreview != nil {
			return []types.Application{*group.MergePreview}
		}
		preview := MergePreview(members)
		return []types.Application{preview}

	case types.ResolutionKeepNewest:
		best := members[0]
		for _, m := range members[1:] {
			if memberTime(m).After(memberTime(best)) {
				best = m
			}
		}
		return []types.Application{best.Application}

	case types.ResolutionKeepOldest:
		best := members[0]
		for _, m := range members[1:] {
			if memberTime(m).Before(memberTime(best)) {
				best = m
			}
		}
		return []types.Application{best.Application}

	case types.ResolutionDeleteDuplicates:
		return []types.Application{members[0].Application}

	default: // keep_all
		apps := make([]types.Application, 0, len(members))
		for _, m := range members {
			apps = append(apps, m.Application)
		}
		return apps
	}
}

// memberTime picks the timestamp used to order group members
func memberTime(m types.DuplicateMember) time.Time {
	if !m.Application.UpdatedAt.IsZero() {
		return m.Application.UpdatedAt
	}
	if !m.Application.CreatedAt.IsZero() {
		return m.Application.CreatedAt
	}
	if m.Application.AppliedDate != nil {
		return *m.Application.AppliedDate
	}
	return time.Time{}
}

func firstNonEmpty(current, candidate string) string {
	if strings.TrimSpace(current) != "" {
		return current
	}
	return candidate
}

func unionStrings(members []types.DuplicateMember, pick func(types.Application) []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range members {
		for _, v := range pick(m.Application) {
			key := strings.ToLower(strings.TrimSpace(v))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, strings.TrimSpace(v))
		}
	}
	return out
}

func concatNotes(members []types.DuplicateMember) string {
	seen := map[string]bool{}
	var parts []string
	for _, m := range members {
		note := strings.TrimSpace(m.Application.Notes)
		if note == "" || seen[note] {
			continue
		}
		seen[note] = true
		parts = append(parts, note)
	}
	return strings.Join(parts, notesSeparator)
}
