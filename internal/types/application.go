// Package types provides type definitions for structured data used throughout the application tracker.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"strings"
	"time"
)

// ApplicationStatus represents the lifecycle stage of a job application
type ApplicationStatus string

const (
	StatusPending      ApplicationStatus = "Pending"
	StatusApplied      ApplicationStatus = "Applied"
	StatusInterviewing ApplicationStatus = "Interviewing"
	StatusOffered      ApplicationStatus = "Offered"
	StatusRejected     ApplicationStatus = "Rejected"
	StatusAccepted     ApplicationStatus = "Accepted"
	StatusWithdrawn    ApplicationStatus = "Withdrawn"
)

// JobType represents the employment type of a position
type JobType string

const (
	TypeFullTime   JobType = "Full-time"
	TypePartTime   JobType = "Part-time"
	TypeContract   JobType = "Contract"
	TypeInternship JobType = "Internship"
	TypeFreelance  JobType = "Freelance"
)

// Priority represents how important an application is to the user
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// AllStatuses lists every valid application status
func AllStatuses() []ApplicationStatus {
	return []ApplicationStatus{
		StatusPending, StatusApplied, StatusInterviewing,
		StatusOffered, StatusRejected, StatusAccepted, StatusWithdrawn,
	}
}

// AllJobTypes lists every valid job type
func AllJobTypes() []JobType {
	return []JobType{TypeFullTime, TypePartTime, TypeContract, TypeInternship, TypeFreelance}
}

// AllPriorities lists every valid priority
func AllPriorities() []Priority {
	return []Priority{PriorityLow, PriorityMedium, PriorityHigh}
}

// ParseStatus matches a free-form status value against the canonical enum.
// Matching is case-insensitive and tolerates prefixes and common variants
// (e.g. "interview" matches Interviewing). Returns ok=false when nothing fits.
func ParseStatus(s string) (ApplicationStatus, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", false
	}
	for _, status := range AllStatuses() {
		canonical := strings.ToLower(string(status))
		if needle == canonical || strings.HasPrefix(canonical, needle) || strings.HasPrefix(needle, canonical) {
			return status, true
		}
	}
	// Common synonyms seen in job-board exports
	switch {
	case strings.Contains(needle, "interview"):
		return StatusInterviewing, true
	case strings.Contains(needle, "offer"):
		return StatusOffered, true
	case strings.Contains(needle, "reject") || strings.Contains(needle, "declin"):
		return StatusRejected, true
	case strings.Contains(needle, "withdr"):
		return StatusWithdrawn, true
	case strings.Contains(needle, "appl") || strings.Contains(needle, "submit"):
		return StatusApplied, true
	}
	return "", false
}

// ParseJobType matches a free-form type value against the canonical enum
func ParseJobType(s string) (JobType, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	needle = strings.NewReplacer(" ", "-", "_", "-").Replace(needle)
	if needle == "" {
		return "", false
	}
	for _, jt := range AllJobTypes() {
		canonical := strings.ToLower(string(jt))
		if needle == canonical || strings.HasPrefix(canonical, needle) {
			return jt, true
		}
	}
	switch {
	case strings.Contains(needle, "intern"):
		return TypeInternship, true
	case strings.Contains(needle, "contract") || strings.Contains(needle, "temp"):
		return TypeContract, true
	case strings.Contains(needle, "part"):
		return TypePartTime, true
	case strings.Contains(needle, "free"):
		return TypeFreelance, true
	case strings.Contains(needle, "full") || strings.Contains(needle, "perm"):
		return TypeFullTime, true
	}
	return "", false
}

// ParsePriority matches a free-form priority value against the canonical enum
func ParsePriority(s string) (Priority, bool) {
	needle := strings.ToLower(strings.TrimSpace(s))
	if needle == "" {
		return "", false
	}
	for _, p := range AllPriorities() {
		canonical := strings.ToLower(string(p))
		if needle == canonical || strings.HasPrefix(canonical, needle) {
			return p, true
		}
	}
	switch needle {
	case "urgent", "critical", "1":
		return PriorityHigh, true
	case "normal", "2":
		return PriorityMedium, true
	case "3":
		return PriorityLow, true
	}
	return "", false
}

// Application represents one tracked job application
type Application struct {
	ID             string            `json:"id"`
	Company        string            `json:"company"`
	Position       string            `json:"position,omitempty"`
	Location       string            `json:"location,omitempty"`
	Type           JobType           `json:"type,omitempty"`
	Salary         string            `json:"salary,omitempty"`
	Status         ApplicationStatus `json:"status,omitempty"`
	Priority       Priority          `json:"priority,omitempty"`
	AppliedDate    *time.Time        `json:"applied_date,omitempty"`
	ResponseDate   *time.Time        `json:"response_date,omitempty"`
	InterviewDate  *time.Time        `json:"interview_date,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	ContactPerson  string            `json:"contact_person,omitempty"`
	ContactEmail   string            `json:"contact_email,omitempty"`
	Website        string            `json:"website,omitempty"`
	JobURL         string            `json:"job_url,omitempty"`
	JobDescription string            `json:"job_description,omitempty"`
	CompanyWebsite string            `json:"company_website,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
	Requirements   []string          `json:"requirements,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}
