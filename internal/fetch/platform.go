package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known job board platform.
type Platform string

const (
	// PlatformGreenhouse is the Greenhouse ATS platform
	PlatformGreenhouse Platform = "greenhouse"
	// PlatformLever is the Lever ATS platform
	PlatformLever Platform = "lever"
	// PlatformWorkday is the Workday ATS platform
	PlatformWorkday Platform = "workday"
	// PlatformLinkedIn is LinkedIn job listings
	PlatformLinkedIn Platform = "linkedin"
	// PlatformUnknown is an unrecognized platform
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the job board platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.Contains(host, "greenhouse.io"):
		return PlatformGreenhouse
	case strings.Contains(host, "lever.co"):
		return PlatformLever
	case strings.Contains(host, "workday.com") || strings.Contains(host, "myworkdayjobs.com"):
		return PlatformWorkday
	case strings.Contains(host, "linkedin.com"):
		return PlatformLinkedIn
	}

	return PlatformUnknown
}

// descriptionSelectors returns content selectors for the job description,
// most specific first.
func descriptionSelectors(platform Platform) []string {
	switch platform {
	case PlatformGreenhouse:
		return []string{
			".job__description.body",
			".job__description",
			"#content",
			"main",
		}
	case PlatformLever:
		return []string{
			".posting-description",
			".posting-page",
			".content",
			"main",
		}
	case PlatformWorkday:
		return []string{
			"[data-automation-id='jobDescription']",
			".job-description",
			"main",
		}
	case PlatformLinkedIn:
		return []string{
			".description__text",
			".show-more-less-html__markup",
			"main",
		}
	default:
		return []string{
			".job-description",
			"#job-description",
			".posting-content",
			".job-details",
			"main",
			"article",
			"#content",
		}
	}
}

// companyFromURL guesses the company from platform URL structure, where the
// first path segment names the tenant (greenhouse, lever) or the subdomain
// does (workday).
func companyFromURL(urlStr string, platform Platform) string {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}

	switch platform {
	case PlatformGreenhouse, PlatformLever:
		segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
		if len(segments) > 0 && segments[0] != "" {
			return titleCaseSlug(segments[0])
		}
	case PlatformWorkday:
		host := strings.ToLower(parsed.Host)
		if sub, _, ok := strings.Cut(host, "."); ok && sub != "www" {
			return titleCaseSlug(sub)
		}
	}
	return ""
}

// titleCaseSlug turns "acme-corp" into "Acme Corp".
func titleCaseSlug(slug string) string {
	words := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
