package fetch

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxDescriptionLen caps the stored job description.
const maxDescriptionLen = 5000

// Prefill holds the fields extracted from a job posting page.
type Prefill struct {
	Company        string `json:"company"`
	Position       string `json:"position"`
	Location       string `json:"location"`
	JobDescription string `json:"jobDescription"`
	JobURL         string `json:"jobUrl"`
	Platform       string `json:"platform"`
}

// JobPage fetches a job posting URL and extracts prefill fields.
func (c *Client) JobPage(ctx context.Context, urlStr string) (*Prefill, error) {
	html, err := c.fetchHTML(ctx, urlStr)
	if err != nil {
		return nil, err
	}
	return ParseJobPage(html, urlStr)
}

// ParseJobPage extracts prefill fields from job posting HTML.
func ParseJobPage(html, urlStr string) (*Prefill, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}

	platform := DetectPlatform(urlStr)
	p := &Prefill{
		JobURL:   urlStr,
		Platform: string(platform),
	}

	title := pageTitle(doc)
	p.Position, p.Company = splitTitle(title)

	// Site metadata and URL structure beat the title heuristic for company
	if siteName := metaContent(doc, "og:site_name"); siteName != "" {
		p.Company = siteName
	}
	if company := companyFromURL(urlStr, platform); company != "" {
		p.Company = company
	}

	p.Location = findLocation(doc)
	p.JobDescription = findDescription(doc, platform)

	return p, nil
}

// pageTitle prefers the og:title meta over the document title.
func pageTitle(doc *goquery.Document) string {
	if t := metaContent(doc, "og:title"); t != "" {
		return t
	}
	if h1 := strings.TrimSpace(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func metaContent(doc *goquery.Document, property string) string {
	sel := doc.Find(`meta[property="` + property + `"], meta[name="` + property + `"]`).First()
	content, _ := sel.Attr("content")
	return strings.TrimSpace(content)
}

// splitTitle breaks "Senior Engineer at Acme" or "Senior Engineer - Acme"
// into position and company. Returns the whole title as position when no
// separator is found.
func splitTitle(title string) (position, company string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", ""
	}

	for _, sep := range []string{" at ", " @ ", " - ", " | ", " – "} {
		if pos, comp, ok := strings.Cut(title, sep); ok {
			return strings.TrimSpace(pos), strings.TrimSpace(comp)
		}
	}
	return title, ""
}

func findLocation(doc *goquery.Document) string {
	selectors := []string{
		".location",
		".posting-categories .location",
		".job__location",
		"[data-automation-id='locations']",
		".job-location",
	}
	for _, sel := range selectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return collapseSpaces(text)
		}
	}
	return ""
}

func findDescription(doc *goquery.Document, platform Platform) string {
	doc.Find("nav, footer, header, script, style, noscript, form, .cookie-banner").Remove()

	for _, sel := range descriptionSelectors(platform) {
		selection := doc.Find(sel)
		if selection.Length() == 0 {
			continue
		}
		text := cleanText(selection.First().Text())
		if text != "" {
			return truncateText(text, maxDescriptionLen)
		}
	}
	return ""
}

// cleanText trims each line and drops blank ones.
func cleanText(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncateText caps text at max bytes, backing up to a rune boundary so a
// multi-byte character is never split.
func truncateText(text string, max int) string {
	if len(text) <= max {
		return text
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut]
}
