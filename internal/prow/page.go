package prow

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ResultPending is the Result of a run that has not finished yet.
const ResultPending = "PENDING"

const buildsVariable = "allBuilds"

var buildsPattern = regexp.MustCompile(buildsVariable + `\s*=\s*(.*?);`)

// Build is one entry of a job-history page's allBuilds array.
type Build struct {
	SpyglassLink string        `json:"SpyglassLink"`
	ID           string        `json:"ID"`
	Started      time.Time     `json:"Started"`
	Duration     time.Duration `json:"Duration"`
	Result       string        `json:"Result"`
}

// Page is a parsed job-history page.
type Page struct {
	URL    string
	Builds []Build
	// NextURL is the absolute "Older Runs" link, empty on the last page.
	NextURL string
}

// ParsePage extracts the builds array and the older-runs link from a
// job-history page. baseURL resolves the relative pagination link.
func ParsePage(html, pageURL, baseURL string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, &ExtractionError{URL: pageURL, Message: "failed to parse HTML", Cause: err}
	}

	var script string
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, buildsVariable) {
			script = text
			return false
		}
		return true
	})
	if script == "" {
		return nil, &ExtractionError{URL: pageURL, Message: "no script element defines " + buildsVariable}
	}

	match := buildsPattern.FindStringSubmatch(script)
	if match == nil {
		return nil, &ExtractionError{URL: pageURL, Message: buildsVariable + " assignment not found"}
	}

	var builds []Build
	if err := json.Unmarshal([]byte(match[1]), &builds); err != nil {
		return nil, &ExtractionError{URL: pageURL, Message: "failed to decode " + buildsVariable, Cause: err}
	}

	return &Page{
		URL:     pageURL,
		Builds:  builds,
		NextURL: olderRunsURL(doc, baseURL),
	}, nil
}

// olderRunsURL finds the pagination link inside the page's table cells,
// preferring the anchor labelled "Older".
func olderRunsURL(doc *goquery.Document, baseURL string) string {
	var first, older string
	doc.Find("td a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !strings.HasPrefix(href, "/job") || strings.Contains(s.Text(), "Newer") {
			return
		}
		if first == "" {
			first = href
		}
		if older == "" && strings.Contains(s.Text(), "Older") {
			older = href
		}
	})

	href := older
	if href == "" {
		href = first
	}
	if href == "" {
		return ""
	}
	return strings.TrimSuffix(baseURL, "/") + href
}
