// Package extract parses listing fragments from a search results page into
// posting records.
package extract

import (
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/amishk599/jobsift/internal/model"
)

// "City[-multiword], ST" at the start of the location text.
var locationRegex = regexp.MustCompile(`^([a-zA-Z]+(?:[\s-][a-zA-Z]+)*), ([A-Z]{2})`)

var (
	fragmentTag   = "div"
	fragmentAttrs = Attrs{"class": "row"}
	titleAttrs    = Attrs{"data-tn-element": "jobTitle"}
)

// Extractor turns listing fragments into PostingRecords.
type Extractor struct {
	base   *url.URL
	now    func() time.Time
	logger *slog.Logger
}

// NewExtractor returns an extractor that resolves posting links against baseURL.
func NewExtractor(baseURL string, logger *slog.Logger) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("base url %q is not absolute", baseURL)
	}
	return &Extractor{base: base, now: time.Now, logger: logger}, nil
}

// Page parses a results page and extracts one record per listing fragment,
// in document order. Fragments without a posting URL are skipped.
func (e *Extractor) Page(markup string) ([]model.PostingRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}
	root := goqueryNode{sel: doc.Selection}

	fragments := root.FindAll(fragmentTag, fragmentAttrs)
	records := make([]model.PostingRecord, 0, len(fragments))
	for i, frag := range fragments {
		rec, err := e.Fragment(frag)
		if err != nil {
			e.logger.Debug("skipping fragment", "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Fragment extracts a single record. Missing optional elements become empty
// strings or sentinels; only a missing posting URL is an error
// (model.ErrUnparseableFragment).
func (e *Extractor) Fragment(n Node) (model.PostingRecord, error) {
	link, err := e.postingURL(n)
	if err != nil {
		return model.PostingRecord{}, err
	}

	city, state := location(n)
	return model.PostingRecord{
		CaptureDate:      truncateToDay(e.now()),
		Title:            title(n),
		Company:          company(n),
		City:             city,
		State:            state,
		Summary:          textOf(n, "span", Attrs{"class": "summary"}),
		URL:              link,
		CompensationText: compensation(n),
	}, nil
}

func (e *Extractor) postingURL(n Node) (string, error) {
	a, ok := n.Find("a", titleAttrs)
	if !ok {
		return "", model.ErrUnparseableFragment
	}
	href, ok := a.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", model.ErrUnparseableFragment
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrUnparseableFragment, err)
	}
	return e.base.ResolveReference(ref).String(), nil
}

func title(n Node) string {
	a, ok := n.Find("a", titleAttrs)
	if !ok {
		return ""
	}
	if t, ok := a.Attr("title"); ok && strings.TrimSpace(t) != "" {
		return cleanText(t)
	}
	return cleanText(a.Text())
}

func company(n Node) string {
	if c := textOf(n, "span", Attrs{"class": "company"}); c != "" {
		return c
	}
	return textOf(n, "span", Attrs{"class": "result-link-source"})
}

func location(n Node) (city, state string) {
	text := textOf(n, "span", Attrs{"class": "location"})
	m := locationRegex.FindStringSubmatch(text)
	if m == nil {
		return model.NoLocation, model.NoLocation
	}
	return m[1], m[2]
}

// compensation prefers a <nobr> pay statement, then the first div inside the
// "sjcl" block.
func compensation(n Node) string {
	if pay := textOf(n, "nobr", nil); pay != "" {
		return pay
	}
	if block, ok := n.Find("div", Attrs{"class": "sjcl"}); ok {
		if pay := textOf(block, "div", nil); pay != "" {
			return pay
		}
	}
	return model.NoCompensation
}

func textOf(n Node, tag string, attrs Attrs) string {
	el, ok := n.Find(tag, attrs)
	if !ok {
		return ""
	}
	return cleanText(el.Text())
}

// cleanText trims and collapses runs of whitespace.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
