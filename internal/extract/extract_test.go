package extract

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amishk599/jobsift/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var fixedNow = time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor("https://www.indeed.com", discardLogger())
	require.NoError(t, err)
	e.now = func() time.Time { return fixedNow }
	return e
}

// fragment parses markup and returns the first div.row as a Node.
func fragment(t *testing.T, markup string) Node {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	n, ok := goqueryNode{sel: doc.Selection}.Find("div", Attrs{"class": "row"})
	require.True(t, ok, "fixture has no div.row")
	return n
}

func TestPage_Fixture(t *testing.T) {
	markup, err := os.ReadFile("testdata/page.html")
	require.NoError(t, err)

	records, err := newTestExtractor(t).Page(string(markup))
	require.NoError(t, err)
	require.Len(t, records, 3, "fragment without a link is skipped")

	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, model.PostingRecord{
		CaptureDate:      day,
		Title:            "Senior Tax Manager",
		Company:          "Acme LLP",
		City:             "San Francisco",
		State:            "CA",
		Summary:          "Lead corporate tax planning for international clients.",
		URL:              "https://www.indeed.com/rc/clk?jk=a1&fccid=f1",
		CompensationText: "$57.70 an hour",
	}, records[0])

	assert.Equal(t, model.PostingRecord{
		CaptureDate:      day,
		Title:            "International Tax Attorney",
		Company:          "Beta Partners",
		City:             model.NoLocation,
		State:            model.NoLocation,
		Summary:          "Advise on cross-border tax law.",
		URL:              "https://www.indeed.com/pagead/clk?mo=r&ad=xyz",
		CompensationText: "$150,000 a year",
	}, records[1])

	assert.Equal(t, model.PostingRecord{
		CaptureDate:      day,
		Title:            "Tax Associate",
		Company:          "",
		City:             "Winston-Salem",
		State:            "NC",
		Summary:          "",
		URL:              "https://www.indeed.com/rc/clk?jk=a4",
		CompensationText: model.NoCompensation,
	}, records[2])

	for _, r := range records {
		assert.Nil(t, r.Score, "extraction never scores")
	}
}

func TestPage_NoFragments(t *testing.T) {
	records, err := newTestExtractor(t).Page("<html><body><p>No jobs found</p></body></html>")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFragment_MissingURL(t *testing.T) {
	tests := []struct {
		name   string
		markup string
	}{
		{"no title anchor", `<div class="row"><span class="company">Acme</span></div>`},
		{"anchor without href", `<div class="row"><a data-tn-element="jobTitle" title="Tax Manager">x</a></div>`},
		{"blank href", `<div class="row"><a data-tn-element="jobTitle" href="  ">x</a></div>`},
	}
	e := newTestExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Fragment(fragment(t, tt.markup))
			assert.True(t, errors.Is(err, model.ErrUnparseableFragment), "got %v", err)
		})
	}
}

func TestFragment_Location(t *testing.T) {
	tests := []struct {
		text      string
		wantCity  string
		wantState string
	}{
		{"Portland, OR", "Portland", "OR"},
		{"New York, NY 10001 (Midtown area)", "New York", "NY"},
		{"Winston-Salem, NC", "Winston-Salem", "NC"},
		{"Remote", model.NoLocation, model.NoLocation},
		{"Oregon", model.NoLocation, model.NoLocation},
		{"Austin, Texas", model.NoLocation, model.NoLocation},
		{"", model.NoLocation, model.NoLocation},
	}
	e := newTestExtractor(t)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			markup := `<div class="row"><a data-tn-element="jobTitle" href="/x">Tax</a><span class="location">` + tt.text + `</span></div>`
			rec, err := e.Fragment(fragment(t, markup))
			require.NoError(t, err)
			assert.Equal(t, tt.wantCity, rec.City)
			assert.Equal(t, tt.wantState, rec.State)
		})
	}
}

func TestFragment_Compensation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"nobr", `<nobr>$25 - $40 an hour</nobr>`, "$25 - $40 an hour"},
		{"sjcl div", `<div class="sjcl"><div> $9,999 a month </div></div>`, "$9,999 a month"},
		{"empty nobr falls back", `<nobr> </nobr><div class="sjcl"><div>$80,000 a year</div></div>`, "$80,000 a year"},
		{"sjcl without div", `<div class="sjcl"><span class="company">Acme</span></div>`, model.NoCompensation},
		{"nothing", ``, model.NoCompensation},
	}
	e := newTestExtractor(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			markup := `<div class="row"><a data-tn-element="jobTitle" href="/x">Tax</a>` + tt.body + `</div>`
			rec, err := e.Fragment(fragment(t, markup))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rec.CompensationText)
		})
	}
}

func TestFragment_CompanyFallback(t *testing.T) {
	e := newTestExtractor(t)
	rec, err := e.Fragment(fragment(t, `<div class="row"><a data-tn-element="jobTitle" href="/x">Tax</a><span class="result-link-source">Gamma</span></div>`))
	require.NoError(t, err)
	assert.Equal(t, "Gamma", rec.Company)
}

func TestNewExtractor_RejectsRelativeBase(t *testing.T) {
	_, err := NewExtractor("www.indeed.com", discardLogger())
	assert.Error(t, err)
}
