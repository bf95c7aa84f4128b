// Package search builds result-page queries for the listings site and fetches
// their markup.
package search

import (
	"fmt"
	"net/url"

	"github.com/amishk599/jobsift/internal/model"
)

// PageSize is the number of listings per results page; offsets step by it.
const PageSize = 10

// URLBuilder renders QueryKeys as canonical search URLs.
type URLBuilder struct {
	host string
}

// NewURLBuilder returns a builder for the given site host, e.g. "www.indeed.com".
func NewURLBuilder(host string) *URLBuilder {
	return &URLBuilder{host: host}
}

// URL returns the search URL for key, limited to postings from the last day.
func (b *URLBuilder) URL(key model.QueryKey) string {
	return fmt.Sprintf("https://%s/jobs?q=%s&l=%s&start=%d&fromage=1",
		b.host, url.QueryEscape(key.Title), url.QueryEscape(key.Location), key.Offset)
}

// QueryKeys expands every (title, location) pair into page offsets
// 0, PageSize, 2*PageSize, ... below maxResults. Titles vary slowest.
func QueryKeys(titles, locations []string, maxResults int) []model.QueryKey {
	var keys []model.QueryKey
	for _, title := range titles {
		for _, loc := range locations {
			for offset := 0; offset < maxResults; offset += PageSize {
				keys = append(keys, model.QueryKey{Title: title, Location: loc, Offset: offset})
			}
		}
	}
	return keys
}
