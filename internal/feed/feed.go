// Package feed converts raw feed documents and scraped pages into uniform
// raw-article records for the collection pipeline.
package feed

import (
	"time"
)

// RawItem is the uniform record produced by the parser for every article
// candidate, regardless of whether it came from an RSS feed or a scraped page.
type RawItem struct {
	URL              string
	Title            string
	Summary          string
	Content          string
	SourceName       string
	SourceKind       string
	DeclaredLanguage string
	DeclaredRegion   string
	Trusted          bool
	PublishedAt      time.Time
}

// Valid reports whether the item satisfies the minimum parser contract: a
// non-empty canonical URL and title. PublishedAt is backfilled by the caller
// when the feed carried no date.
func (r RawItem) Valid() bool {
	return r.URL != "" && r.Title != ""
}
