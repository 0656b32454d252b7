package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/newsscope/newswatch/internal/sources"
)

// rssRoot is the top-level XML element for RSS 2.0 feeds.
type rssRoot struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Content     string `xml:"encoded"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// atomFeed is the top-level XML element for Atom feeds.
type atomFeed struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Content string     `xml:"content"`
	Updated string     `xml:"updated"`
	ID      string     `xml:"id"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// ParseFeed decodes an RSS 2.0 or Atom payload into raw items attributed to
// the given source. Items without a link or title are dropped; items without a
// date fall back to the given ingest time.
func ParseFeed(data []byte, src sources.SourceConfig, ingestTime time.Time) ([]RawItem, error) {
	items, err := parseRSS(data)
	if err != nil {
		// Fall back to Atom.
		items, err = parseAtom(data)
		if err != nil {
			return nil, fmt.Errorf("feed: unrecognized format from %s: %w", src.Name, err)
		}
	}

	out := make([]RawItem, 0, len(items))
	for _, it := range items {
		it.URL = CanonicalizeURL(it.URL)
		if !it.Valid() {
			continue
		}
		it.SourceName = src.Name
		it.SourceKind = sources.KindRSS
		it.DeclaredLanguage = src.Language
		it.DeclaredRegion = src.Region
		it.Trusted = src.Trusted
		if it.PublishedAt.IsZero() {
			it.PublishedAt = ingestTime
		}
		out = append(out, it)
	}
	return out, nil
}

// parseRSS attempts to decode RSS 2.0 XML.
func parseRSS(data []byte) ([]RawItem, error) {
	var root rssRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, err
	}

	if len(root.Channel.Items) == 0 {
		return nil, fmt.Errorf("no RSS items found")
	}

	items := make([]RawItem, 0, len(root.Channel.Items))
	for _, ri := range root.Channel.Items {
		items = append(items, RawItem{
			Title:       CleanText(ri.Title),
			URL:         strings.TrimSpace(ri.Link),
			Summary:     CleanText(ri.Description),
			Content:     CleanText(ri.Content),
			PublishedAt: parseDate(ri.PubDate),
		})
	}

	return items, nil
}

// parseAtom attempts to decode Atom XML.
func parseAtom(data []byte) ([]RawItem, error) {
	var af atomFeed
	if err := xml.Unmarshal(data, &af); err != nil {
		return nil, err
	}

	if len(af.Entries) == 0 {
		return nil, fmt.Errorf("no Atom entries found")
	}

	items := make([]RawItem, 0, len(af.Entries))
	for _, entry := range af.Entries {
		summary := entry.Summary
		if summary == "" {
			summary = entry.Content
		}

		items = append(items, RawItem{
			Title:       CleanText(entry.Title),
			URL:         strings.TrimSpace(atomEntryLink(entry.Links)),
			Summary:     CleanText(summary),
			PublishedAt: parseDate(entry.Updated),
		})
	}

	return items, nil
}

// atomEntryLink extracts the best link from an Atom entry. It prefers rel="alternate"
// or the first href found.
func atomEntryLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" || l.Rel == "" {
			return l.Href
		}
	}
	if len(links) > 0 {
		return links[0].Href
	}
	return ""
}

// parseDate tries several common date formats used in RSS and Atom feeds.
func parseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}

	formats := []string{
		time.RFC1123Z,    // Mon, 02 Jan 2006 15:04:05 -0700
		time.RFC1123,     // Mon, 02 Jan 2006 15:04:05 MST
		time.RFC3339,     // 2006-01-02T15:04:05Z07:00
		time.RFC3339Nano, // 2006-01-02T15:04:05.999999999Z07:00
		"2006-01-02T15:04:05Z",
		"2006-01-02T15:04:05",
		"2006-01-02",
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"02 Jan 2006 15:04:05 -0700",
		"02 Jan 2006 15:04:05 MST",
	}

	for _, f := range formats {
		t, err := time.Parse(f, s)
		if err == nil {
			return t
		}
	}

	return time.Time{}
}
