package interfaces

import "errors"

// ErrNotAFeed is returned by FeedParser implementations when content is
// well-formed but is not an RSS, Atom or RDF document.
var ErrNotAFeed = errors.New("content is not a syndication feed")

// FeedInfo is the outcome of parsing a blob of bytes as a syndication feed.
type FeedInfo struct {
	// IsValid indicates whether the content parsed as a feed
	IsValid bool

	// Title is the feed title, when present
	Title string

	// Description is the feed description or subtitle, when present
	Description string

	// Kind is the detected feed flavor: "rss", "atom" or "rdf"
	Kind string
}

// FeedParser defines the capability of deciding whether raw content is a
// syndication feed and extracting its metadata. Implementations are expected
// to tolerate common malformations (BOM, duplicate XML declarations,
// unescaped control characters, unbalanced CDATA) via a best-effort cleanup
// pass attempted once if raw parsing fails.
type FeedParser interface {
	// Parse inspects content and returns feed metadata, or an error when
	// the content is not a well-formed feed even after cleanup.
	Parse(content []byte) (*FeedInfo, error)
}
