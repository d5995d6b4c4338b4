// ABOUTME: Feed content parser built on gofeed with a malformation cleanup pass
// ABOUTME: Decides whether raw bytes are an RSS/Atom/RDF feed and extracts metadata

package feedparse

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/mmcdole/gofeed"

	"feedcheck-api/core/interfaces"
)

var xmlDeclRe = regexp.MustCompile(`<\?xml[^?]*\?>`)

// Parser implements interfaces.FeedParser using gofeed.
type Parser struct{}

// NewParser creates a new feed content parser.
func NewParser() *Parser {
	return &Parser{}
}

// Parse inspects content and returns feed metadata. If the raw content does
// not parse, one cleanup pass is attempted before giving up.
func (p *Parser) Parse(content []byte) (*interfaces.FeedInfo, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return nil, fmt.Errorf("empty feed content: %w", interfaces.ErrNotAFeed)
	}

	feed, err := parseBytes(content)
	if err != nil {
		cleaned := cleanup(content)
		if !bytes.Equal(cleaned, content) {
			feed, err = parseBytes(cleaned)
		}
		if err != nil {
			if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
				return nil, fmt.Errorf("%v: %w", err, interfaces.ErrNotAFeed)
			}
			return nil, err
		}
	}

	if feed.FeedType != "rss" && feed.FeedType != "atom" {
		return nil, fmt.Errorf("unsupported feed type %q: %w", feed.FeedType, interfaces.ErrNotAFeed)
	}

	return &interfaces.FeedInfo{
		IsValid:     true,
		Title:       feed.Title,
		Description: feed.Description,
		Kind:        feed.FeedType,
	}, nil
}

func parseBytes(content []byte) (*gofeed.Feed, error) {
	parser := gofeed.NewParser()
	return parser.Parse(bytes.NewReader(content))
}

// cleanup applies best-effort fixes for malformations seen in the wild:
// UTF-8 BOM, duplicate XML declarations, junk before the declaration,
// unescaped control characters and unbalanced CDATA sections.
func cleanup(content []byte) []byte {
	out := bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	// Keep only the first XML declaration and drop anything before it.
	if loc := xmlDeclRe.FindIndex(out); loc != nil {
		decl := out[loc[0]:loc[1]]
		rest := xmlDeclRe.ReplaceAll(out[loc[1]:], nil)
		out = append(append([]byte{}, decl...), rest...)
	}

	out = stripControlChars(out)

	// Close a dangling CDATA section so the XML parser can recover.
	if bytes.Count(out, []byte("<![CDATA[")) > bytes.Count(out, []byte("]]>")) {
		out = append(out, []byte("]]>")...)
	}

	return bytes.TrimSpace(out)
}

func stripControlChars(content []byte) []byte {
	return []byte(strings.Map(func(r rune) rune {
		if r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, string(content)))
}
