// ABOUTME: Discovery engine locates candidate feed URLs from a non-feed webpage
// ABOUTME: Runs four strategies in increasing cost order with confidence scoring

package discovery

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"feedcheck-api/core/domain"
	"feedcheck-api/core/interfaces"
)

const (
	maxBodySize   = 5 << 20
	maxCandidates = 5

	// Confidence by strategy reliability
	confidenceLinkTag    = 0.9
	confidenceProbe      = 0.8
	confidenceHTMLParse  = 0.6
	confidenceCommonPath = 0.4

	// Strategies stop running once a candidate at or above this score exists
	highConfidence = 0.8
)

// probePaths are the cheap first-pass paths tried against the URL's origin.
var probePaths = []string{"/feed", "/rss.xml", "/atom.xml"}

// commonPaths are platform-specific conventions tried as a last resort.
var commonPaths = []string{
	"/feed.xml",
	"/rss",
	"/atom",
	"/index.xml",
	"/feeds/posts/default",
	"/?feed=rss2",
	"/blog/feed",
	"/blog/rss.xml",
}

// Engine implements interfaces.DiscoveryEngine.
type Engine struct {
	deps   interfaces.Dependencies
	parser interfaces.FeedParser
}

// NewEngine creates a discovery engine.
func NewEngine(deps interfaces.Dependencies, parser interfaces.FeedParser) *Engine {
	return &Engine{deps: deps, parser: parser}
}

// DiscoverFromWebsite searches for feed URLs related to siteURL. Candidates
// are verified to parse as feeds before being surfaced, deduplicated by
// normalized URL and sorted by confidence.
func (e *Engine) DiscoverFromWebsite(ctx context.Context, siteURL string) (*interfaces.DiscoveryOutcome, error) {
	base, err := url.Parse(siteURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid website URL %q", siteURL)
	}

	run := &discoveryRun{engine: e, base: base, seen: map[string]bool{}}

	run.probe(ctx, probePaths, domain.DiscoveryDirectProbe, confidenceProbe)

	if !run.hasHighConfidence() {
		run.scanLinkTags(ctx)
	}
	if !run.hasHighConfidence() {
		run.scanAnchors(ctx)
	}
	if !run.hasHighConfidence() {
		run.probe(ctx, hostSpecificPaths(base), domain.DiscoveryCommonPath, confidenceCommonPath)
		run.probe(ctx, commonPaths, domain.DiscoveryCommonPath, confidenceCommonPath)
	}

	sort.SliceStable(run.candidates, func(i, j int) bool {
		return run.candidates[i].Confidence > run.candidates[j].Confidence
	})

	outcome := &interfaces.DiscoveryOutcome{Candidates: run.candidates}
	switch len(run.candidates) {
	case 0:
		outcome.Suggestions = []string{
			"No feeds were found on this site",
			"The site may not publish a syndication feed",
		}
	case 1:
		outcome.Suggestions = []string{"Found one feed for this site"}
	default:
		outcome.Suggestions = []string{fmt.Sprintf("Found %d candidate feeds; pick one", len(run.candidates))}
	}
	return outcome, nil
}

// discoveryRun accumulates state for a single invocation.
type discoveryRun struct {
	engine     *Engine
	base       *url.URL
	candidates []domain.DiscoveredFeedCandidate
	seen       map[string]bool
	page       []byte
	pageLoaded bool
}

func (r *discoveryRun) hasHighConfidence() bool {
	for _, c := range r.candidates {
		if c.Confidence >= highConfidence {
			return true
		}
	}
	return false
}

// probe tries each path against the site origin and keeps those that parse
// as feeds.
func (r *discoveryRun) probe(ctx context.Context, paths []string, method domain.DiscoveryMethod, confidence float64) {
	origin := r.base.Scheme + "://" + r.base.Host
	for _, path := range paths {
		if len(r.candidates) >= maxCandidates {
			return
		}
		r.tryCandidate(ctx, origin+path, method, confidence)
	}
}

// scanLinkTags fetches the page and reads <link rel="alternate"> elements.
func (r *discoveryRun) scanLinkTags(ctx context.Context) {
	page := r.fetchPage(ctx)
	if page == nil {
		return
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return
	}

	doc.Find(`link[rel="alternate"][type="application/rss+xml"], link[rel="alternate"][type="application/atom+xml"]`).
		Each(func(_ int, s *goquery.Selection) {
			href, exists := s.Attr("href")
			if !exists || len(r.candidates) >= maxCandidates {
				return
			}
			r.tryCandidate(ctx, r.resolve(href), domain.DiscoveryLinkTag, confidenceLinkTag)
		})
}

// scanAnchors walks the page HTML looking for feed-like anchor hrefs.
func (r *discoveryRun) scanAnchors(ctx context.Context) {
	page := r.fetchPage(ctx)
	if page == nil {
		return
	}

	doc, err := html.Parse(strings.NewReader(string(page)))
	if err != nil {
		return
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && looksLikeFeedURL(attr.Val) && len(r.candidates) < maxCandidates {
					r.tryCandidate(ctx, r.resolve(attr.Val), domain.DiscoveryHTMLParse, confidenceHTMLParse)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// tryCandidate fetches candidate, verifies it parses as a feed and records it.
// Candidates that do not parse are dropped silently; discovery surfaces no
// false leads.
func (r *discoveryRun) tryCandidate(ctx context.Context, candidate string, method domain.DiscoveryMethod, confidence float64) {
	key := normalizeURL(candidate)
	if key == "" || r.seen[key] {
		return
	}
	r.seen[key] = true

	resp, err := r.engine.deps.HTTPClient.Get(ctx, candidate)
	if err != nil {
		return
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodySize))
	if err != nil {
		return
	}

	info, err := r.engine.parser.Parse(content)
	if err != nil || !info.IsValid {
		return
	}

	r.candidates = append(r.candidates, domain.DiscoveredFeedCandidate{
		URL:         candidate,
		Title:       info.Title,
		Description: info.Description,
		Method:      method,
		Confidence:  confidence,
	})
}

// fetchPage loads the site page once per run.
func (r *discoveryRun) fetchPage(ctx context.Context) []byte {
	if r.pageLoaded {
		return r.page
	}
	r.pageLoaded = true

	resp, err := r.engine.deps.HTTPClient.Get(ctx, r.base.String())
	if err != nil {
		return nil
	}
	defer resp.Body().Close()

	if resp.StatusCode() != 200 {
		return nil
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body(), maxBodySize))
	if err != nil {
		return nil
	}
	r.page = page
	return r.page
}

func (r *discoveryRun) resolve(href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return r.base.ResolveReference(ref).String()
}

// hostSpecificPaths returns platform conventions for well-known hosts.
func hostSpecificPaths(base *url.URL) []string {
	host := strings.TrimPrefix(base.Hostname(), "www.")
	switch host {
	case "github.com":
		// GitHub serves Atom feeds for repository commits
		return []string{strings.TrimRight(base.Path, "/") + "/commits/master.atom"}
	case "reddit.com":
		return []string{strings.TrimRight(base.Path, "/") + "/.rss"}
	}
	return nil
}

func looksLikeFeedURL(href string) bool {
	h := strings.ToLower(href)
	if strings.HasPrefix(h, "mailto:") || strings.HasPrefix(h, "javascript:") {
		return false
	}
	return strings.HasSuffix(h, ".xml") ||
		strings.HasSuffix(h, ".rss") ||
		strings.HasSuffix(h, ".atom") ||
		strings.Contains(h, "/feed") ||
		strings.Contains(h, "/rss") ||
		strings.Contains(h, "format=rss")
}

// normalizeURL produces the dedupe key for a candidate URL.
func normalizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	u.Fragment = ""
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimRight(u.Path, "/")
	return u.String()
}
