// Package sociallinks extracts streaming and social profile links from a
// Steam community profile page.
//
// Extraction is strictly allow-listed: only Twitch, YouTube, X/Twitter, and
// Kick links are reported. The profile summary block is preferred over the
// rest of the page so that links in comments or showcase items from other
// users are not attributed to the profile owner.
package sociallinks

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Link is a labeled social profile URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// MaxLinks bounds the number of links reported per profile.
const MaxLinks = 4

var (
	absoluteURLPattern = regexp.MustCompile(`(?i)\bhttps?://[^\s<>"']+`)
	bareHostPattern    = regexp.MustCompile(
		`(?i)\b(?:twitch\.tv|youtube\.com|youtu\.be|twitter\.com|x\.com|kick\.com)/[^\s<>"']+`)
)

// FromProfileHTML extracts up to MaxLinks allow-listed social links from a
// profile page. The summary block is tried first; only when it yields nothing
// is the full page scanned. Never errors: malformed HTML means no links.
func FromProfileHTML(pageHTML string) []Link {
	if pageHTML == "" {
		return nil
	}
	links := fromText(SummaryText(pageHTML))
	if len(links) == 0 {
		links = fromText(pageHTML)
	}
	links = dedupeByLabel(links)
	if len(links) > MaxLinks {
		links = links[:MaxLinks]
	}
	return links
}

// SummaryText returns the visible text of the profile_summary block,
// or "" when the page has none.
func SummaryText(pageHTML string) string {
	doc, err := html.Parse(strings.NewReader(pageHTML))
	if err != nil {
		return ""
	}
	node := findSummaryDiv(doc)
	if node == nil {
		return ""
	}
	var sb strings.Builder
	collectText(node, &sb)
	return strings.TrimSpace(sb.String())
}

func findSummaryDiv(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "div" {
		for _, attr := range n.Attr {
			if attr.Key == "class" && strings.Contains(attr.Val, "profile_summary") {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findSummaryDiv(c); found != nil {
			return found
		}
	}
	return nil
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch {
	case n.Type == html.TextNode:
		sb.WriteString(n.Data)
	case n.Type == html.ElementNode && (n.Data == "br" || n.Data == "p"):
		sb.WriteString("\n")
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

func fromText(text string) []Link {
	if text == "" {
		return nil
	}

	var candidates []string
	for _, raw := range absoluteURLPattern.FindAllString(text, -1) {
		if u := normalizeURL(raw); u != "" {
			candidates = append(candidates, u)
		}
	}
	for _, raw := range bareHostPattern.FindAllString(text, -1) {
		if u := normalizeURL(raw); u != "" {
			candidates = append(candidates, u)
		}
	}

	var links []Link
	seen := make(map[string]bool)
	for _, u := range candidates {
		parsed, err := url.Parse(u)
		if err != nil {
			continue
		}
		label := labelForHost(parsed.Hostname())
		if label == "" {
			continue
		}
		key := strings.ToLower(u)
		if seen[key] {
			continue
		}
		seen[key] = true
		links = append(links, Link{Label: label, URL: u})
	}
	return links
}

// normalizeURL adds a scheme to bare host links, strips trailing punctuation
// that regex capture tends to pick up, and rejects anything url.Parse cannot
// round-trip.
func normalizeURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(u), "http://") &&
		!strings.HasPrefix(strings.ToLower(u), "https://") {
		if !strings.Contains(u, ".") {
			return ""
		}
		u = "https://" + u
	}
	u = strings.TrimRight(u, "),.;")
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.String()
}

func labelForHost(hostname string) string {
	h := strings.ToLower(hostname)
	switch {
	case strings.Contains(h, "twitch.tv"):
		return "Twitch"
	case strings.Contains(h, "youtube.com"), strings.Contains(h, "youtu.be"):
		return "YouTube"
	case strings.Contains(h, "twitter.com"), strings.Contains(h, "x.com"):
		return "X"
	case strings.Contains(h, "kick.com"):
		return "Kick"
	}
	return ""
}

func dedupeByLabel(links []Link) []Link {
	seen := make(map[string]bool)
	var out []Link
	for _, l := range links {
		key := strings.ToLower(l.Label)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, l)
	}
	return out
}
