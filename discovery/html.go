package discovery

import (
	"regexp"
	"strings"
)

// Link relations checked in order; the 2.0 relation wins over the legacy
// 1.x one.
var (
	providerLinkPatterns = []*regexp.Regexp{
		linkPattern("openid2.provider"),
		linkPattern("openid.server"),
	}
	delegateLinkPatterns = []*regexp.Regexp{
		linkPattern("openid2.local_id"),
		linkPattern("openid.delegate"),
	}

	hrefDoubleQuoted = regexp.MustCompile(`href="([^"]+)"`)
	hrefSingleQuoted = regexp.MustCompile(`href='([^']+)'`)
)

func linkPattern(rel string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<link[^>]+rel=["']` + regexp.QuoteMeta(rel) + `["'][^>]*>`)
}

// HTMLResolver scans raw HTML for OpenID <link> markup. A full HTML
// parse buys nothing here and behaves worse against the malformed pages
// some providers serve, so the tag patterns are matched directly.
type HTMLResolver struct{}

// Resolve extracts the provider endpoint from the page's link markup,
// plus the delegate identifier when the page advertises one. It returns
// nil when no provider link is present.
func (*HTMLResolver) Resolve(resp *Response) *Server {
	body := string(resp.Body)

	endpoint := findLinkHref(body, providerLinkPatterns)
	if endpoint == "" {
		return nil
	}

	return &Server{
		Endpoint: endpoint,
		Delegate: findLinkHref(body, delegateLinkPatterns),
	}
}

func findLinkHref(body string, patterns []*regexp.Regexp) string {
	for _, p := range patterns {
		tag := p.FindString(body)
		if tag == "" {
			continue
		}
		if m := hrefDoubleQuoted.FindStringSubmatch(tag); m != nil {
			return strings.TrimSpace(m[1])
		}
		if m := hrefSingleQuoted.FindStringSubmatch(tag); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}
