package sanitizer

import (
	"regexp"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	emailPolicy  *bluemonday.Policy
	initOnce     sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()

		emailPolicy = bluemonday.NewPolicy()
		emailPolicy.AllowStandardURLs()
		emailPolicy.RequireNoFollowOnLinks(false)
		emailPolicy.AllowElements(
			"p", "br", "hr",
			"h1", "h2", "h3", "h4", "h5", "h6",
			"strong", "b", "em", "i", "del",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		emailPolicy.AllowAttrs("href").OnElements("a")
		emailPolicy.AllowAttrs("class").Matching(regexp.MustCompile(`^btn$`)).OnElements("a")
		emailPolicy.AllowAttrs("src", "alt", "title").OnElements("img")
	})
}

// EmailPolicy returns the shared policy used by EmailHTML.
// Callers must not modify it.
func EmailPolicy() *bluemonday.Policy {
	initPolicies()
	return emailPolicy
}

// EmailHTML keeps the markup produced by markdown rendering (headings, lists,
// tables, links, images, and button links with class="btn") and strips
// scripts, event handlers, styles and unsafe URLs.
func EmailHTML(s string) string {
	initPolicies()
	return emailPolicy.Sanitize(s)
}

// StripTags removes all HTML, leaving text content.
func StripTags(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}

// Custom applies a custom bluemonday policy.
// Returns input unchanged if policy is nil.
func Custom(s string, policy *bluemonday.Policy) string {
	if policy == nil {
		return s
	}
	return policy.Sanitize(s)
}
