package richtext

import (
	"regexp"
	"strings"
)

var urlRe = regexp.MustCompile(`((http|https)://\S*)`)

// SplitSeparator divides the sections of a description that can be split
// into separate activities.
const SplitSeparator = "\n---\n"

// CreateAnchors rewrites plain http(s) URLs into HTML anchors.
func CreateAnchors(text string) string {
	return urlRe.ReplaceAllString(text,
		`<a href="$1" target="_blank" rel="noopener">$1</a>`)
}

// SplitSections cuts text on the split separator, dropping blank parts.
func SplitSections(text string) []string {
	var sections []string
	for _, part := range strings.Split(text, SplitSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		sections = append(sections, part)
	}
	return sections
}
