package extraction

import (
	"regexp"
	"strings"
)

var bulletPattern = regexp.MustCompile(`^\s*[-*+•]\s*`)

// ParseBullets extracts the items of a bulleted list from LLM output.
// Lines not starting with a bullet marker (including sentinel replies
// like "No action items identified.") are dropped, so the result is
// always a well-formed, possibly empty, list.
func ParseBullets(text string) []string {
	items := []string{}
	for _, line := range strings.Split(text, "\n") {
		if !bulletPattern.MatchString(line) {
			continue
		}
		item := strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
