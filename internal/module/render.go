package module

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// cacheBadge is prepended to tab content served from the backend cache.
const cacheBadge = "`cached` "

// withCacheBadge marks markdown content as a cache hit.
func withCacheBadge(content string, fromCache bool) string {
	if !fromCache {
		return content
	}
	return cacheBadge + "_served from cache_\n\n" + content
}

// researchDataMarkdown formats the raw research payload as markdown.
// Scalar values become a definition list; structured values are shown
// as fenced JSON so nothing is lost.
func researchDataMarkdown(data map[string]any) string {
	if len(data) == 0 {
		return "_No research data returned._"
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("## Research Data\n\n")
	for _, k := range keys {
		switch v := data[k].(type) {
		case string:
			fmt.Fprintf(&b, "**%s**: %s\n\n", k, v)
		case float64, int, bool:
			fmt.Fprintf(&b, "**%s**: %v\n\n", k, v)
		default:
			enc, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				fmt.Fprintf(&b, "**%s**: %v\n\n", k, v)
				continue
			}
			fmt.Fprintf(&b, "**%s**:\n\n```json\n%s\n```\n\n", k, enc)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
