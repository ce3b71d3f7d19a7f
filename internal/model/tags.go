package model

import "strings"

// ParseTags splits a flat comma-separated tags string into trimmed,
// non-empty labels. Order is preserved and duplicates are kept; callers
// that need set semantics dedupe themselves.
func ParseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
