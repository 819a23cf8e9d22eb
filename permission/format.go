package permission

import "regexp"

// segmentPattern constrains each resource and action segment: a leading
// letter followed by letters, digits, underscores, or hyphens.
var segmentPattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_-]*$`)

// ValidateFormat reports whether a pattern is well formed. Accepted shapes
// are exactly "*", "<resource>:*", and "<resource>:<action>". Everything
// else — empty strings, bare resources, empty segments, extra colons — is
// rejected.
func ValidateFormat(pattern string) bool {
	if pattern == "*" {
		return true
	}

	colon := -1
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != ':' {
			continue
		}
		if colon >= 0 {
			return false
		}
		colon = i
	}
	if colon < 0 {
		return false
	}

	resource, action := pattern[:colon], pattern[colon+1:]
	if !segmentPattern.MatchString(resource) {
		return false
	}
	return action == "*" || segmentPattern.MatchString(action)
}
