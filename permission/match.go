package permission

import "strings"

// Matches reports whether a single held pattern grants the requested
// capability. A pattern grants when it equals the capability exactly, when
// it is the global wildcard "*", or when it ends in ":*" and the capability
// shares the prefix up to and including the colon.
func Matches(capability, pattern string) bool {
	if pattern == capability || pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, ":*") {
		return strings.HasPrefix(capability, pattern[:len(pattern)-1])
	}
	return false
}

// Granted reports whether any held pattern grants the capability.
func Granted(held []string, capability string) bool {
	for _, pattern := range held {
		if Matches(capability, pattern) {
			return true
		}
	}
	return false
}

// HasAny reports whether at least one requested capability is granted by
// the held patterns. An empty request yields false.
func HasAny(held, requested []string) bool {
	for _, capability := range requested {
		if Granted(held, capability) {
			return true
		}
	}
	return false
}

// HasAll reports whether every requested capability is granted by the held
// patterns. An empty request yields true.
func HasAll(held, requested []string) bool {
	for _, capability := range requested {
		if !Granted(held, capability) {
			return false
		}
	}
	return true
}
