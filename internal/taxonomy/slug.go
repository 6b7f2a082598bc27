/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package taxonomy

import "strings"

// Slugify derives a URL-safe identifier from a display name: lowercase,
// every run of characters outside [a-z0-9] collapses to a single hyphen,
// and edge hyphens are trimmed. Deterministic; no uniqueness guarantee.
func Slugify(name string) string {
	lowered := strings.ToLower(name)

	var b strings.Builder
	b.Grow(len(lowered))
	lastHyphen := false
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}

	return strings.Trim(b.String(), "-")
}
