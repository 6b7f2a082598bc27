/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package downloads

import "fmt"

// FileSize derives the displayed size label from quality and content kind.
// Unknown qualities fall back to the base size.
func FileSize(quality string, isSeries bool) string {
	base := 0.5
	if isSeries {
		base = 0.8
	}
	switch quality {
	case "4K":
		return fmt.Sprintf("%.1f GB", base*4)
	case "Full HD":
		return fmt.Sprintf("%.1f GB", base*2)
	case "HD":
		return fmt.Sprintf("%.1f GB", base)
	default:
		return fmt.Sprintf("%.1f GB", base)
	}
}
