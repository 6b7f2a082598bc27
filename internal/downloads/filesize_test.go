/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package downloads

import "testing"

func TestFileSize(t *testing.T) {
	tests := []struct {
		quality  string
		isSeries bool
		want     string
	}{
		{"HD", false, "0.5 GB"},
		{"Full HD", false, "1.0 GB"},
		{"4K", false, "2.0 GB"},
		{"HD", true, "0.8 GB"},
		{"Full HD", true, "1.6 GB"},
		{"4K", true, "3.2 GB"},
		{"720p", false, "0.5 GB"},
		{"", true, "0.8 GB"},
	}
	for _, tt := range tests {
		if got := FileSize(tt.quality, tt.isSeries); got != tt.want {
			t.Errorf("FileSize(%q, %v) = %q, want %q", tt.quality, tt.isSeries, got, tt.want)
		}
	}
}
