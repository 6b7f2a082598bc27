/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package models

import (
	"strconv"
	"time"
)

// TimeID renders a creation timestamp as the millisecond string used for
// content and taxonomy ids. Two creations within the same millisecond
// collide; callers that need distinct ids are expected to pass distinct
// timestamps.
func TimeID(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 10)
}
