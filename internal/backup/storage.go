/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package backup

import "context"

// Storage persists backup archives. Implementations exist for the local
// filesystem and S3-compatible object stores.
type Storage interface {
	// Save writes one archive under the given name.
	Save(ctx context.Context, name string, data []byte) error
	// Load reads one archive back.
	Load(ctx context.Context, name string) ([]byte, error)
	// List returns archive names, newest first.
	List(ctx context.Context) ([]string, error)
}
