/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package backup

import (
	"context"
	"time"
)

// RunAutoBackup writes an archive on a fixed interval until the context is
// cancelled. Failures are logged and retried on the next tick. A nil
// isLeader means single-instance mode; otherwise ticks are skipped while
// another instance holds the lease.
func (s *Service) RunAutoBackup(ctx context.Context, every time.Duration, isLeader func() bool) {
	s.logger.Info().Dur("interval", every).Msg("auto backup started")

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("auto backup stopped")
			return
		case <-ticker.C:
			if isLeader != nil && !isLeader() {
				continue
			}
			if _, err := s.Create(ctx); err != nil {
				s.logger.Error().Err(err).Msg("auto backup failed")
			}
		}
	}
}
