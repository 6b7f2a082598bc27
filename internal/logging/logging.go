/*
Copyright (C) 2026 StreamSphere Hub Contributors

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/streamsphere/hub/internal/logbuffer"
)

// Setup configures zerolog for the process.
func Setup(environment string) zerolog.Logger {
	return SetupWithBuffer(environment, nil)
}

// SetupWithBuffer configures zerolog and, when buf is non-nil, tees every
// line into the ring buffer backing the admin log viewer.
func SetupWithBuffer(environment string, buf *logbuffer.Buffer) zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level := zerolog.InfoLevel
	if environment == "development" {
		level = zerolog.DebugLevel
	}

	var writer zerolog.LevelWriter = zerolog.MultiLevelWriter(zerolog.ConsoleWriter{Out: os.Stdout})
	if buf != nil {
		writer = zerolog.MultiLevelWriter(
			zerolog.ConsoleWriter{Out: os.Stdout},
			logbuffer.NewWriter(buf, nil),
		)
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger
}
