package driver_badgerdb

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// badgerLogger routes BadgerDB's internal logging through zerolog.
type badgerLogger struct{}

func badgerdbLogger() *badgerLogger {
	return &badgerLogger{}
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	log.Error().Msgf("badgerdb: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	log.Warn().Msgf("badgerdb: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	log.Info().Msgf("badgerdb: "+strings.TrimSpace(format), args...)
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	log.Debug().Msgf("badgerdb: "+strings.TrimSpace(format), args...)
}
