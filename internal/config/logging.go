package config

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger returns a timestamped logger writing to w. LOG_LEVEL selects
// the level (debug, info, warn, error); unknown values mean info.
func NewLogger(w io.Writer) *log.Logger {
	level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
}
