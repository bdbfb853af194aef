package logginghelpers

import (
	"fmt"
	"log/slog"
	"strings"
)

const (
	// Level Debug -4
	// outgoing calls to the booking api
	LevelReportIO slog.Level = -2
	// Level Info 0
	// Level Warn 4
	// Level Error 8
)

// ParseLevel understands the slog names plus "io" for LevelReportIO
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "io":
		return LevelReportIO, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func levelName(level slog.Level) string {
	if level == LevelReportIO {
		return "IO"
	}
	return level.String()
}
