package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = newLogger(false, false)

// newLogger builds the process logger: JSON in production, console otherwise.
func newLogger(production, verbose bool) *zap.SugaredLogger {
	var cfg zap.Config
	if production {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		if !verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		}
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// initLogger replaces the process logger once configuration is known.
func initLogger(production, verbose bool) {
	_ = logger.Sync()
	logger = newLogger(production, verbose)
}

// logCtx returns the logger tagged with the request id carried by ctx, if any.
func logCtx(ctx context.Context) *zap.SugaredLogger {
	if reqID, _ := ctx.Value(requestIDKey).(string); reqID != "" {
		return logger.With("request_id", reqID)
	}
	return logger
}

// logInfo logs an info-level message.
func logInfo(format string, v ...any) {
	logger.Infof(format, v...)
}

// logWarn logs a warning-level message.
func logWarn(format string, v ...any) {
	logger.Warnf(format, v...)
}

// logError logs an error-level message.
func logError(format string, v ...any) {
	logger.Errorf(format, v...)
}

// logFatal logs a fatal error and exits.
func logFatal(format string, v ...any) {
	logger.Fatalf(format, v...)
}

// dirExists returns true if the given path exists and is a directory.
func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false
		}
		logWarn("Error checking directory existence: %v", err)
		return false
	}
	return info.IsDir()
}

// formatUptime returns a human-readable string for a duration.
func formatUptime(d time.Duration) string {
	seconds := int(d.Seconds()) % 60
	minutes := int(d.Minutes()) % 60
	hours := int(d.Hours())
	switch {
	case hours > 0:
		return fmt.Sprintf("%d hour%s, %d minute%s, %d second%s",
			hours, plural(hours),
			minutes, plural(minutes),
			seconds, plural(seconds))
	case minutes > 0:
		return fmt.Sprintf("%d minute%s, %d second%s",
			minutes, plural(minutes),
			seconds, plural(seconds))
	default:
		return fmt.Sprintf("%d second%s", seconds, plural(seconds))
	}
}

// plural returns "s" if n != 1, otherwise "".
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// parseInt parses the leading integer of a string, ignoring surrounding
// whitespace and any trailing non-digits ("42pts" -> 42).
func parseInt(val string) (int, error) {
	s := strings.TrimSpace(val)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("parseInt: %q has no leading integer", val)
	}
	return strconv.Atoi(s[:end])
}
