package logging

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

const (
	// EnvLogLevel selects the log level, optionally as "json:<level>".
	EnvLogLevel = "APPHOST_LOG_LEVEL"
	// EnvLogPath redirects log output to a file, appending.
	EnvLogPath = "APPHOST_LOG_PATH"
)

// Level is a resolved log level and where it came from.
type Level struct {
	Name   string
	JSON   bool
	Source string
}

// ResolveLevel picks the log level from the CLI value, then APPHOST_LOG_LEVEL,
// then the fallback. A "json" or "json:<level>" value switches to JSON output.
func ResolveLevel(cliLevel, fallback string) Level {
	raw, source := cliLevel, "CLI --log-level"
	if raw == "" {
		if env := os.Getenv(EnvLogLevel); env != "" {
			raw, source = env, EnvLogLevel
		} else {
			raw, source = fallback, "default"
		}
	}

	lvl := Level{Name: raw, Source: source}
	if strings.HasPrefix(raw, "json") {
		lvl.JSON = true
		lvl.Name = "info"
		if parts := strings.SplitN(raw, ":", 2); len(parts) == 2 && parts[1] != "" {
			lvl.Name = parts[1]
		}
	}
	return lvl
}

// NewLogger creates an hclog logger with standard settings. A nil output
// means stderr, or the file named by APPHOST_LOG_PATH when set.
func NewLogger(name string, lvl Level, output io.Writer) hclog.Logger {
	if output == nil {
		output = os.Stderr
		if logPath := os.Getenv(EnvLogPath); logPath != "" {
			if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
				output = file
			}
		}
	}

	// ASCII prefix on Windows consoles, emoji elsewhere
	if !lvl.JSON {
		prefix := "[HOST] "
		if runtime.GOOS != "windows" {
			prefix = "🔗 "
		}
		output = NewPrefixWriter(prefix, output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(lvl.Name),
		JSONFormat: lvl.JSON,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z", // UTC ISO format
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}
