// Package config reads the handful of environment variables TimeCop
// honors. There is no on-disk settings file: every value here is read
// fresh from the process environment at startup.
package config

import (
	"os"
	"strings"
)

// LogLevel mirrors the RUST_LOG-style off|error|warn|info|debug scale.
type LogLevel int

const (
	LogOff LogLevel = iota
	LogError
	LogWarn
	LogInfo
	LogDebug
)

func (l LogLevel) String() string {
	switch l {
	case LogOff:
		return "off"
	case LogError:
		return "error"
	case LogWarn:
		return "warn"
	case LogInfo:
		return "info"
	case LogDebug:
		return "debug"
	default:
		return "warn"
	}
}

// Env is the resolved set of environment-derived settings for one run.
type Env struct {
	Editor   string
	NoColor  bool
	LogLevel LogLevel
	LogPath  string
}

const defaultEditor = "vi"

// Load reads EDITOR, NO_COLOR, and TIMECOP_LOG from the environment.
func Load() Env {
	return Env{
		Editor:   editorOrDefault(),
		NoColor:  envFlagSet("NO_COLOR"),
		LogLevel: parseLogLevel(os.Getenv("TIMECOP_LOG")),
		LogPath:  logPath(),
	}
}

func editorOrDefault() string {
	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		return defaultEditor
	}
	return editor
}

// envFlagSet matches NO_COLOR's convention: any non-empty value disables
// color, per https://no-color.org. Unlike a boolean flag there is no
// "off" spelling to recognize.
func envFlagSet(name string) bool {
	return strings.TrimSpace(os.Getenv(name)) != ""
}

func parseLogLevel(raw string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "off":
		return LogOff
	case "error":
		return LogError
	case "info":
		return LogInfo
	case "debug":
		return LogDebug
	case "warn", "":
		return LogWarn
	default:
		return LogWarn
	}
}

func logPath() string {
	dir := strings.TrimSpace(os.Getenv("TMPDIR"))
	if dir == "" {
		dir = os.TempDir()
	}
	return strings.TrimRight(dir, "/") + "/timecop.log"
}
