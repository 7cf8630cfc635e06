package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/logdyhq/logdy-core/logdy"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"janken-relay-go/internal/config"
)

// ParseLevel maps LOG_LEVEL values, including uvicorn-style names such as
// "warning" and "critical", to zerolog levels.
func ParseLevel(s string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warning":
		return zerolog.WarnLevel, nil
	case "critical":
		return zerolog.FatalLevel, nil
	case "trace":
		return zerolog.TraceLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(s))
}

// Setup installs the global logger: console output on stderr, plus a rotating
// file when LOG_FILE is set and the Logdy UI when enabled.
func Setup(cfg *config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}}

	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    100,
			MaxAge:     7,
			MaxBackups: 3,
		})
	}

	var logdyURL string
	if cfg.LogdyEnabled {
		var w io.Writer
		w, logdyURL = startLogdy(cfg)
		writers = append(writers, w)
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
	if logdyURL != "" {
		log.Info().Str("url", logdyURL).Msg("Logdy UI available")
	}

	level, err := ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
}

// logdyWriter forwards each JSON log line to the embedded Logdy UI.
type logdyWriter struct {
	ui logdy.Logdy
}

func (w logdyWriter) Write(p []byte) (int, error) {
	w.ui.LogString(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

func startLogdy(cfg *config.Config) (io.Writer, string) {
	port := strconv.Itoa(cfg.LogdyPort)
	ui := logdy.InitializeLogdy(logdy.Config{
		ServerIp:   cfg.LogdyHost,
		ServerPort: port,
	}, nil)
	return logdyWriter{ui: ui}, fmt.Sprintf("http://%s:%s", cfg.LogdyHost, port)
}
