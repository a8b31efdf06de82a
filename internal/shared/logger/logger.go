package logger

import (
	"fmt"
	"io"
	"os"
	"proxycheck/internal/shared/types"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global zerolog logger.
func Init(cfg types.LogConf) error {
	return InitWithWriter(cfg, os.Stderr)
}

// InitWithWriter is Init with an explicit console destination.
func InitWithWriter(cfg types.LogConf, out io.Writer) error {
	levelStr := strings.ToLower(cfg.Level)
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil || levelStr == "" {
		level = zerolog.InfoLevel
		if levelStr != "" {
			fmt.Fprintf(os.Stderr, "Unknown log level '%s', defaulting to 'info'\n", levelStr)
		}
	}

	// Force all timestamps to be in UTC.
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
	}

	log.Logger = zerolog.New(consoleWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	Debug().Msgf("Logger initialized with level: %s", level.String())
	return nil
}

// WithComponent 返回带有 component 字段的子 logger，用于区分不同模块的输出。
func WithComponent(name string) zerolog.Logger {
	return log.Logger.With().Str("component", name).Logger()
}

// Event 包装一次 zerolog 事件，供 cmd 层在全局 logger 上直接记录，
// 不需要 component 字段时使用。
type Event struct {
	e *zerolog.Event
}

func Debug() *Event { return &Event{log.Debug()} }
func Info() *Event  { return &Event{log.Info()} }
func Warn() *Event  { return &Event{log.Warn()} }
func Error() *Event { return &Event{log.Error()} }

func (ev *Event) Str(key, value string) *Event {
	ev.e = ev.e.Str(key, value)
	return ev
}

func (ev *Event) Int(key string, value int) *Event {
	ev.e = ev.e.Int(key, value)
	return ev
}

func (ev *Event) Dur(key string, d time.Duration) *Event {
	ev.e = ev.e.Dur(key, d)
	return ev
}

func (ev *Event) Err(err error) *Event {
	ev.e = ev.e.Err(err)
	return ev
}

// Msg sends the event. A nil inner event (level disabled) is a no-op in zerolog.
func (ev *Event) Msg(msg string) {
	ev.e.Msg(msg)
}

func (ev *Event) Msgf(format string, v ...interface{}) {
	ev.e.Msgf(format, v...)
}
