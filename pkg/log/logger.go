package log

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/op/go-logging"
)

// Level orders messages from most to least verbose
type Level logging.Level

const (
	Debug Level = iota
	Info
	Notice
	Warning
	Error
)

var levelNames = []string{"debug", "info", "notice", "warning", "error"}

// String returns the lower case level name
func (l Level) String() string {
	if int(l) < 0 || int(l) >= len(levelNames) {
		return fmt.Sprintf("level(%d)", int(l))
	}
	return levelNames[l]
}

// ParseLevel maps a level name, in any case, to its Level
func ParseLevel(name string) (Level, error) {
	for i, levelName := range levelNames {
		if strings.EqualFold(name, levelName) {
			return Level(i), nil
		}
	}
	return Notice, fmt.Errorf("unknown log level %q", name)
}

var format = logging.MustStringFormatter(
	`%{color}%{time:15:04:05.000} %{level:.4s} [%{module}]%{color:reset} %{message}`,
)

// Every module logs through this backend; SetSink replaces it.
var leveledBackend logging.LeveledBackend

// Logger is what tree building, sampling and scene loading log through.
// go-logging's *Logger satisfies it.
type Logger interface {
	Debug(v ...interface{})
	Debugf(format string, v ...interface{})

	Info(v ...interface{})
	Infof(format string, v ...interface{})

	Notice(v ...interface{})
	Noticef(format string, v ...interface{})

	Warning(v ...interface{})
	Warningf(format string, v ...interface{})

	Error(v ...interface{})
	Errorf(format string, v ...interface{})
}

// New returns the logger of module, such as "lighttree" or "scene"
func New(module string) Logger {
	return logging.MustGetLogger(module)
}

// SetSink sends all modules to sink, keeping the current level
func SetSink(sink io.Writer) {
	level := logging.NOTICE
	if leveledBackend != nil {
		level = leveledBackend.GetLevel("")
	}
	formatted := logging.NewBackendFormatter(logging.NewLogBackend(sink, "", 0), format)
	leveledBackend = logging.AddModuleLevel(formatted)
	leveledBackend.SetLevel(level, "")
	logging.SetBackend(leveledBackend)
}

// SetLevel drops messages below level for every module
func SetLevel(level Level) {
	leveledBackend.SetLevel(toBackendLevel(level), "")
}

// IsEnabledFor reports whether module emits messages at level
func IsEnabledFor(level Level, module string) bool {
	return leveledBackend.IsEnabledFor(toBackendLevel(level), module)
}

func toBackendLevel(level Level) logging.Level {
	switch level {
	case Debug:
		return logging.DEBUG
	case Info:
		return logging.INFO
	case Warning:
		return logging.WARNING
	case Error:
		return logging.ERROR
	default:
		return logging.NOTICE
	}
}

func init() {
	SetSink(os.Stderr)
}
