package logger

import (
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"
	"github.com/urfave/cli/v2"
)

//go:generate mockgen -source logger.go -destination logger_mock.go -package logger

// Logger is the subset of *logging.Logger used across the simulator.
type Logger interface {
	Critical(args ...interface{})
	Criticalf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Warning(args ...interface{})
	Warningf(format string, args ...interface{})
	Notice(args ...interface{})
	Noticef(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	IsEnabledFor(level logging.Level) bool
}

const defaultLogFormat = "%{color}%{time:15:04:05.000} %{module} %{level:.4s}%{color:reset} %{message}"

// LogLevelFlag is the shared command-line flag selecting the log level.
var LogLevelFlag = cli.StringFlag{
	Name:    "log",
	Aliases: []string{"l"},
	Usage:   "level of the logging of the app action (\"critical\", \"error\", \"warning\", \"notice\", \"info\", \"debug\"; default: INFO)",
	Value:   "info",
}

// NewLogger provides a new instance of the Logger based on context flags.
// An unknown level falls back to INFO.
func NewLogger(level string, module string) Logger {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatter := logging.NewBackendFormatter(backend, logging.MustStringFormatter(defaultLogFormat))
	leveled := logging.AddModuleLevel(formatter)

	lvl, err := logging.LogLevel(strings.ToUpper(level))
	if err != nil {
		lvl = logging.INFO
	}
	leveled.SetLevel(lvl, module)

	log := logging.MustGetLogger(module)
	log.SetBackend(leveled)
	return log
}

// ParseTime splits an elapsed duration into hours, minutes and seconds.
func ParseTime(elapsed time.Duration) (uint32, uint32, uint32) {
	var (
		hours, minutes, seconds uint32
	)

	seconds = uint32(elapsed.Round(time.Second).Seconds())

	if seconds >= 60 {
		minutes = seconds / 60
		seconds %= 60
	}

	if minutes >= 60 {
		hours = minutes / 60
		minutes %= 60
	}

	return hours, minutes, seconds
}
