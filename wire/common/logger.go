package common

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"
)

// Loggers lists the names of all package loggers
var Loggers = []string{"arena", "schema", "serializer", "cli"}

// levelNames are the level labels in front of every line, indexed by logger.LogLevel
var levelNames = map[logger.LogLevel]string{
	logger.CRITICAL: "CRIT",
	logger.ERROR:    "ERROR",
	logger.WARNING:  "WARN",
	logger.INFO:     "INFO",
	logger.DEBUG:    "DEBUG",
}

// logOutput is shared by all package loggers. Buffers and rendered values go to stdout, the log
// goes to stderr.
var logOutput atomic.Pointer[log.Logger]

func init() {
	SetLogOutput(os.Stderr)
}

// SetLogOutput redirects every package logger to w
func SetLogOutput(w io.Writer) {
	logOutput.Store(log.New(w, "", log.Ldate|log.Ltime))
}

// pkgLogger is the logger.ILogger of one package. Lines look like
//
//	2024/01/02 15:04:05 WARN  | arena           | lease [0:4] overlaps live lease #1 [2:6]
type pkgLogger struct {
	name  string
	level atomic.Int32
}

// CreateLogger is the logger.Factory installed by InitLoggers
func CreateLogger(pkgName string) logger.ILogger {
	l := &pkgLogger{name: pkgName}
	l.level.Store(int32(logger.INFO))
	return l
}

func (l *pkgLogger) SetLevel(level logger.LogLevel) { l.level.Store(int32(level)) }

func (l *pkgLogger) Debugf(format string, args ...interface{}) { l.emit(logger.DEBUG, format, args) }

func (l *pkgLogger) Infof(format string, args ...interface{}) { l.emit(logger.INFO, format, args) }

func (l *pkgLogger) Warningf(format string, args ...interface{}) {
	l.emit(logger.WARNING, format, args)
}

func (l *pkgLogger) Errorf(format string, args ...interface{}) { l.emit(logger.ERROR, format, args) }

// Panicf logs at critical level and panics regardless of the configured level
func (l *pkgLogger) Panicf(format string, args ...interface{}) {
	l.emit(logger.CRITICAL, format, args)
	panic(fmt.Sprintf(format, args...))
}

func (l *pkgLogger) emit(level logger.LogLevel, format string, args []interface{}) {
	if logger.LogLevel(l.level.Load()) < level {
		return
	}
	logOutput.Load().Printf("%-5s | %-15s | %s", levelNames[level], l.name, fmt.Sprintf(format, args...))
}

// ParseLogLevel converts a level name (debug, info, warn, error) to a logger.LogLevel
func ParseLogLevel(level string) (logger.LogLevel, error) {
	switch strings.ToLower(level) {
	case "debug":
		return logger.DEBUG, nil
	case "info":
		return logger.INFO, nil
	case "warning", "warn":
		return logger.WARNING, nil
	case "error":
		return logger.ERROR, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// InitLoggers installs CreateLogger as the logger factory and sets the level of all package
// loggers from the config.
func InitLoggers(config Config) error {
	level, err := ParseLogLevel(config.LogLevel)
	if err != nil {
		return err
	}
	logger.SetLoggerFactory(CreateLogger)
	for _, name := range Loggers {
		logger.GetLogger(name).SetLevel(level)
	}
	return nil
}
