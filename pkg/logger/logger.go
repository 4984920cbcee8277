package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var log *logrus.Logger

// Init initializes the logger from LOG_LEVEL and LOG_FORMAT
func Init() {
	Configure(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

// Configure (re)initializes the logger with an explicit level and format.
// Format is "json" or "text"; anything else falls back to text.
func Configure(level, format string) {
	log = logrus.New()

	// Set output to stdout
	log.SetOutput(os.Stdout)

	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		log.SetLevel(logrus.DebugLevel)
	case "info":
		log.SetLevel(logrus.InfoLevel)
	case "warn", "warning":
		log.SetLevel(logrus.WarnLevel)
	case "error":
		log.SetLevel(logrus.ErrorLevel)
	default:
		log.SetLevel(logrus.InfoLevel)
	}

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		log.SetFormatter(&logrus.TextFormatter{
			DisableTimestamp: true,
		})
	}

	// Surface problems as workflow annotations when running inside GitHub Actions
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		log.AddHook(NewActionsHook(os.Stdout))
	}
}

// GetLogger returns the configured logger instance
func GetLogger() *logrus.Logger {
	if log == nil {
		Init()
	}
	return log
}

// WithError adds an error field to the logger
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}

// ActionsHook mirrors warnings and errors as GitHub Actions workflow commands
type ActionsHook struct {
	out io.Writer
}

// NewActionsHook creates a hook writing workflow commands to out
func NewActionsHook(out io.Writer) *ActionsHook {
	return &ActionsHook{out: out}
}

// Levels implements logrus.Hook
func (h *ActionsHook) Levels() []logrus.Level {
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
		logrus.WarnLevel,
	}
}

// Fire implements logrus.Hook
func (h *ActionsHook) Fire(entry *logrus.Entry) error {
	command := "warning"
	if entry.Level <= logrus.ErrorLevel {
		command = "error"
	}
	_, err := fmt.Fprintf(h.out, "::%s::%s\n", command, escapeCommandData(entry.Message))
	return err
}

func escapeCommandData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}
