package logging

import (
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	gormlogger "gorm.io/gorm/logger"
)

// New builds the structured JSON logger shared by every component.
// An unknown level falls back to info.
func New(serviceName, level string) *logrus.Logger {
	return NewWithOutput(os.Stdout, serviceName, level)
}

func NewWithOutput(w io.Writer, serviceName, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339Nano,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "ts",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	logger.AddHook(serviceHook(serviceName))
	return logger
}

// serviceHook stamps every entry with the service name.
type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = string(h)
	return nil
}

// Gorm bridges GORM's SQL logger onto logger. SQL statements are only traced
// at debug level.
func Gorm(logger *logrus.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if logger.IsLevelEnabled(logrus.DebugLevel) {
		level = gormlogger.Info
	}
	return gormlogger.New(logger, gormlogger.Config{
		SlowThreshold:             time.Second, // Slow SQL threshold
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}
