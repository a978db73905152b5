package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const DefaultLevel = logrus.WarnLevel

// New returns a text logger writing to w. An empty level means warn.
func New(w io.Writer, level string) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		QuoteEmptyFields: true,
	})

	parsed := DefaultLevel
	if level = strings.TrimSpace(level); level != "" {
		var err error
		parsed, err = logrus.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level, err)
		}
	}
	logger.SetLevel(parsed)

	return logger, nil
}

// WithRun tags every entry of one invocation with the same run_id.
func WithRun(logger *logrus.Logger) *logrus.Entry {
	return logger.WithField("run_id", uuid.NewString())
}
