package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the process-wide logger. It is usable before Init and logs at
// info level until then.
var Logger = logrus.New()

// Init configures Logger to write text lines to stderr at the named level.
func Init(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	Logger.SetLevel(lvl)
	return nil
}
