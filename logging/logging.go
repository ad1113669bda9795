// Component based logging for the datastore engine.
package logging

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	PathsComponent     = "paths"
	DatastoreComponent = "datastore"
	IndexComponent     = "index"

	mu       sync.Mutex
	root_log *logrus.Logger
)

func getRootLogger() *logrus.Logger {
	mu.Lock()
	defer mu.Unlock()

	if root_log == nil {
		root_log = logrus.New()
		root_log.Out = os.Stderr
		root_log.Level = logrus.InfoLevel
		root_log.Formatter = &logrus.TextFormatter{
			DisableColors:   true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05Z07:00",
		}
	}

	return root_log
}

// GetLogger returns a logger tagged with the component name. All
// components share the same sink and level.
func GetLogger(component string) *logrus.Entry {
	return getRootLogger().WithField("component", component)
}

// SetLevel adjusts verbosity globally. Tests use this to silence the
// debug trace of pattern matching.
func SetLevel(level logrus.Level) {
	getRootLogger().SetLevel(level)
}
