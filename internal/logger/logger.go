package logger

import (
	"github.com/sirupsen/logrus"
)

// Log единый логгер приложения.
var Log *logrus.Logger

// Init настраивает логгер под окружение: JSON-формат с уровнем info в
// production, текстовый формат с debug-уровнем при разработке.
func Init(env string) {
	Log = logrus.New()

	if env == "development" {
		Log.SetLevel(logrus.DebugLevel)
		Log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}

	Log.SetLevel(logrus.InfoLevel)
	Log.SetFormatter(&logrus.JSONFormatter{})
}
