// README: Logrus setup shared by the API server and middleware.
package infra

import (
	"github.com/sirupsen/logrus"
)

func NewLogger(level string, jsonFormat bool) *logrus.Logger {
	log := logrus.New()
	if jsonFormat {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}
