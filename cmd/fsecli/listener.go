package main

import (
	"github.com/sirupsen/logrus"

	fse "github.com/neal-burns/FiniteStateEntropy"
)

// logrusListener bridges the core's event bus (fse.Listener) to logrus,
// the one logging library the retrieved example repositories actually
// use (kpfaulkner-jxl-go's benchmarking entry point).
type logrusListener struct {
	log *logrus.Logger
}

func newLogrusListener(verbose bool) *logrusListener {
	log := logrus.New()

	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}

	return &logrusListener{log: log}
}

func (l *logrusListener) ProcessEvent(evt *fse.Event) {
	l.log.WithFields(logrus.Fields{
		"type": evt.Type(),
		"size": evt.Size(),
	}).Debug(evt.String())
}
