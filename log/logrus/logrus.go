// Package logrus adapts logrus to typedis.Logger.
package logrus

import (
	"github.com/sirupsen/logrus"
	"github.com/unkn0wn-root/typedis"
)

var _ typedis.Logger = Logger{}

type Logger struct{ E logrus.FieldLogger }

// New tags every entry with component=typedis.
func New(l logrus.FieldLogger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return Logger{E: l.WithField("component", "typedis")}
}

func (l Logger) Debug(msg string, f typedis.Fields) { l.with(f).Debug(msg) }
func (l Logger) Info(msg string, f typedis.Fields)  { l.with(f).Info(msg) }
func (l Logger) Warn(msg string, f typedis.Fields)  { l.with(f).Warn(msg) }
func (l Logger) Error(msg string, f typedis.Fields) { l.with(f).Error(msg) }

func (l Logger) with(f typedis.Fields) logrus.FieldLogger {
	if len(f) == 0 {
		return l.E
	}
	return l.E.WithFields(logrus.Fields(f))
}
