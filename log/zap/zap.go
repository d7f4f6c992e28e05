// Package zap adapts a *zap.Logger to typedis.Logger.
package zap

import (
	"github.com/unkn0wn-root/typedis"
	"go.uber.org/zap"
)

var _ typedis.Logger = Logger{}

type Logger struct{ L *zap.Logger }

// New names the logger "typedis". A nil l logs nothing.
func New(l *zap.Logger) Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return Logger{L: l.Named("typedis")}
}

func (z Logger) Debug(msg string, f typedis.Fields) { z.L.Debug(msg, zf(f)...) }
func (z Logger) Info(msg string, f typedis.Fields)  { z.L.Info(msg, zf(f)...) }
func (z Logger) Warn(msg string, f typedis.Fields)  { z.L.Warn(msg, zf(f)...) }
func (z Logger) Error(msg string, f typedis.Fields) { z.L.Error(msg, zf(f)...) }

func zf(f typedis.Fields) []zap.Field {
	if len(f) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(f))
	for k, v := range f {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
