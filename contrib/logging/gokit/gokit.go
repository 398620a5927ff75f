// Package gokit adapts a go-kit logger to the driver's Logger interface.
//
//	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
//	logger = level.NewFilter(logger, level.AllowInfo())
//	connector, _ := cassandra.NewConnector(uri, nil,
//	    cassandra.WithLogger(gokit.New(logger)),
//	)
package gokit

import (
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/EventConnectPlatform/ssl-cassandra-jdbc-driver/types"
)

// Logger writes driver log lines as go-kit key/value records with a "level"
// and a "msg" key.
type Logger struct {
	logger log.Logger
}

// Compile-time assertion that Logger implements types.Logger.
var _ types.Logger = (*Logger)(nil)

// New wraps logger. Level filtering is left to the go-kit level package.
func New(logger log.Logger) *Logger {
	return &Logger{logger: log.With(logger, "component", "cassandra")}
}

func (l *Logger) Debug(msg string, keysAndValues ...any) {
	l.log(level.Debug(l.logger), msg, keysAndValues)
}

func (l *Logger) Info(msg string, keysAndValues ...any) {
	l.log(level.Info(l.logger), msg, keysAndValues)
}

func (l *Logger) Warn(msg string, keysAndValues ...any) {
	l.log(level.Warn(l.logger), msg, keysAndValues)
}

func (l *Logger) Error(msg string, keysAndValues ...any) {
	l.log(level.Error(l.logger), msg, keysAndValues)
}

func (l *Logger) log(logger log.Logger, msg string, keysAndValues []any) {
	kv := make([]any, 0, len(keysAndValues)+3)
	kv = append(kv, "msg", msg)
	kv = append(kv, keysAndValues...)
	if len(keysAndValues)%2 != 0 {
		kv = append(kv, log.ErrMissingValue)
	}
	_ = logger.Log(kv...)
}
