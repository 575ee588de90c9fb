package log

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Logger interface {
	Trace(message string, opts ...interface{})
	Debug(message string, opts ...interface{})
	Info(message string, opts ...interface{})
	Warning(message string, opts ...interface{})
	Error(message string, opts ...interface{})
	Fatal(message string, opts ...interface{})
	Child(opts ...interface{}) Logger
}

type ChildLogger struct {
	l      Logger
	fields []interface{}
}

func (c *ChildLogger) Trace(message string, opts ...interface{}) {
	c.l.Trace(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Debug(message string, opts ...interface{}) {
	c.l.Debug(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Info(message string, opts ...interface{}) {
	c.l.Info(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Warning(message string, opts ...interface{}) {
	c.l.Warning(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Error(message string, opts ...interface{}) {
	c.l.Error(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Fatal(message string, opts ...interface{}) {
	c.l.Fatal(message, append(opts, c.fields...)...)
}

func (c *ChildLogger) Child(opts ...interface{}) Logger {
	return &ChildLogger{
		l:      c,
		fields: opts,
	}
}

type rootLogger struct {
	base *logrus.Logger
}

func (r *rootLogger) Trace(message string, opts ...interface{}) {
	r.log(logrus.TraceLevel, message, opts)
}

func (r *rootLogger) Debug(message string, opts ...interface{}) {
	r.log(logrus.DebugLevel, message, opts)
}

func (r *rootLogger) Info(message string, opts ...interface{}) {
	r.log(logrus.InfoLevel, message, opts)
}

func (r *rootLogger) Warning(message string, opts ...interface{}) {
	r.log(logrus.WarnLevel, message, opts)
}

func (r *rootLogger) Error(message string, opts ...interface{}) {
	r.log(logrus.ErrorLevel, message, opts)
}

func (r *rootLogger) Fatal(message string, opts ...interface{}) {
	r.log(logrus.FatalLevel, message, opts)
}

func (r *rootLogger) Child(opts ...interface{}) Logger {
	return &ChildLogger{
		l:      r,
		fields: opts,
	}
}

func (r *rootLogger) log(level logrus.Level, message string, opts []interface{}) {
	if len(opts)%2 != 0 {
		panic("mismatched log key/value pairs")
	}

	fields := make(logrus.Fields, len(opts)/2)
	for i := 0; i < len(opts); i += 2 {
		key, ok := opts[i].(string)
		if !ok {
			panic("log keys must be strings")
		}
		fields[key] = opts[i+1]
	}

	entry := r.base.WithFields(fields)
	if level == logrus.FatalLevel {
		entry.Fatal(message)
		return
	}
	entry.Log(level, message)
}

var root = &rootLogger{base: logrus.StandardLogger()}

// SetLevel sets the minimum level for every module logger.
func SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrap(err, "invalid log level")
	}
	root.base.SetLevel(lvl)
	return nil
}

func SetOutput(w io.Writer) {
	root.base.SetOutput(w)
}

func ModuleLogger(name string) Logger {
	return root.Child("module", name)
}
