package io


import (
	"fmt"

	"go.uber.org/zap"
)


// ----------------------------------------------------------------------------


// Return a `Logger` forwarding to `inner`.
// Global contexts become `zap` logger names and local contexts a `context`
// field. Trace messages are logged at debug level with a `trace` field.
//
func NewZapLogger(inner *zap.Logger) Logger {
	return newZapLogger(inner.Sugar(), "")
}


// ----------------------------------------------------------------------------


type zapLogger struct {
	base *zap.SugaredLogger
	inner *zap.SugaredLogger
	localContext string
}

func newZapLogger(base *zap.SugaredLogger, localContext string) *zapLogger {
	var this zapLogger

	this.base = base
	this.inner = base
	this.localContext = localContext

	if len(localContext) > 0 {
		this.inner = base.With("context", localContext)
	}

	return &this
}

func (this *zapLogger) Error(fstr string, args ...interface{}) {
	this.inner.Errorf(fstr, args...)
}

func (this *zapLogger) Warn(fstr string, args ...interface{}) {
	this.inner.Warnf(fstr, args...)
}

func (this *zapLogger) Info(fstr string, args ...interface{}) {
	this.inner.Infof(fstr, args...)
}

func (this *zapLogger) Debug(fstr string, args ...interface{}) {
	this.inner.Debugf(fstr, args...)
}

func (this *zapLogger) Trace(fstr string, args ...interface{}) {
	this.inner.Debugw(fmt.Sprintf(fstr, args...), "trace", true)
}

func (this *zapLogger) WithGlobalContext(name string, args ...interface{}) Logger {
	if len(args) > 0 {
		name = fmt.Sprintf(name, args...)
	}

	if len(name) == 0 {
		return this
	}

	return newZapLogger(this.base.Named(name), this.localContext)
}

func (this *zapLogger) WithLocalContext(name string, args ...interface{}) Logger {
	return newZapLogger(this.base,
		appendContext(this.localContext, name, args))
}

func (this *zapLogger) Emph(group int, arg interface{}) interface{} {
	return arg
}
