package io


import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)


// ----------------------------------------------------------------------------


const (
	LOG_NONE  int = 0
	LOG_ERROR int = 1
	LOG_WARN  int = 2
	LOG_INFO  int = 3
	LOG_DEBUG int = 4
	LOG_TRACE int = 5
)

// A Logger object to selectively log information.
//
type Logger interface {
	// Log information likely to cause a fatal error.
	//
	Error(fstr string, args ...interface{})

	// Log information which is concerning but not (yet) causing a fatal
	// error.
	//
	Warn(fstr string, args ...interface{})

	// Log information which is not threatening the process stability but
	// is nevertheless noticeable.
	//
	Info(fstr string, args ...interface{})

	// Log information which is normally not important but can be useful
	// for debugging purpose.
	//
	Debug(fstr string, args ...interface{})

	// Log information which is only useful during development phase.
	//
	Trace(fstr string, args ...interface{})


	// Return a new `Logger` with the given `name` appended to its global
	// context.
	// If additional `args` are supplied then `name` is a printf format for
	// these `args`.
	//
	WithGlobalContext(name string, args ...interface{}) Logger

	// Return a new `Logger` with the given `name` appended to its local
	// context.
	// If additional `args` are supplied then `name` is a printf format for
	// these `args`.
	//
	WithLocalContext(name string, args ...interface{}) Logger


	// Return an emphasized version of the `arg` value.
	// Emphasis is useful to spot values related to each others in the log.
	// Because there can be several groups of related values, each group
	// can be identified with a `group` index.
	//
	Emph(group int, arg interface{}) interface{}
}


func NewNopLogger() Logger {
	return newNopLogger()
}


func NewStderrLogger(level int) Logger {
	return newFileLogger(os.Stderr, level)
}

func NewFileLogger(file *os.File, level int) Logger {
	return newFileLogger(file, level)
}

func NewWriterLogger(writer io.Writer, level int, color bool) Logger {
	return newWriterLogger(writer, level, color)
}


// Parse a verbosity level given either by its numeric value (0 to 5) or by
// its name (none, error, warn, info, debug, trace).
//
func ParseLogLevel(str string) (int, error) {
	var level int
	var err error

	level, err = strconv.Atoi(str)
	if err == nil {
		if (level < LOG_NONE) || (level > LOG_TRACE) {
			return 0, fmt.Errorf("invalid log level: %d", level)
		}

		return level, nil
	}

	switch strings.ToLower(str) {
	case "none":
		return LOG_NONE, nil
	case "error":
		return LOG_ERROR, nil
	case "warn", "warning":
		return LOG_WARN, nil
	case "info":
		return LOG_INFO, nil
	case "debug":
		return LOG_DEBUG, nil
	case "trace":
		return LOG_TRACE, nil
	default:
		return 0, fmt.Errorf("invalid log level: '%s'", str)
	}
}


// ----------------------------------------------------------------------------


type nopLogger struct {
}

func newNopLogger() *nopLogger {
	return &nopLogger{}
}

func (this *nopLogger) Error(fstr string, args ...interface{}) {
}

func (this *nopLogger) Warn(fstr string, args ...interface{}) {
}

func (this *nopLogger) Info(fstr string, args ...interface{}) {
}

func (this *nopLogger) Debug(fstr string, args ...interface{}) {
}

func (this *nopLogger) Trace(fstr string, args ...interface{}) {
}

func (this *nopLogger) WithGlobalContext(string, ...interface{}) Logger {
	return this
}

func (this *nopLogger) WithLocalContext(string, ...interface{}) Logger {
	return this
}

func (this *nopLogger) Emph(group int, arg interface{}) interface{} {
	return nil
}


const (
	log_color_none string    = "\033[0m"
	log_color_red string     = "\033[31m"
	log_color_green string   = "\033[32m"
	log_color_yellow string  = "\033[33m"
	log_color_blue string    = "\033[34m"
	log_color_magenta string = "\033[35m"
	log_color_teal string    = "\033[36m"
)

var logLevelNames = []string{ "", "ERROR", "WARN ", "INFO ", "DEBUG", "TRACE" }

var logLevelColors = []string{
	"",
	log_color_red,
	log_color_yellow,
	log_color_green,
	log_color_blue,
	log_color_magenta,
}

var logEmphColors = []string{
	log_color_teal,
	log_color_green,
	log_color_yellow,
}


// Output shared by a `writerLogger` and all its children.
//
type logOutput struct {
	lock sync.Mutex
	writer io.Writer
}

type writerLogger struct {
	output *logOutput
	level int
	color bool
	globalContext string
	localContext string
	context string
}

type logEmph struct {
	group int
	arg interface{}
}

func newWriterLogger(writer io.Writer, level int, color bool) *writerLogger {
	var this writerLogger

	this.output = &logOutput{ writer: writer }
	this.level = level
	this.color = color

	return &this
}

func newFileLogger(file *os.File, level int) *writerLogger {
	var fi os.FileInfo
	var color bool
	var err error

	fi, err = file.Stat()

	color = (err == nil) && ((fi.Mode() & os.ModeCharDevice) != 0)

	return newWriterLogger(file, level, color)
}

func (this *writerLogger) paint(col, str string) string {
	if this.color {
		return col + str + log_color_none
	} else {
		return str
	}
}

func (this *writerLogger) child(globalContext, localContext string) Logger {
	var clogger writerLogger = *this

	clogger.globalContext = globalContext
	clogger.localContext = localContext

	if len(localContext) == 0 {
		if len(globalContext) == 0 {
			clogger.context = ""
		} else {
			clogger.context = this.paint(log_color_magenta,
				globalContext) + " "
		}
	} else if len(globalContext) == 0 {
		clogger.context = this.paint(log_color_green, localContext) +
			" "
	} else {
		clogger.context = this.paint(log_color_magenta,
			globalContext) + "::" + this.paint(log_color_green,
			localContext) + " "
	}

	return &clogger
}

func appendContext(base, name string, args []interface{}) string {
	if len(args) > 0 {
		name = fmt.Sprintf(name, args...)
	}

	if len(base) == 0 {
		return name
	} else if len(name) == 0 {
		return base
	} else {
		return base + ":" + name
	}
}

func (this *writerLogger) WithGlobalContext(name string, args ...interface{}) Logger {
	return this.child(appendContext(this.globalContext, name, args),
		this.localContext)
}

func (this *writerLogger) WithLocalContext(name string, args ...interface{}) Logger {
	return this.child(this.globalContext,
		appendContext(this.localContext, name, args))
}

func (this *writerLogger) Emph(group int, arg interface{}) interface{} {
	if this.color {
		return &logEmph{ group, arg }
	} else {
		return arg
	}
}

// Surround every emphasized verb of `fstr` with its group color and replace
// the emphasized arguments by their raw value.
//
func (this *writerLogger) colorize(fstr string, args []interface{}) string {
	var builder, verb strings.Builder
	var format bool = false
	var emph *logEmph
	var aindex int
	var ok bool
	var c rune

	builder.Grow(len(fstr))

	for _, c = range fstr {
		if !format {
			if c == '%' {
				format = true
			} else {
				builder.WriteRune(c)
			}
			continue
		}

		if c == '%' {
			builder.WriteString("%%")
			format = false
			continue
		}

		if !strings.ContainsRune("doObxXfFeEgGcqUtsvTp", c) {
			verb.WriteRune(c)
			continue
		}

		ok = false
		if aindex < len(args) {
			emph, ok = args[aindex].(*logEmph)
		}

		if ok {
			args[aindex] = emph.arg
			builder.WriteString(
				logEmphColors[emph.group % len(logEmphColors)])
		}

		builder.WriteRune('%')
		builder.WriteString(verb.String())
		builder.WriteRune(c)
		verb.Reset()

		if ok {
			builder.WriteString(log_color_none)
		}

		aindex += 1
		format = false
	}

	return builder.String()
}

func (this *writerLogger) log(level int, fstr string, args ...interface{}) {
	var now time.Time = time.Now().UTC()
	var buf bytes.Buffer

	if level > this.level {
		return
	}

	if this.color {
		fstr = this.colorize(fstr, args)
	}

	fmt.Fprintf(&buf, "%d-%02d-%02d %02d:%02d:%02d.%09d %s %s",
		now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(),
		this.paint(logLevelColors[level], logLevelNames[level]),
		this.context)

	fmt.Fprintf(&buf, fstr, args...)
	buf.WriteByte('\n')

	this.output.lock.Lock()
	this.output.writer.Write(buf.Bytes())
	this.output.lock.Unlock()
}

func (this *writerLogger) Error(fstr string, args ...interface{}) {
	this.log(LOG_ERROR, fstr, args...)
}

func (this *writerLogger) Warn(fstr string, args ...interface{}) {
	this.log(LOG_WARN, fstr, args...)
}

func (this *writerLogger) Info(fstr string, args ...interface{}) {
	this.log(LOG_INFO, fstr, args...)
}

func (this *writerLogger) Debug(fstr string, args ...interface{}) {
	this.log(LOG_DEBUG, fstr, args...)
}

func (this *writerLogger) Trace(fstr string, args ...interface{}) {
	this.log(LOG_TRACE, fstr, args...)
}
