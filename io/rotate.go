package io


import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)


// ----------------------------------------------------------------------------


type RotateOptions struct {
	MaxSizeMB int
	MaxBackups int
	MaxAgeDays int
	Compress bool
}

// Return a `Logger` writing plain lines at `path`, rotating the file when it
// grows over `MaxSizeMB`.
// The returned `io.Closer` releases the file.
//
func NewRotatingLogger(path string, level int, opts *RotateOptions) (Logger, io.Closer) {
	var output *lumberjack.Logger

	if opts == nil {
		opts = &RotateOptions{}
	}

	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 100
	}

	output = &lumberjack.Logger{
		Filename: path,
		MaxSize: opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge: opts.MaxAgeDays,
		Compress: opts.Compress,
	}

	return newWriterLogger(output, level, false), output
}
