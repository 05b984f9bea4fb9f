package main


import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	sio "wire/io"
)


// ----------------------------------------------------------------------------


const DEFAULT_TCP_PORT = 8080


type Config struct {
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	// Largest payload read from the peer, 0 for the default.
	ReadLimit uint64 `yaml:"readLimit"`

	AcceptTimeout time.Duration `yaml:"acceptTimeout"`

	Pidfile string `yaml:"pidfile"`

	Log LogConfig `yaml:"log"`
}

type LogConfig struct {
	Path string `yaml:"path"`
	Format string `yaml:"format"`
	Level string `yaml:"level"`
	MaxSizeMB int `yaml:"maxSizeMB"`
	MaxBackups int `yaml:"maxBackups"`
	MaxAgeDays int `yaml:"maxAgeDays"`
	Compress bool `yaml:"compress"`

	// Effective level once flags are applied.
	level int
}


func defaultConfig() Config {
	return Config{
		Host: "",
		Port: DEFAULT_TCP_PORT,
		Log: LogConfig{
			Format: "text",
			Level: "warn",
		},
	}
}

// Return the default configuration overridden by the YAML file at `path`.
// An empty `path` gives the default configuration.
//
func loadConfig(path string) (Config, error) {
	var config Config = defaultConfig()
	var content []byte
	var err error

	if path == "" {
		return config, config.Log.resolveLevel(0)
	}

	content, err = os.ReadFile(path)
	if err != nil {
		return config, err
	}

	err = parseConfig(content, &config)
	if err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}

	return config, config.Log.resolveLevel(0)
}


// ----------------------------------------------------------------------------


func parseConfig(content []byte, config *Config) error {
	var decoder *yaml.Decoder = yaml.NewDecoder(bytes.NewReader(content))
	var err error

	decoder.KnownFields(true)

	err = decoder.Decode(config)
	if errors.Is(err, io.EOF) {
		return nil
	}

	return err
}

func (this *Config) applyGlobalFlags(cmd *cobra.Command, flags *globalFlags) error {
	if cmd.Flags().Changed("log") {
		this.Log.Path = flags.log
	}

	if cmd.Flags().Changed("log-format") {
		this.Log.Format = flags.logFormat
	}

	if cmd.Flags().Changed("log-level") {
		this.Log.Level = flags.logLevel
	}

	if (this.Log.Format != "text") && (this.Log.Format != "json") {
		return fmt.Errorf("invalid log format: '%s'", this.Log.Format)
	}

	return this.Log.resolveLevel(flags.verbose)
}

func (this *LogConfig) resolveLevel(verbose int) error {
	var err error

	this.level, err = sio.ParseLogLevel(this.Level)
	if err != nil {
		return err
	}

	this.level = min(this.level + verbose, sio.LOG_TRACE)

	return nil
}

// Build the logger described by the configuration.
// The returned function flushes and releases the log output.
//
func (this *LogConfig) newLogger() (sio.Logger, func (), error) {
	var rotating *lumberjack.Logger
	var output zapcore.WriteSyncer
	var inner *zap.Logger
	var logger sio.Logger
	var closer io.Closer

	if this.Format == "text" {
		if this.Path == "" {
			return sio.NewStderrLogger(this.level), func () {}, nil
		}

		logger, closer = sio.NewRotatingLogger(this.Path, this.level,
			&sio.RotateOptions{
				MaxSizeMB: this.MaxSizeMB,
				MaxBackups: this.MaxBackups,
				MaxAgeDays: this.MaxAgeDays,
				Compress: this.Compress,
			})

		return logger, func () { closer.Close() }, nil
	}

	if this.Path == "" {
		output = zapcore.Lock(os.Stderr)
	} else {
		rotating = &lumberjack.Logger{
			Filename: this.Path,
			MaxSize: this.MaxSizeMB,
			MaxBackups: this.MaxBackups,
			MaxAge: this.MaxAgeDays,
			Compress: this.Compress,
		}
		output = zapcore.AddSync(rotating)
	}

	inner = zap.New(zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		output, zapLevel(this.level)))

	return sio.NewZapLogger(inner), func () {
		inner.Sync()
		if rotating != nil {
			rotating.Close()
		}
	}, nil
}

func zapLevel(level int) zapcore.LevelEnabler {
	return zap.LevelEnablerFunc(func (l zapcore.Level) bool {
		switch {
		case level >= sio.LOG_DEBUG:
			return l >= zapcore.DebugLevel
		case level == sio.LOG_INFO:
			return l >= zapcore.InfoLevel
		case level == sio.LOG_WARN:
			return l >= zapcore.WarnLevel
		case level == sio.LOG_ERROR:
			return l >= zapcore.ErrorLevel
		default:
			return false
		}
	})
}
