package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// LoggerAdapter wraps zerolog. Production logs JSON to stdout, any other
// env logs the human readable console format with debug enabled.
type LoggerAdapter struct {
	log zerolog.Logger
}

func NewLoggerAdapter(env string) *LoggerAdapter {
	var log zerolog.Logger
	if env == "production" {
		log = zerolog.New(os.Stdout).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	return &LoggerAdapter{log: log}
}

func (l *LoggerAdapter) Debug(message string, fields map[string]interface{}) {
	l.log.Debug().Fields(fields).Msg(message)
}

func (l *LoggerAdapter) Info(message string, fields map[string]interface{}) {
	l.log.Info().Fields(fields).Msg(message)
}

func (l *LoggerAdapter) Warn(message string, fields map[string]interface{}) {
	l.log.Warn().Fields(fields).Msg(message)
}

func (l *LoggerAdapter) Error(message string, fields map[string]interface{}) {
	l.log.Error().Fields(fields).Msg(message)
}
