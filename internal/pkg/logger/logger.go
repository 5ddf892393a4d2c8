package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger define a interface para logging estruturado.
// A aplicação (Handler, Service, Repository) deve depender apenas desta interface.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error)
	Fatal(msg string, err error)
}

// ZeroLogger é a implementação de Logger sobre o zerolog, com saída JSON.
type ZeroLogger struct {
	zl zerolog.Logger
}

// NewLogger cria um Logger JSON no stdout com o nível informado ("debug", "info", "warn", "error").
// Níveis desconhecidos caem para info.
func NewLogger(level string) Logger {
	return New(os.Stdout, level)
}

// NewConsoleLogger cria um Logger legível para desenvolvimento local.
func NewConsoleLogger(level string) Logger {
	return New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}, level)
}

// New cria um Logger escrevendo no destino informado.
func New(out io.Writer, level string) Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	zl := zerolog.New(out).Level(lvl).With().Timestamp().Str("service", "fiapcloudgames").Logger()
	return &ZeroLogger{zl: zl}
}

func (l *ZeroLogger) Debug(msg string, fields map[string]interface{}) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Info(msg string, fields map[string]interface{}) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Warn(msg string, fields map[string]interface{}) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

func (l *ZeroLogger) Error(msg string, err error) {
	l.zl.Error().Err(err).Msg(msg)
}

// Fatal registra a mensagem e encerra o processo.
func (l *ZeroLogger) Fatal(msg string, err error) {
	l.zl.Fatal().Err(err).Msg(msg)
}

// Nop devolve um Logger que descarta tudo. Útil em testes.
func Nop() Logger {
	return &ZeroLogger{zl: zerolog.Nop()}
}
