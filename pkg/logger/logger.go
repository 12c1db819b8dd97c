package logger

import (
	"io"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// До вызова Init логгер ничего не пишет, поэтому пакеты можно использовать в тестах без настройки
var log = zerolog.Nop()

func Init(serviceName string, level string) {
	InitWithWriter(serviceName, level, os.Stdout)
}

func InitWithWriter(serviceName string, level string, w io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339Nano

	log = zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", serviceName).
		Logger()
}

// InitLogstash дублирует вывод в Logstash по TCP
// Возвращенный io.Closer закрывает соединение при остановке сервиса
func InitLogstash(addr string, serviceName string, level string) (io.Closer, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}

	InitWithWriter(serviceName, level, zerolog.MultiLevelWriter(os.Stdout, conn))
	return conn, nil
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func Info() *zerolog.Event {
	return log.Info()
}

func Error() *zerolog.Event {
	return log.Error()
}

func Debug() *zerolog.Event {
	return log.Debug()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Fatal() *zerolog.Event {
	return log.Fatal()
}

// Component возвращает дочерний логгер с полем component
// Вызывать после Init: дочерний логгер копирует настройки на момент вызова
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
