package console

import (
	"os"

	"github.com/mattn/go-isatty"
)

// instance is the package-level console so callers don't thread one through
// every signature. Colors are enabled only when stderr is a terminal.
var instance = &Console{
	Color: isatty.IsTerminal(os.Stderr.Fd()),
	Level: InfoLevel,
}

// SetLevel sets the log level.
func SetLevel(level Level) {
	instance.Level = level
}

// SetColor overrides the terminal-detected color setting.
func SetColor(color bool) {
	instance.Color = color
}

func Debug(msg string) {
	instance.Debug(msg)
}

func Info(msg string) {
	instance.Info(msg)
}

func Warn(msg string) {
	instance.Warn(msg)
}

func Error(msg string) {
	instance.Error(msg)
}

func Fatal(msg string) {
	instance.Fatal(msg)
}

func Debugf(msg string, v ...interface{}) {
	instance.Debugf(msg, v...)
}

func Infof(msg string, v ...interface{}) {
	instance.Infof(msg, v...)
}

func Warnf(msg string, v ...interface{}) {
	instance.Warnf(msg, v...)
}

func Errorf(msg string, v ...interface{}) {
	instance.Errorf(msg, v...)
}

func Fatalf(msg string, v ...interface{}) {
	instance.Fatalf(msg, v...)
}

// Output prints a line of primary command output to stdout.
func Output(s string) {
	instance.Output(s)
}
