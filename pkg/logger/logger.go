package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var (
	mu       sync.Mutex
	minLevel           = LevelInfo
	out      io.Writer = os.Stdout

	levelTags = map[Level]string{
		LevelDebug: color.New(color.FgCyan).Sprint("DEBUG"),
		LevelInfo:  color.New(color.FgGreen).Sprint("INFO "),
		LevelWarn:  color.New(color.FgYellow).Sprint("WARN "),
		LevelError: color.New(color.FgRed, color.Bold).Sprint("ERROR"),
	}
)

// * SetLevel changes the minimum level that gets written
func SetLevel(l Level) {
	mu.Lock()
	defer mu.Unlock()
	minLevel = l
}

// * SetOutput redirects log lines, mostly useful in tests
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

func logf(l Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if l < minLevel {
		return
	}

	fmt.Fprintf(out, "%s %s %s\n", time.Now().Format("2006-01-02 15:04:05"), levelTags[l], fmt.Sprintf(format, args...))
}

func Debug(format string, args ...any) { logf(LevelDebug, format, args...) }
func Info(format string, args ...any)  { logf(LevelInfo, format, args...) }
func Warn(format string, args ...any)  { logf(LevelWarn, format, args...) }
func Error(format string, args ...any) { logf(LevelError, format, args...) }
