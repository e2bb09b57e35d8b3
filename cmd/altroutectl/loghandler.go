package main

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
)

// levelColors maps a level to its color.
var levelColors = [...]*color.Color{
	log.DebugLevel: color.New(color.FgWhite),
	log.InfoLevel:  color.New(color.FgBlue),
	log.WarnLevel:  color.New(color.FgYellow),
	log.ErrorLevel: color.New(color.FgRed),
	log.FatalLevel: color.New(color.FgRed),
}

// logHandler is a [log.Handler] printing the time elapsed since the
// program started, the level, the message, and the fields.
type logHandler struct {
	io.Writer

	// mu serializes writes.
	mu sync.Mutex

	// startTime is when we started.
	startTime time.Time
}

var _ log.Handler = &logHandler{}

// newLogger creates a new [*log.Logger] writing to w.
func newLogger(w io.Writer, verbose bool) *log.Logger {
	if f, ok := w.(*os.File); ok {
		w = colorable.NewColorable(f)
	}
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return &log.Logger{
		Handler: &logHandler{Writer: w, startTime: time.Now()},
		Level:   level,
	}
}

// HandleLog implements log.Handler.
func (h *logHandler) HandleLog(e *log.Entry) (err error) {
	level := e.Level.String()
	if e.Level >= log.DebugLevel && int(e.Level) < len(levelColors) {
		level = levelColors[e.Level].Sprint(level)
	}
	s := fmt.Sprintf("[%14.6f] <%s> %s", time.Since(h.startTime).Seconds(), level, e.Message)
	if len(e.Fields) > 0 {
		s += fmt.Sprintf(": %+v", e.Fields)
	}
	s += "\n"
	h.mu.Lock()
	_, err = h.Writer.Write([]byte(s))
	h.mu.Unlock()
	return
}
