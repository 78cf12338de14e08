package log

import (
	"io"

	"gopkg.in/Sirupsen/logrus.v0"
)

type Level = logrus.Level

const (
	PanicLevel = logrus.PanicLevel
	FatalLevel = logrus.FatalLevel
	ErrorLevel = logrus.ErrorLevel
	WarnLevel  = logrus.WarnLevel
	InfoLevel  = logrus.InfoLevel
	DebugLevel = logrus.DebugLevel
)

func init() {
	logrus.SetLevel(logrus.DebugLevel)
}

// SetOutput redirects all logs to w.
func SetOutput(w io.Writer) {
	logrus.StandardLogger().Out = w
}

// Disable turns off all logging, whatever the level or module.
func Disable() {
	SetOutput(io.Discard)
	modDebugMask = 0
}

// A Contexter adds contextual fields to every emitted log entry,
// typically the hot state of the component that registered it.
type Contexter interface {
	AddLogContext(e *EntryZ)
}

var contexts []Contexter

func AddContext(c Contexter) {
	contexts = append(contexts, c)
}
