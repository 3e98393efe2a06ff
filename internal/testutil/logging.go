package testutil

import (
	"io"

	"github.com/sirupsen/logrus"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
