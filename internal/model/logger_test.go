package model

import (
	"io"
	"testing"
)

func TestDiscardLoggerWorksAsIntended(t *testing.T) {
	logger := DiscardLogger
	logger.Debug("foo")
	logger.Debugf("%s", "foo")
	logger.Info("foo")
	logger.Infof("%s", "foo")
	logger.Warn("foo")
	logger.Warnf("%s", "foo")
}

func TestErrorToStringOrOK(t *testing.T) {
	t.Run("on success", func(t *testing.T) {
		if got := ErrorToStringOrOK(nil); got != "ok" {
			t.Fatal("expected ok, got", got)
		}
	})

	t.Run("on failure", func(t *testing.T) {
		err := io.EOF
		if got := ErrorToStringOrOK(err); got != err.Error() {
			t.Fatal("not the result we expected", got)
		}
	})
}

func TestValidLoggerOrDefault(t *testing.T) {
	t.Run("with a nil logger", func(t *testing.T) {
		if ValidLoggerOrDefault(nil) != DiscardLogger {
			t.Fatal("expected the DiscardLogger")
		}
	})

	t.Run("with a non-nil logger", func(t *testing.T) {
		var logger Logger = &struct{ logDiscarder }{}
		if ValidLoggerOrDefault(logger) != logger {
			t.Fatal("expected the same logger")
		}
	})
}
