// Package logx contains logging extensions.
package logx

import (
	"fmt"
	"sync"
	"time"

	"github.com/altroute/altroute/internal/model"
)

// OperationLogger logs the beginning and the end of a possibly long
// running operation. If the operation takes more than a given amount
// of time, we also emit an "in progress" message.
type OperationLogger struct {
	logger  model.Logger
	maxwait time.Duration
	message string
	once    sync.Once
	sighup  chan any
	wg      *sync.WaitGroup
}

// operationLoggerMaxWait is the time after which we emit the "in progress" message.
const operationLoggerMaxWait = 500 * time.Millisecond

// NewOperationLogger creates a new [*OperationLogger]. The format and v arguments
// are processed using fmt.Sprintf. You MUST call Stop when the operation is done.
func NewOperationLogger(logger model.Logger, format string, v ...any) *OperationLogger {
	return newOperationLogger(operationLoggerMaxWait, logger, format, v...)
}

func newOperationLogger(maxwait time.Duration, logger model.Logger, format string, v ...any) *OperationLogger {
	ol := &OperationLogger{
		logger:  model.ValidLoggerOrDefault(logger),
		maxwait: maxwait,
		message: fmt.Sprintf(format, v...),
		once:    sync.Once{},
		sighup:  make(chan any),
		wg:      &sync.WaitGroup{},
	}
	ol.wg.Add(1)
	go ol.maybeEmitProgress()
	return ol
}

func (ol *OperationLogger) maybeEmitProgress() {
	defer ol.wg.Done()
	timer := time.NewTimer(ol.maxwait)
	defer timer.Stop()
	select {
	case <-ol.sighup:
		return
	case <-timer.C:
		ol.logger.Infof("%s... in progress", ol.message)
	}
}

// Stop must be called when the operation is done. The err argument is the
// result of the operation, which may be nil. This method is idempotent.
func (ol *OperationLogger) Stop(err error) {
	ol.once.Do(func() {
		close(ol.sighup)
		ol.wg.Wait()
		ol.logger.Infof("%s... %s", ol.message, model.ErrorToStringOrOK(err))
	})
}
