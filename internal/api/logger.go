package api

import (
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/raysh454/fraudeye/internal/logging"
)

// restyLogger forwards resty's printf-style logging to a logging.Logger.
type restyLogger struct {
	logger logging.Logger
}

var _ resty.Logger = (*restyLogger)(nil)

func (a *restyLogger) Errorf(format string, v ...interface{}) {
	a.logger.Error(fmt.Sprintf(format, v...))
}

func (a *restyLogger) Warnf(format string, v ...interface{}) {
	a.logger.Warn(fmt.Sprintf(format, v...))
}

func (a *restyLogger) Debugf(format string, v ...interface{}) {
	a.logger.Debug(fmt.Sprintf(format, v...))
}
