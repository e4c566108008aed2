package jsonresp

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
)

var logger atomic.Pointer[zerolog.Logger]

func init() {
	l := zerolog.New(os.Stderr).With().Timestamp().Str("component", "jsonresp").Logger()
	logger.Store(&l)
}

// SetLogger replaces the logger used for internal error records.
// Pass zerolog.Nop() to silence them.
func SetLogger(l zerolog.Logger) {
	logger.Store(&l)
}

// Logger returns the current internal error logger.
func Logger() *zerolog.Logger {
	return logger.Load()
}

// LogInternal records one internal error at error level.
//
// record identifies the case ("AppErrors::Storage"); detail holds the display
// form of the payload of non-naive cases and is joined with spaces, so the
// message is "AppErrors::Storage <detail>".
func LogInternal(record string, detail ...string) {
	msg := record
	if len(detail) > 0 {
		msg = record + " " + strings.Join(detail, " ")
	}
	Logger().Error().Str("case", record).Msg(msg)
}
