package engine

import (
	"errors"
	"fmt"
)

// ErrNoSpreadAvailable is returned when a chain has no qualifying sell leg
// for the requested spread. It is non-fatal: callers omit the spread from
// results and continue.
var ErrNoSpreadAvailable = errors.New("no qualifying legs for spread")

// ErrDataUnavailable wraps upstream fetch failures. The engine never retries;
// retry and backoff policy belongs to the data provider.
var ErrDataUnavailable = errors.New("market data unavailable")

// MalformedQuoteError reports a raw option record missing a required field.
// The record is rejected and the rest of the batch continues.
type MalformedQuoteError struct {
	Field string
}

func (e *MalformedQuoteError) Error() string {
	return fmt.Sprintf("malformed option quote: missing or invalid %s", e.Field)
}

// IsMalformedQuote reports whether err is a per-record rejection.
func IsMalformedQuote(err error) bool {
	var mq *MalformedQuoteError
	return errors.As(err, &mq)
}
