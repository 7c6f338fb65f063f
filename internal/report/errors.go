package report

import "errors"

var (
	// ErrBadHeader is returned when the structured log's header row does
	// not match the expected field order.
	ErrBadHeader = errors.New("report: structured log header mismatch")

	// ErrMalformedRow is returned when a data row fails to parse.
	// Aggregation stops at the first malformed row.
	ErrMalformedRow = errors.New("report: malformed structured log row")
)
