package sqlargs

import "errors"

var (
	// ErrInvalidArgument is returned when a placeholder list is requested with no values, `IN ()` is a syntax error in SQL.
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnsupportedType = errors.New("unsupported argument type")
)
