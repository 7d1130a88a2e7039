package order

import "errors"

var (
	ErrMalformedEvent = errors.New("malformed status update event")
	ErrUnauthorized   = errors.New("unauthorized")
)
