package upstream

import "errors"

var (
	ErrNilMessage  = errors.New("nil message sent to upstream")
	ErrNoAddress   = errors.New("upstream address is not set")
	ErrEmptyResult = errors.New("upstream returned no message and no error")
)
