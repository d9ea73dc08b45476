package sarima

import "errors"

var (
	ErrInvalidOrder                = errors.New("invalid sarima order")
	ErrInvalidInput                = errors.New("invalid input")
	ErrInvalidOptions              = errors.New("invalid sarima options")
	ErrNotFitted                   = errors.New("sarima model has not been fitted")
	ErrMissingSeriesForIntegration = errors.New("original series is required to integrate the forecast")
)
