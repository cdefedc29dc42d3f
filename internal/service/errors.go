package service

import "errors"

// ErrValidation marks errors caused by the caller's input.
var ErrValidation = errors.New("invalid request")

// ErrGeoDisabled is returned when geolocation is requested but not configured.
var ErrGeoDisabled = errors.New("geolocation is disabled")
