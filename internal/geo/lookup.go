// Package geo resolves client IPs to countries and coordinates and projects the results
// onto parsed records.
package geo

import (
	"context"
	"errors"
	"fmt"

	"access-log-backend/internal/model"
)

// ErrLookup is wrapped by every failed geolocation lookup.
var ErrLookup = errors.New("geolocation lookup failed")

// Lookup resolves one IP. Implementations may block on the network.
type Lookup interface {
	Lookup(ctx context.Context, ip string) (model.GeoInfo, error)
}

// LookupFunc adapts a plain function to Lookup.
type LookupFunc func(ctx context.Context, ip string) (model.GeoInfo, error)

func (f LookupFunc) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	return f(ctx, ip)
}

// LookupError describes a failed lookup of one IP.
type LookupError struct {
	IP        string
	Err       error
	Retryable bool
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s for %s: %v", ErrLookup, e.IP, e.Err)
}

func (e *LookupError) Unwrap() []error {
	return []error{ErrLookup, e.Err}
}
