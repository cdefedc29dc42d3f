package model

import "fmt"

// AlphaNotFound replaces the alpha-3 code when the alpha-2 code has no mapping.
const AlphaNotFound = "Not found"

// GeoInfo fields that can be projected onto a frame.
const (
	GeoFieldCountryCode = "country_code"
	GeoFieldAlpha3      = "alpha_3"
	GeoFieldLatitude    = "latitude"
	GeoFieldLongitude   = "longitude"
)

// GeoInfo is the geolocation of one IP. Coordinates are kept as the service returned them.
type GeoInfo struct {
	CountryCode string `json:"country_code"`
	Alpha3      string `json:"alpha_3"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

// Field returns the attribute stored under name.
func (g GeoInfo) Field(name string) (string, error) {
	switch name {
	case GeoFieldCountryCode:
		return g.CountryCode, nil
	case GeoFieldAlpha3:
		return g.Alpha3, nil
	case GeoFieldLatitude:
		return g.Latitude, nil
	case GeoFieldLongitude:
		return g.Longitude, nil
	}
	return "", fmt.Errorf("unknown geo field %q", name)
}
