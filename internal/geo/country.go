package geo

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"access-log-backend/internal/model"

	"github.com/biter777/countries"
	"github.com/rs/zerolog/log"
)

var ErrCountryNotFound = errors.New("country code not found")

// CountryResolver maps ISO 3166-1 alpha-2 codes to alpha-3 codes.
type CountryResolver interface {
	Alpha3(alpha2 string) (string, error)
}

// ResolveAlpha3 never fails: an unknown or unresolvable code yields model.AlphaNotFound.
func ResolveAlpha3(resolver CountryResolver, alpha2 string) string {
	if resolver == nil {
		return model.AlphaNotFound
	}
	alpha3, err := resolver.Alpha3(alpha2)
	if err != nil {
		log.Trace().Err(err).Str("country_code", alpha2).Msg("Alpha-3 code not resolved")
		return model.AlphaNotFound
	}
	return alpha3
}

type isoCountryResolver struct{}

// NewISOCountryResolver resolves codes from the ISO 3166 list compiled into
// github.com/biter777/countries.
func NewISOCountryResolver() CountryResolver {
	return isoCountryResolver{}
}

func (isoCountryResolver) Alpha3(alpha2 string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(alpha2))
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, alpha2)
	}
	country := countries.ByName(code)
	if country == countries.Unknown || country.Alpha2() != code {
		return "", fmt.Errorf("%w: %q", ErrCountryNotFound, alpha2)
	}
	return country.Alpha3(), nil
}

type tableCountryResolver struct {
	codes map[string]string
}

// NewTableCountryResolver builds a resolver from a table with an alpha-2 and an alpha-3
// column, such as the ISO 3166-1 table fetched with htmltable.Fetch.
func NewTableCountryResolver(table *model.Frame) (CountryResolver, error) {
	alpha2Idx, alpha3Idx := -1, -1
	for i, c := range table.Columns {
		switch key := normalizeHeader(c); {
		case strings.Contains(key, "alpha2") && alpha2Idx < 0:
			alpha2Idx = i
		case strings.Contains(key, "alpha3") && alpha3Idx < 0:
			alpha3Idx = i
		}
	}
	if alpha2Idx < 0 || alpha3Idx < 0 {
		return nil, fmt.Errorf("country table needs alpha-2 and alpha-3 columns, got %v", table.Columns)
	}

	codes := make(map[string]string, len(table.Rows))
	for _, row := range table.Rows {
		if alpha2Idx >= len(row) || alpha3Idx >= len(row) {
			continue
		}
		a2 := strings.ToUpper(strings.TrimSpace(row[alpha2Idx]))
		a3 := strings.ToUpper(strings.TrimSpace(row[alpha3Idx]))
		if len(a2) == 2 && len(a3) == 3 {
			codes[a2] = a3
		}
	}
	if len(codes) == 0 {
		return nil, errors.New("country table has no usable rows")
	}
	log.Info().Int("countries", len(codes)).Msg("Loaded country code table")
	return &tableCountryResolver{codes: codes}, nil
}

func (r *tableCountryResolver) Alpha3(alpha2 string) (string, error) {
	if a3, ok := r.codes[strings.ToUpper(strings.TrimSpace(alpha2))]; ok {
		return a3, nil
	}
	return "", fmt.Errorf("%w: %q", ErrCountryNotFound, alpha2)
}

func normalizeHeader(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
