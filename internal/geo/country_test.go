package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-log-backend/internal/model"
)

func TestISOCountryResolver(t *testing.T) {
	resolver := NewISOCountryResolver()

	alpha3, err := resolver.Alpha3("US")
	require.NoError(t, err)
	assert.Equal(t, "USA", alpha3)

	alpha3, err = resolver.Alpha3("de")
	require.NoError(t, err)
	assert.Equal(t, "DEU", alpha3)

	_, err = resolver.Alpha3("Not found")
	assert.ErrorIs(t, err, ErrCountryNotFound)

	_, err = resolver.Alpha3("")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestResolveAlpha3(t *testing.T) {
	assert.Equal(t, "USA", ResolveAlpha3(staticResolver{"US": "USA"}, "US"))
	assert.Equal(t, model.AlphaNotFound, ResolveAlpha3(staticResolver{}, "XX"))
	assert.Equal(t, model.AlphaNotFound, ResolveAlpha3(nil, "US"))
}

func TestTableCountryResolver(t *testing.T) {
	table := &model.Frame{
		Columns: []string{"English short name", "Alpha-2 code", "Alpha-3 code", "Numeric"},
		Rows: [][]string{
			{"France", "FR", "FRA", "250"},
			{"Japan", "JP", "JPN", "392"},
			{"Broken", "", "", ""},
		},
	}

	resolver, err := NewTableCountryResolver(table)
	require.NoError(t, err)

	alpha3, err := resolver.Alpha3("jp")
	require.NoError(t, err)
	assert.Equal(t, "JPN", alpha3)

	_, err = resolver.Alpha3("XX")
	assert.ErrorIs(t, err, ErrCountryNotFound)
}

func TestTableCountryResolver_MissingColumns(t *testing.T) {
	_, err := NewTableCountryResolver(&model.Frame{Columns: []string{"Name", "Code"}})
	assert.Error(t, err)

	_, err = NewTableCountryResolver(&model.Frame{Columns: []string{"Alpha-2", "Alpha-3"}})
	assert.Error(t, err, "no rows")
}
