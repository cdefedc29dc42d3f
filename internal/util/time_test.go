package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeFlexible(t *testing.T) {
	got, err := ParseTimeFlexible("2026-02-17T12:00:00+01:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 17, 11, 0, 0, 0, time.UTC), got)

	got, err = ParseTimeFlexible("1000")
	require.NoError(t, err)
	assert.Equal(t, time.UnixMilli(1000).UTC(), got)

	_, err = ParseTimeFlexible("yesterday")
	assert.Error(t, err)
}

func TestParseAccessLogTime(t *testing.T) {
	got, err := ParseAccessLogTime("10/Oct/2000:13:55:36", "-0700")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2000, 10, 10, 20, 55, 36, 0, time.UTC), got)

	_, err = ParseAccessLogTime("-", "-")
	assert.Error(t, err)
}
