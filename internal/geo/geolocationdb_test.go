package geo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"access-log-backend/internal/model"
)

type staticResolver map[string]string

func (r staticResolver) Alpha3(alpha2 string) (string, error) {
	if v, ok := r[alpha2]; ok {
		return v, nil
	}
	return "", ErrCountryNotFound
}

func newGeoServer(t *testing.T, handler func(w http.ResponseWriter, ip string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(w, strings.TrimPrefix(r.URL.Path, "/jsonp/"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeolocationDBClient_JSONP(t *testing.T) {
	srv := newGeoServer(t, func(w http.ResponseWriter, ip string) {
		assert.Equal(t, "8.8.8.8", ip)
		_, _ = w.Write([]byte(`callback({"country_code":"US","country_name":"United States","city":null,"latitude":37.751,"longitude":-97.822,"IPv4":"8.8.8.8"})`))
	})

	client := NewGeolocationDBClient(srv.URL+"/jsonp/", srv.Client(), staticResolver{"US": "USA"})
	info, err := client.Lookup(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	assert.Equal(t, model.GeoInfo{CountryCode: "US", Alpha3: "USA", Latitude: "37.751", Longitude: "-97.822"}, info)
}

func TestGeolocationDBClient_NotFoundCountry(t *testing.T) {
	srv := newGeoServer(t, func(w http.ResponseWriter, _ string) {
		_, _ = w.Write([]byte(`callback({"country_code":"Not found","country_name":"Not found","latitude":"Not found","longitude":"Not found"})`))
	})

	client := NewGeolocationDBClient(srv.URL+"/jsonp/", srv.Client(), staticResolver{})
	info, err := client.Lookup(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Not found", info.CountryCode)
	assert.Equal(t, model.AlphaNotFound, info.Alpha3)
	assert.Equal(t, "Not found", info.Latitude)
}

func TestGeolocationDBClient_PlainJSON(t *testing.T) {
	srv := newGeoServer(t, func(w http.ResponseWriter, _ string) {
		_, _ = w.Write([]byte(`{"country_code":"DE","latitude":"51.2993","longitude":"9.491"}`))
	})

	client := NewGeolocationDBClient(srv.URL+"/jsonp/", srv.Client(), staticResolver{"DE": "DEU"})
	info, err := client.Lookup(context.Background(), "5.5.5.5")
	require.NoError(t, err)
	assert.Equal(t, "DEU", info.Alpha3)
	assert.Equal(t, "51.2993", info.Latitude)
}

func TestGeolocationDBClient_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		retryable bool
	}{
		{name: "Server Error", status: http.StatusBadGateway, body: "bad gateway", retryable: true},
		{name: "Rate Limited", status: http.StatusTooManyRequests, body: "slow down", retryable: true},
		{name: "Client Error", status: http.StatusBadRequest, body: "bad ip", retryable: false},
		{name: "Invalid Payload", status: http.StatusOK, body: "callback(not json)", retryable: false},
		{name: "Missing Fields", status: http.StatusOK, body: `callback({"country_code":"US"})`, retryable: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeoServer(t, func(w http.ResponseWriter, _ string) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			client := NewGeolocationDBClient(srv.URL+"/jsonp/", srv.Client(), staticResolver{})

			_, err := client.Lookup(context.Background(), "1.2.3.4")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrLookup)

			var lookupErr *LookupError
			require.True(t, errors.As(err, &lookupErr))
			assert.Equal(t, "1.2.3.4", lookupErr.IP)
			assert.Equal(t, tt.retryable, lookupErr.Retryable)
		})
	}
}

func TestUnwrapJSONP(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(unwrapJSONP([]byte(`callback({"a":1})`))))
	assert.Equal(t, `{"a":1}`, string(unwrapJSONP([]byte("cb( {\"a\":1} );\n"))))
	assert.Equal(t, `{"a":1}`, string(unwrapJSONP([]byte(` {"a":1} `))))
}

func TestRawText(t *testing.T) {
	assert.Equal(t, "12.5", rawText([]byte("12.5")))
	assert.Equal(t, "Not found", rawText([]byte(`"Not found"`)))
	assert.Equal(t, "", rawText([]byte("null")))
	assert.Equal(t, "", rawText(nil))
}

func TestWithRetry(t *testing.T) {
	policy := RetryPolicy{MaxRetries: 3, InitialBackoff: time.Millisecond, MaxBackoff: 5 * time.Millisecond}

	t.Run("Retries Retryable Errors", func(t *testing.T) {
		var calls int32
		next := LookupFunc(func(_ context.Context, ip string) (model.GeoInfo, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return model.GeoInfo{}, &LookupError{IP: ip, Err: errors.New("timeout"), Retryable: true}
			}
			return model.GeoInfo{CountryCode: "NL"}, nil
		})

		info, err := WithRetry(next, policy).Lookup(context.Background(), "1.1.1.1")
		require.NoError(t, err)
		assert.Equal(t, "NL", info.CountryCode)
		assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	})

	t.Run("Stops On Permanent Errors", func(t *testing.T) {
		var calls int32
		next := LookupFunc(func(_ context.Context, ip string) (model.GeoInfo, error) {
			atomic.AddInt32(&calls, 1)
			return model.GeoInfo{}, &LookupError{IP: ip, Err: errors.New("bad request")}
		})

		_, err := WithRetry(next, policy).Lookup(context.Background(), "1.1.1.1")
		assert.ErrorIs(t, err, ErrLookup)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("Gives Up After Max Retries", func(t *testing.T) {
		var calls int32
		next := LookupFunc(func(_ context.Context, ip string) (model.GeoInfo, error) {
			atomic.AddInt32(&calls, 1)
			return model.GeoInfo{}, &LookupError{IP: ip, Err: errors.New("unavailable"), Retryable: true}
		})

		_, err := WithRetry(next, policy).Lookup(context.Background(), "1.1.1.1")
		assert.ErrorIs(t, err, ErrLookup)
		assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
	})
}
