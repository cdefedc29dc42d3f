package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"access-log-backend/internal/model"

	"github.com/rs/zerolog/log"
)

const maxResponseBytes = 1 << 20

type geolocationDBClient struct {
	baseURL    string
	httpClient *http.Client
	resolver   CountryResolver
}

// NewGeolocationDBClient returns a Lookup backed by a geolocation-db.com style endpoint:
// GET baseURL+ip answers with callback({...}) or plain JSON.
func NewGeolocationDBClient(baseURL string, httpClient *http.Client, resolver CountryResolver) Lookup {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &geolocationDBClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		resolver:   resolver,
	}
}

type geolocationDBPayload struct {
	CountryCode json.RawMessage `json:"country_code"`
	Latitude    json.RawMessage `json:"latitude"`
	Longitude   json.RawMessage `json:"longitude"`
}

func (c *geolocationDBClient) Lookup(ctx context.Context, ip string) (model.GeoInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+url.PathEscape(ip), nil)
	if err != nil {
		return model.GeoInfo{}, &LookupError{IP: ip, Err: err}
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return model.GeoInfo{}, &LookupError{IP: ip, Err: err, Retryable: !errors.Is(err, context.Canceled)}
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return model.GeoInfo{}, &LookupError{IP: ip, Err: fmt.Errorf("read response: %w", err), Retryable: true}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return model.GeoInfo{}, &LookupError{
			IP:        ip,
			Err:       fmt.Errorf("unexpected status %s", res.Status),
			Retryable: res.StatusCode == http.StatusTooManyRequests || res.StatusCode >= 500,
		}
	}

	var payload geolocationDBPayload
	if err := json.Unmarshal(unwrapJSONP(body), &payload); err != nil {
		return model.GeoInfo{}, &LookupError{IP: ip, Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.CountryCode == nil || payload.Latitude == nil || payload.Longitude == nil {
		return model.GeoInfo{}, &LookupError{IP: ip, Err: errors.New("response lacks country_code, latitude or longitude")}
	}

	info := model.GeoInfo{
		CountryCode: rawText(payload.CountryCode),
		Latitude:    rawText(payload.Latitude),
		Longitude:   rawText(payload.Longitude),
	}
	info.Alpha3 = ResolveAlpha3(c.resolver, info.CountryCode)

	log.Debug().Str("ip", ip).Str("country_code", info.CountryCode).Str("alpha_3", info.Alpha3).Msg("Geolocation lookup succeeded")
	return info, nil
}

// unwrapJSONP returns the object inside callback(...). Bodies without a callback are
// returned unchanged.
func unwrapJSONP(body []byte) []byte {
	open := bytes.IndexByte(body, '(')
	if open < 0 {
		return bytes.TrimSpace(body)
	}
	inner := body[open+1:]
	if next := bytes.IndexByte(inner, '('); next >= 0 {
		inner = inner[:next]
	}
	inner = bytes.TrimRight(bytes.TrimSpace(inner), ";")
	inner = bytes.Trim(bytes.TrimSpace(inner), ")")
	return bytes.TrimSpace(inner)
}

// rawText renders a JSON scalar as text: strings unquoted, numbers verbatim.
func rawText(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	}
	return string(trimmed)
}
