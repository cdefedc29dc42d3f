package elasticsearch

import (
	"fmt"
	"net"
	"net/http"
	"time"

	"access-log-backend/config"

	"github.com/elastic/go-elasticsearch/v8"
)

func clientConfig(cfg *config.Config) elasticsearch.Config {
	transport := &http.Transport{
		MaxIdleConnsPerHost:   10,
		ResponseHeaderTimeout: time.Second * 10,
		DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		TLSHandshakeTimeout:   5 * time.Second,
	}
	return elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
		Username:  cfg.Elasticsearch.Username,
		Password:  cfg.Elasticsearch.Password,
		Transport: transport,
	}
}

// IndexName returns the daily index a record with timestamp ts belongs to, e.g.
// "accesslogs-2026-02-17".
func IndexName(prefix string, ts time.Time) string {
	return fmt.Sprintf("%s-%s", prefix, ts.UTC().Format("2006-01-02"))
}

func indexPattern(prefix string) string {
	return prefix + "-*"
}
