// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/netdata/swosd/pkg/web"
)

const (
	endpointSystem = "sys.b"
	endpointLink   = "link.b"
	endpointStats  = "!stats.b"
)

const defaultAddress = "http://192.168.88.1/"

// fetcher reads one SwOS endpoint into a RawTable.
type fetcher interface {
	fetch(ctx context.Context, endpoint string) (rawTable, error)
}

type switchClient struct {
	req        web.RequestConfig
	httpClient *http.Client
}

func newSwitchClient(cfg web.HTTPConfig) (*switchClient, error) {
	cfg.DigestAuth = true
	httpClient, err := web.NewDigestHTTPClient(cfg)
	if err != nil {
		return nil, err
	}
	return &switchClient{req: cfg.RequestConfig, httpClient: httpClient}, nil
}

func (c *switchClient) fetch(ctx context.Context, endpoint string) (rawTable, error) {
	req, err := web.NewHTTPRequestWithPath(c.req, endpoint)
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	var body []byte
	err = web.DoHTTP(c.httpClient).Request(req.WithContext(ctx), func(r io.Reader) error {
		var err error
		body, err = io.ReadAll(r)
		return err
	})
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: err}
	}

	return parseRawTable(endpoint, body)
}

func (c *switchClient) close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// normalizeAddress returns the switch base URL with a scheme and a trailing slash.
// A missing scheme becomes http://, the only one SwOS serves. An explicit https:// is
// kept for switches published behind a TLS reverse proxy.
func normalizeAddress(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return defaultAddress
	}
	if !strings.HasPrefix(addr, "http://") && !strings.HasPrefix(addr, "https://") {
		addr = "http://" + addr
	}
	if !strings.HasSuffix(addr, "/") {
		addr += "/"
	}
	return addr
}
