// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"encoding/base64"
	"fmt"
	"maps"
	"net/http"
	"net/url"
	"strings"

	"github.com/netdata/swosd/pkg/buildinfo"
	"github.com/netdata/swosd/pkg/executable"
)

// RequestConfig describes the GET requests sent to a device. It is embedded in HTTPConfig.
type RequestConfig struct {
	URL      string `yaml:"url,omitempty" json:"url,omitempty"`
	Username string `yaml:"username,omitempty" json:"username"`
	Password string `yaml:"password,omitempty" json:"password"`
	// DigestAuth leaves Username/Password to the digest transport (NewDigestHTTPClient)
	// instead of sending them as basic auth.
	DigestAuth    bool              `yaml:"-" json:"-"`
	ProxyUsername string            `yaml:"proxy_username,omitempty" json:"proxy_username"`
	ProxyPassword string            `yaml:"proxy_password,omitempty" json:"proxy_password"`
	Headers       map[string]string `yaml:"headers,omitempty" json:"headers"`
}

// Copy returns a RequestConfig that does not share Headers with r.
func (r RequestConfig) Copy() RequestConfig {
	r.Headers = maps.Clone(r.Headers)
	return r
}

var userAgent = fmt.Sprintf("Netdata %s.plugin/%s", executable.Name, buildinfo.Version)

// NewHTTPRequest builds a GET request for cfg.URL.
func NewHTTPRequest(cfg RequestConfig) (*http.Request, error) {
	req, err := http.NewRequest(http.MethodGet, cfg.URL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	if !cfg.DigestAuth && (cfg.Username != "" || cfg.Password != "") {
		req.SetBasicAuth(cfg.Username, cfg.Password)
	}

	if cfg.ProxyUsername != "" && cfg.ProxyPassword != "" {
		creds := base64.StdEncoding.EncodeToString([]byte(cfg.ProxyUsername + ":" + cfg.ProxyPassword))
		req.Header.Set("Proxy-Authorization", "Basic "+creds)
	}

	for k, v := range cfg.Headers {
		if strings.EqualFold(k, "host") {
			req.Host = v
			continue
		}
		req.Header.Set(k, v)
	}

	return req, nil
}

// NewHTTPRequestWithPath builds a GET request for urlPath relative to cfg.URL.
func NewHTTPRequestWithPath(cfg RequestConfig, urlPath string) (*http.Request, error) {
	u, err := url.JoinPath(cfg.URL, urlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	cfg = cfg.Copy()
	cfg.URL = u

	return NewHTTPRequest(cfg)
}
