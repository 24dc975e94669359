// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"errors"
	"net/http"

	"github.com/icholy/digest"
)

// NewDigestHTTPClient returns a client that answers HTTP digest challenges with the
// credentials from cfg. Requests built from cfg must not carry a basic auth header,
// see RequestConfig.DigestAuth.
func NewDigestHTTPClient(cfg HTTPConfig) (*http.Client, error) {
	if !cfg.DigestAuth {
		return nil, errors.New("digest client requested for a non-digest request config")
	}

	client, err := NewHTTPClient(cfg.ClientConfig)
	if err != nil {
		return nil, err
	}

	client.Transport = &digest.Transport{
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: client.Transport,
	}

	return client, nil
}
