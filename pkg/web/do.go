// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
)

// StatusCodeError is returned for responses outside the 2xx range.
type StatusCodeError struct {
	URL        string
	StatusCode int
}

func (e *StatusCodeError) Error() string {
	return fmt.Sprintf("'%s' returned HTTP status code: %d", e.URL, e.StatusCode)
}

// IsStatusCode reports whether err is a StatusCodeError with the given code.
func IsStatusCode(err error, code int) bool {
	var v *StatusCodeError
	return errors.As(err, &v) && v.StatusCode == code
}

type Doer struct {
	client *http.Client
}

func DoHTTP(client *http.Client) *Doer {
	return &Doer{client: client}
}

// Request performs req and passes the response body to parse when the status code is 2xx.
// The body is always drained and closed.
func (d *Doer) Request(req *http.Request, parse func(body io.Reader) error) error {
	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("error on HTTP request '%s': %w", req.URL, err)
	}
	defer closeBody(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusCodeError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	if parse == nil {
		return nil
	}
	return parse(resp.Body)
}

func closeBody(resp *http.Response) {
	if resp != nil && resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}
}
