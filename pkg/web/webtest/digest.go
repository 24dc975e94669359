// SPDX-License-Identifier: GPL-3.0-or-later

// Package webtest provides HTTP test helpers shared by the pkg/web and collector tests.
package webtest

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

const (
	digestRealm = "swos"
	digestNonce = "5f1d3a7c9b2e4d6f"
)

var reDigestParam = regexp.MustCompile(`(\w+)=(?:"([^"]*)"|([^,\s]*))`)

// DigestAuth wraps next with RFC 2617 digest authentication (MD5, qop=auth).
// Requests without valid credentials get a 401 with a digest challenge.
func DigestAuth(username, password string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !validDigest(r, username, password) {
			w.Header().Set("WWW-Authenticate",
				fmt.Sprintf(`Digest realm="%s", nonce="%s", qop="auth", algorithm=MD5`, digestRealm, digestNonce))
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func validDigest(r *http.Request, username, password string) bool {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Digest ") {
		return false
	}

	params := make(map[string]string)
	for _, m := range reDigestParam.FindAllStringSubmatch(strings.TrimPrefix(auth, "Digest "), -1) {
		params[m[1]] = m[2] + m[3]
	}

	if params["username"] != username || params["realm"] != digestRealm || params["nonce"] != digestNonce {
		return false
	}

	ha1 := md5hex(username + ":" + digestRealm + ":" + password)
	ha2 := md5hex(r.Method + ":" + params["uri"])

	var want string
	if params["qop"] == "" {
		want = md5hex(ha1 + ":" + digestNonce + ":" + ha2)
	} else {
		want = md5hex(strings.Join([]string{ha1, digestNonce, params["nc"], params["cnonce"], params["qop"], ha2}, ":"))
	}

	return params["response"] == want
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
