// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"encoding/hex"
	"math"
	"strconv"

	"golang.org/x/text/encoding/charmap"
)

// SwOS packs every number as a hex literal, and strings as hex encoded Latin-1 bytes.

func trimHexPrefix(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

func decodeInt(s string) (uint64, error) {
	digits := trimHexPrefix(s)
	if digits == "" {
		return 0, &DecodeError{Value: s, Err: errEmptyHex}
	}
	v, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0, &DecodeError{Value: s, Err: err}
	}
	return v, nil
}

// decodeByteRate returns bits/s. The switch reports the rate in units of 10.
func decodeByteRate(s string) (uint64, error) {
	v, err := decodeInt(s)
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint64/10 {
		return 0, &DecodeError{Value: s, Err: strconv.ErrRange}
	}
	return v * 10, nil
}

func decodePacketRate(s string) (uint64, error) {
	return decodeInt(s)
}

// decodeLong joins a counter split into two words by concatenating the high word digits
// with the low word digits.
func decodeLong(low, high string) (uint64, error) {
	lo, hi := trimHexPrefix(low), trimHexPrefix(high)
	if lo == "" || hi == "" {
		return 0, &DecodeError{Value: high + "|" + low, Err: errEmptyHex}
	}
	if len(lo) != len(hi) {
		return 0, &DecodeError{Value: high + "|" + low, Err: errWidthMismatch}
	}
	v, err := strconv.ParseUint(hi+lo, 16, 64)
	if err != nil {
		return 0, &DecodeError{Value: high + "|" + low, Err: err}
	}
	return v, nil
}

// decodeString decodes hex byte pairs as Latin-1 characters.
func decodeString(s string) (string, error) {
	if len(s)%2 != 0 {
		return "", &DecodeError{Value: s, Err: errOddLength}
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return "", &DecodeError{Value: s, Err: err}
	}
	bs, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return "", &DecodeError{Value: s, Err: err}
	}
	return string(bs), nil
}

// bitsToBytes converts a decoded byte rate (bits/s) to bytes/s.
func bitsToBytes(v uint64) uint64 {
	return v / 8
}
