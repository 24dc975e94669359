// SPDX-License-Identifier: GPL-3.0-or-later

package swos

import (
	"github.com/valyala/fastjson"
)

// rawValue is either a scalar hex string or one hex string per physical port.
type rawValue struct {
	scalar string
	list   []string
	isList bool
}

type rawTable map[string]rawValue

func (t rawTable) scalar(key string) (string, error) {
	v, ok := t[key]
	if !ok {
		return "", &DecodeError{Field: key, Err: errMissingKey}
	}
	if v.isList {
		return "", &DecodeError{Field: key, Err: errNotScalar}
	}
	return v.scalar, nil
}

func (t rawTable) list(key string) ([]string, error) {
	v, ok := t[key]
	if !ok {
		return nil, &DecodeError{Field: key, Err: errMissingKey}
	}
	if !v.isList {
		return nil, &DecodeError{Field: key, Err: errNotList}
	}
	return v.list, nil
}

// parseRawTable repairs a SwOS response body and reads its string and string list values.
// Any other value shape is skipped.
func parseRawTable(endpoint string, body []byte) (rawTable, error) {
	var p fastjson.Parser

	v, err := p.ParseBytes(repairJSON(body))
	if err != nil {
		return nil, &DecodeError{Field: endpoint, Err: err}
	}
	obj, err := v.Object()
	if err != nil {
		return nil, &DecodeError{Field: endpoint, Err: err}
	}

	tbl := make(rawTable, obj.Len())
	obj.Visit(func(key []byte, v *fastjson.Value) {
		switch v.Type() {
		case fastjson.TypeString:
			tbl[string(key)] = rawValue{scalar: string(v.GetStringBytes())}
		case fastjson.TypeArray:
			if list, ok := stringList(v); ok {
				tbl[string(key)] = rawValue{list: list, isList: true}
			}
		}
	})

	return tbl, nil
}

func stringList(v *fastjson.Value) ([]string, bool) {
	arr := v.GetArray()
	list := make([]string, 0, len(arr))
	for _, e := range arr {
		if e.Type() != fastjson.TypeString {
			return nil, false
		}
		list = append(list, string(e.GetStringBytes()))
	}
	return list, true
}
