// Copyright The course-check Authors and/or licensed to The course-check
// Authors under one or more contributor license agreements. Licensed under the
// Elastic License; you may not use this file except in compliance with it.

package common

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

var (
	// ErrKeyNotFound indicates that the specified key was not found.
	ErrKeyNotFound = errors.New("key not found")
)

// MapStr is a map[string]any wrapper with utility methods for nested
// settings and request parameters.
type MapStr map[string]any

// GetValue gets a value from the map. The key can be expressed in dot-notation
// (e.g. canvas.url). If the key does not exist then ErrKeyNotFound is returned.
func (m MapStr) GetValue(key string) (any, error) {
	_, _, v, found, err := mapFind(key, m, false)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrKeyNotFound
	}
	return v, nil
}

// Put associates the specified value with the specified key, creating
// intermediate maps for dotted keys. The previous value is returned.
func (m MapStr) Put(key string, value any) (any, error) {
	k, d, old, _, err := mapFind(key, m, true)
	if err != nil {
		return nil, err
	}

	d[k] = value
	return old, nil
}

// DeepUpdate recursively copies the key-value pairs from d to this map.
// Nested maps are merged, any other value is replaced.
func (m MapStr) DeepUpdate(d MapStr) {
	m.deepUpdateMap(d, true)
}

// DeepUpdateNoOverwrite recursively copies the key-value pairs from d to this
// map, keeping the values already present.
func (m MapStr) DeepUpdateNoOverwrite(d MapStr) {
	m.deepUpdateMap(d, false)
}

func (m MapStr) deepUpdateMap(d MapStr, overwrite bool) {
	for k, v := range d {
		if val, ok := tryToMapStr(v); ok {
			m[k] = deepUpdateValue(m[k], val, overwrite)
			continue
		}
		if _, exists := m[k]; overwrite || !exists {
			m[k] = v
		}
	}
}

func deepUpdateValue(old any, val MapStr, overwrite bool) any {
	sub, ok := tryToMapStr(old)
	if !ok || sub == nil {
		// old is no map, it is completely replaced by a copy of val.
		replacement := MapStr{}
		replacement.deepUpdateMap(val, true)
		return replacement
	}
	sub.deepUpdateMap(val, overwrite)
	return sub
}

// EncodeForm adds the map to values using the bracket notation understood by
// Rails based APIs: nested maps become a[b]=v and slices become a[]=v.
func (m MapStr) EncodeForm(values url.Values) {
	encodeForm(values, "", m)
}

func encodeForm(values url.Values, prefix string, v any) {
	if sub, ok := tryToMapStr(v); ok {
		for _, k := range slices.Sorted(maps.Keys(sub)) {
			key := k
			if prefix != "" {
				key = prefix + "[" + k + "]"
			}
			encodeForm(values, key, sub[k])
		}
		return
	}

	switch val := v.(type) {
	case nil:
	case []string:
		for _, item := range val {
			values.Add(prefix+"[]", item)
		}
	case []any:
		for _, item := range val {
			encodeForm(values, prefix+"[]", item)
		}
	case []int:
		for _, item := range val {
			values.Add(prefix+"[]", fmt.Sprint(item))
		}
	default:
		values.Add(prefix, fmt.Sprint(val))
	}
}

// ToMapStr performs a type assertion on v and returns a MapStr. v can be either
// a MapStr or a map[string]any. If it's any other type or nil then
// an error is returned.
func ToMapStr(v any) (MapStr, error) {
	m, ok := tryToMapStr(v)
	if !ok {
		return nil, fmt.Errorf("expected map but type is %T", v)
	}
	return m, nil
}

func tryToMapStr(v any) (MapStr, bool) {
	switch m := v.(type) {
	case MapStr:
		return m, true
	case map[string]any:
		return MapStr(m), true
	default:
		return nil, false
	}
}

// mapFind walks a MapStr following the dotted key, returning the final map
// and un-dotted key to operate on. When the value is present, present is true
// and oldValue holds it. Intermediate maps are created when createMissing is
// set, otherwise a missing intermediate returns ErrKeyNotFound.
func mapFind(
	key string,
	data MapStr,
	createMissing bool,
) (subKey string, subMap MapStr, oldValue any, present bool, err error) {
	for {
		if v, exists := data[key]; exists {
			return key, data, v, true, nil
		}

		k, rest, dotted := strings.Cut(key, ".")
		if !dotted {
			return key, data, nil, false, nil
		}

		d, exists := data[k]
		if !exists {
			if !createMissing {
				return "", nil, nil, false, ErrKeyNotFound
			}
			d = MapStr{}
			data[k] = d
		}

		v, err := ToMapStr(d)
		if err != nil {
			return "", nil, nil, false, err
		}

		key = rest
		data = v
	}
}
