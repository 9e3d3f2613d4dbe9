package query

import (
	"fmt"
	"maps"
	"net/url"
	"slices"
	"strings"
)

// Params is the query string of the current location. Keys a caller does not
// own are carried through untouched.
type Params map[string]string

// Parse reads a raw query string, with or without the leading "?". When a key
// repeats, the first value wins.
func Parse(raw string) (Params, error) {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	if raw == "" {
		return Params{}, nil
	}

	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse query %q: %w", raw, err)
	}

	params := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params, nil
}

// FromValues converts url.Values using the first value of each key.
func FromValues(values url.Values) Params {
	params := make(Params, len(values))
	for k, v := range values {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}
	return params
}

// Encode renders params with keys sorted, so equal params encode identically.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	values := make(url.Values, len(p))
	for k, v := range p {
		values.Set(k, v)
	}
	return values.Encode()
}

func (p Params) String() string {
	encoded := p.Encode()
	if encoded == "" {
		return ""
	}
	return "?" + encoded
}

func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

func (p Params) Equal(other Params) bool {
	return maps.Equal(p, other)
}

func (p Params) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// Merge returns a copy of p with set applied and drop removed.
func (p Params) Merge(set Params, drop []string) Params {
	out := make(Params, len(p)+len(set))
	maps.Copy(out, p)
	for _, k := range drop {
		delete(out, k)
	}
	maps.Copy(out, set)
	return out
}
