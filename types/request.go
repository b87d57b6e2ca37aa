package types

import "net/url"

// Request is a read-only view of raw query parameters. Keys come from the
// client and must not be used as column names without an allow-list.
type Request struct {
	params map[string]string
}

// NewRequest copies params so later changes to the caller's map are not seen.
func NewRequest(params map[string]string) Request {
	cp := make(map[string]string, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return Request{params: cp}
}

// RequestFromValues keeps the first value of every key.
func RequestFromValues(v url.Values) Request {
	cp := make(map[string]string, len(v))
	for k, vs := range v {
		if len(vs) > 0 {
			cp[k] = vs[0]
		}
	}
	return Request{params: cp}
}

// Get returns the value at key; absent keys yield "".
func (r Request) Get(key string) string {
	return r.params[key]
}

// Lookup reports a non-empty value at key. Empty strings count as absent.
func (r Request) Lookup(key string) (string, bool) {
	v, ok := r.params[key]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// First returns the first non-empty value among keys.
func (r Request) First(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := r.Lookup(k); ok {
			return v, true
		}
	}
	return "", false
}

func (r Request) Len() int { return len(r.params) }
