package cli

import (
	"fmt"
	"net/url"
	"strings"

	"anyFeatures/types"
)

// parseParams merges a raw query string with key=value arguments; later
// arguments win.
func parseParams(raw string, args []string) (types.Request, error) {
	vals, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return types.Request{}, fmt.Errorf("parse --params: %w", err)
	}
	for _, a := range args {
		k, v, ok := strings.Cut(a, "=")
		if !ok || k == "" {
			return types.Request{}, fmt.Errorf("parameter %q: expected key=value", a)
		}
		vals.Set(k, v)
	}
	return types.RequestFromValues(vals), nil
}
