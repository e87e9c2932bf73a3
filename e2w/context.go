package e2w

import (
	"fmt"
	"sort"
	"strings"
)

// APICalls extracts the "apis" entries from the context. Each entry maps a
// context key to the call that produces its value. Entries may be APICall
// values or generic maps (the YAML/JSON form). An entry keyed by the URL
// itself may omit the url field.
func (c Context) APICalls() (map[string]APICall, error) {
	raw, ok := c[KeyAPIs]
	if !ok || raw == nil {
		return nil, nil
	}

	calls := make(map[string]APICall)
	switch entries := raw.(type) {
	case map[string]APICall:
		for key, call := range entries {
			calls[key] = call
		}
	case map[string]any:
		for key, entry := range entries {
			call, err := parseAPICall(entry)
			if err != nil {
				return nil, NewError(KindValidation, fmt.Sprintf("api entry %q is invalid", key), err)
			}
			calls[key] = call
		}
	default:
		return nil, NewError(KindValidation, "apis must be a mapping of key to call spec", nil)
	}

	for key, call := range calls {
		if strings.TrimSpace(call.URL) != "" {
			continue
		}
		// URL-keyed form: the map key is the endpoint itself.
		if strings.Contains(key, "://") {
			call.URL = key
			calls[key] = call
			continue
		}
		return nil, NewError(KindValidation, fmt.Sprintf("api entry %q has no url", key), nil)
	}
	return calls, nil
}

func parseAPICall(entry any) (APICall, error) {
	switch v := entry.(type) {
	case APICall:
		return v, nil
	case map[string]any:
		call := APICall{}
		for field, value := range v {
			switch strings.ToLower(field) {
			case "url":
				call.URL, _ = value.(string)
			case "method":
				call.Method, _ = value.(string)
			case "params":
				params, ok := value.(map[string]any)
				if !ok && value != nil {
					return APICall{}, fmt.Errorf("params must be a mapping")
				}
				call.Params = params
			case "headers":
				call.Headers = stringMap(value)
			case "result":
				call.Result, _ = value.(string)
			}
		}
		return call, nil
	default:
		return APICall{}, fmt.Errorf("call spec must be a mapping")
	}
}

// Headers extracts the shared "api_headers" entry.
func (c Context) Headers() APIHeaders {
	raw, ok := c[KeyAPIHeaders]
	if !ok || raw == nil {
		return nil
	}
	switch v := raw.(type) {
	case APIHeaders:
		return v
	case map[string]string:
		return APIHeaders(v)
	default:
		return APIHeaders(stringMap(raw))
	}
}

func stringMap(raw any) map[string]string {
	m, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	out := make(map[string]string, len(m))
	for key, value := range m {
		out[key] = fmt.Sprintf("%v", value)
	}
	return out
}

// Merge returns a copy of the context with API entries replaced by their
// resolved values. The reserved keys are dropped from the merged view.
func (c Context) Merge(resolved map[string]any) Context {
	merged := make(Context, len(c)+len(resolved))
	for key, value := range c {
		if key == KeyAPIs || key == KeyAPIHeaders {
			continue
		}
		merged[key] = value
	}
	for key, value := range resolved {
		merged[key] = value
	}
	return merged
}

// ScalarKeys returns the context keys bound to scalar values, sorted for
// deterministic iteration.
func (c Context) ScalarKeys() []string {
	keys := make([]string, 0, len(c))
	for key, value := range c {
		switch value.(type) {
		case string, bool, int, int32, int64, float32, float64:
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}
