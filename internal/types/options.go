package types

import (
	"encoding/json"
	"maps"
)

// Options is the opaque keyword bag forwarded to backends. The gateway only
// extracts the few keys it consumes itself and passes the rest through.
type Options map[string]any

// Clone returns a shallow copy so popping keys never touches the caller's map.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Pop removes key and returns its value.
func (o Options) Pop(key string) (any, bool) {
	v, ok := o[key]
	if ok {
		delete(o, key)
	}
	return v, ok
}

// PopString removes key and returns it as a string, or def when the key is
// absent, empty or not a string.
func (o Options) PopString(key, def string) string {
	v, ok := o.Pop(key)
	if !ok {
		return def
	}
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return def
}

// TakeString removes key and returns its string value, or "" when the key
// is absent or null. Any other type is rejected as an invalid
// options.<key> field and the bag is left as it was.
func (o Options) TakeString(key string) (string, error) {
	if err := o.CheckString(key); err != nil {
		return "", err
	}
	v, _ := o.Pop(key)
	s, _ := v.(string)
	return s, nil
}

// CheckString reports a present value at key that is neither a string
// nor null.
func (o Options) CheckString(key string) error {
	switch o[key].(type) {
	case nil, string:
		return nil
	}
	return InvalidField("options."+key, "expected string")
}

// String returns the value for key when it is a string.
func (o Options) String(key string) (string, bool) {
	s, ok := o[key].(string)
	return s, ok
}

// Float returns the numeric value for key. JSON numbers arrive as float64.
func (o Options) Float(key string) (float64, bool) {
	switch v := o[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}

// Int returns the numeric value for key truncated to an int.
func (o Options) Int(key string) (int, bool) {
	f, ok := o.Float(key)
	return int(f), ok
}
