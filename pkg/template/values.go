package template

import (
	"fmt"
	"reflect"
	"strconv"
)

// Value is the closed set of values the renderer understands. It defines
// string conversion and truthiness semantics, so dot-path resolution and
// condition evaluation never have to shape-sniff arbitrary Go values.
type Value interface {
	String() string
	Truth() bool
}

// LookupHook can be implemented by Value containers to answer dot-path
// lookups dynamically, e.g. to expose a request object lazily.
type LookupHook interface {
	OnLookup(key string) (Value, bool)
}

// NoneValue represents the absence of a value. It prints as the empty
// string, which is how missing context paths render.
type NoneValue struct{}

func (NoneValue) String() string { return "" }
func (NoneValue) Truth() bool    { return false }

// BoolValue wraps a boolean.
type BoolValue bool

func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Truth() bool { return bool(b) }

// IntValue wraps an integer (64-bit).
type IntValue int64

func (i IntValue) String() string { return strconv.FormatInt(int64(i), 10) }
func (i IntValue) Truth() bool    { return int64(i) != 0 }

// FloatValue wraps a float (64-bit).
type FloatValue float64

func (f FloatValue) String() string { return strconv.FormatFloat(float64(f), 'g', -1, 64) }
func (f FloatValue) Truth() bool    { return float64(f) != 0 }

// StringValue wraps a string.
type StringValue string

func (s StringValue) String() string { return string(s) }
func (s StringValue) Truth() bool    { return len(s) > 0 }

// ListValue wraps a list of values.
type ListValue []Value

func (l ListValue) String() string {
	out := ""
	for i, v := range l {
		if i > 0 {
			out += " "
		}
		out += v.String()
	}
	return out
}
func (l ListValue) Truth() bool { return len(l) > 0 }

// DictValue wraps a string-keyed dictionary of values.
type DictValue map[string]Value

func (d DictValue) String() string { return "{...}" }
func (d DictValue) Truth() bool    { return len(d) > 0 }

// Context is the key-value mapping a template renders against. The
// renderer treats it as read-only; loops derive fresh layers per
// iteration instead of mutating it.
type Context map[string]Value

// Layer returns a shallow copy of the context for scoped additions.
func (c Context) Layer() Context {
	out := make(Context, len(c)+2)
	for k, v := range c {
		out[k] = v
	}
	return out
}

// NewContextFromAny converts a map[string]any into a Context, recursively
// converting nested maps and slices.
func NewContextFromAny(m map[string]any) Context {
	ctx := Context{}
	for k, v := range m {
		ctx[k] = FromGo(v)
	}
	return ctx
}

// FromGo converts a Go value to a Value.
func FromGo(v any) Value {
	if v == nil {
		return NoneValue{}
	}
	switch t := v.(type) {
	case Value:
		return t
	case string:
		return StringValue(t)
	case bool:
		return BoolValue(t)
	case int:
		return IntValue(int64(t))
	case int32:
		return IntValue(int64(t))
	case int64:
		return IntValue(t)
	case float32:
		return FloatValue(float64(t))
	case float64:
		return FloatValue(t)
	case []byte:
		return StringValue(string(t))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		n := rv.Len()
		out := make(ListValue, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, FromGo(rv.Index(i).Interface()))
		}
		return out
	case reflect.Map:
		// Only string keys are supported.
		if rv.Type().Key().Kind() == reflect.String {
			out := DictValue{}
			it := rv.MapRange()
			for it.Next() {
				out[it.Key().String()] = FromGo(it.Value().Interface())
			}
			return out
		}
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return NoneValue{}
		}
		return FromGo(rv.Elem().Interface())
	}
	// Fallback: string formatting.
	return StringValue(fmt.Sprintf("%v", v))
}
