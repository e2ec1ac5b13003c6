package template

import (
	"fmt"
	"strconv"
	"strings"
)

// Filters is a registry of filter functions applied in {{ expr|name:arg }}
// pipelines.
type Filters map[string]func(val Value, args []Value) (Value, error)

// DefaultFilters provides a small set of common filters.
func DefaultFilters() Filters {
	return Filters{
		"upper": func(val Value, _ []Value) (Value, error) { return StringValue(strings.ToUpper(val.String())), nil },
		"lower": func(val Value, _ []Value) (Value, error) { return StringValue(strings.ToLower(val.String())), nil },
		"trim":  func(val Value, _ []Value) (Value, error) { return StringValue(strings.TrimSpace(val.String())), nil },
		"default": func(val Value, args []Value) (Value, error) {
			if len(args) < 1 || val.Truth() {
				return val, nil
			}
			return args[0], nil
		},
		"join": func(val Value, args []Value) (Value, error) {
			sep := ","
			if len(args) > 0 {
				sep = args[0].String()
			}
			list, ok := val.(ListValue)
			if !ok {
				return val, nil
			}
			parts := make([]string, 0, len(list))
			for _, v := range list {
				parts = append(parts, v.String())
			}
			return StringValue(strings.Join(parts, sep)), nil
		},
		"length": func(val Value, _ []Value) (Value, error) {
			switch t := val.(type) {
			case StringValue:
				return IntValue(len(t)), nil
			case ListValue:
				return IntValue(len(t)), nil
			case DictValue:
				return IntValue(len(t)), nil
			}
			return IntValue(0), nil
		},
	}
}

// Evaluator resolves output expressions and if-tag conditions against a
// Context.
type Evaluator struct {
	Filters Filters
}

func NewEvaluator() *Evaluator { return &Evaluator{Filters: DefaultFilters()} }

// Eval evaluates an output expression: an atom optionally followed by a
// filter pipeline, e.g. name|upper|default:"Anon".
func (e *Evaluator) Eval(expr string, ctx Context) (Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return NoneValue{}, nil
	}
	parts := splitPipes(expr)
	val := resolveAtom(parts[0], ctx)
	for _, f := range parts[1:] {
		name, args := parseFilterCall(f, ctx)
		fn := e.Filters[name]
		if fn == nil {
			return nil, fmt.Errorf("unknown filter: %s", name)
		}
		var err error
		val, err = fn(val, args)
		if err != nil {
			return nil, err
		}
	}
	return val, nil
}

// Comparison operators in match order: two-character forms first.
var compareOps = []string{"==", "!=", ">=", "<=", ">", "<"}

// Truthy evaluates an if-tag condition. The grammar is small: an optional
// leading "not", one binary comparison, or a bare truthiness check.
func (e *Evaluator) Truthy(cond string, ctx Context) (bool, error) {
	s := strings.TrimSpace(cond)
	if s == "" {
		return false, nil
	}
	if rest, ok := strings.CutPrefix(s, "not "); ok {
		b, err := e.Truthy(rest, ctx)
		if err != nil {
			return false, err
		}
		return !b, nil
	}
	for _, op := range compareOps {
		i := indexOutsideQuotes(s, op)
		if i < 0 {
			continue
		}
		left, err := e.Eval(s[:i], ctx)
		if err != nil {
			return false, err
		}
		right, err := e.Eval(s[i+len(op):], ctx)
		if err != nil {
			return false, err
		}
		return compare(op, left, right), nil
	}
	v, err := e.Eval(s, ctx)
	if err != nil {
		return false, err
	}
	return v.Truth(), nil
}

func compare(op string, a, b Value) bool {
	switch op {
	case "==":
		return looseEqual(a, b)
	case "!=":
		return !looseEqual(a, b)
	case ">":
		return toFloat(a) > toFloat(b)
	case ">=":
		return toFloat(a) >= toFloat(b)
	case "<":
		return toFloat(a) < toFloat(b)
	case "<=":
		return toFloat(a) <= toFloat(b)
	}
	return false
}

// looseEqual compares numerically when both sides are numeric, otherwise
// by textual form, so 1 == "1" holds.
func looseEqual(a, b Value) bool {
	if isNumeric(a) && isNumeric(b) {
		return toFloat(a) == toFloat(b)
	}
	if _, ok := a.(NoneValue); ok {
		_, ok2 := b.(NoneValue)
		return ok2
	}
	if _, ok := b.(NoneValue); ok {
		return false
	}
	return a.String() == b.String()
}

func isNumeric(v Value) bool {
	switch v.(type) {
	case IntValue, FloatValue:
		return true
	}
	return false
}

func toFloat(v Value) float64 {
	switch t := v.(type) {
	case IntValue:
		return float64(t)
	case FloatValue:
		return float64(t)
	default:
		f, _ := strconv.ParseFloat(v.String(), 64)
		return f
	}
}

// resolveAtom resolves a single operand: a quoted string, a numeric
// literal, a keyword literal, or a context dot-path. Missing paths resolve
// to none, never an error.
func resolveAtom(s string, ctx Context) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return NoneValue{}
	}
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '\'') && s[len(s)-1] == q {
			return StringValue(s[1 : len(s)-1])
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return IntValue(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FloatValue(f)
	}
	switch s {
	case "true", "True":
		return BoolValue(true)
	case "false", "False":
		return BoolValue(false)
	case "null", "none", "None":
		return NoneValue{}
	}
	return lookupPath(s, ctx)
}

// lookupPath walks a dot-path through the context. Any missing link yields
// none. Numeric segments index lists.
func lookupPath(path string, ctx Context) Value {
	parts := strings.Split(path, ".")
	var cur Value
	if v, ok := ctx[parts[0]]; ok {
		cur = v
	} else {
		return NoneValue{}
	}
	for _, key := range parts[1:] {
		v, ok := lookup(cur, key)
		if !ok {
			return NoneValue{}
		}
		cur = v
	}
	return cur
}

func lookup(v Value, key string) (Value, bool) {
	switch t := v.(type) {
	case DictValue:
		out, ok := t[key]
		return out, ok
	case ListValue:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(t) {
			return nil, false
		}
		return t[idx], true
	case LookupHook:
		return t.OnLookup(key)
	default:
		return nil, false
	}
}

// splitPipes splits a pipeline on '|' outside quotes.
func splitPipes(s string) []string {
	var parts []string
	var b strings.Builder
	inStr := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inStr != 0 {
			b.WriteByte(c)
			if c == inStr {
				inStr = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			inStr = c
			b.WriteByte(c)
		case '|':
			parts = append(parts, strings.TrimSpace(b.String()))
			b.Reset()
		default:
			b.WriteByte(c)
		}
	}
	parts = append(parts, strings.TrimSpace(b.String()))
	return parts
}

// parseFilterCall splits "name:arg" into the filter name and its argument,
// resolved as an atom.
func parseFilterCall(s string, ctx Context) (string, []Value) {
	i := indexOutsideQuotes(s, ":")
	if i < 0 {
		return strings.TrimSpace(s), nil
	}
	name := strings.TrimSpace(s[:i])
	arg := resolveAtom(s[i+1:], ctx)
	return name, []Value{arg}
}

func indexOutsideQuotes(s, sub string) int {
	inStr := byte(0)
	for i := 0; i+len(sub) <= len(s); i++ {
		c := s[i]
		if inStr != 0 {
			if c == inStr {
				inStr = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			inStr = c
			continue
		}
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}
