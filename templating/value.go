package templating

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Kind identifies the variant held by a Value.
type Kind int

// Value variants.
const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindMapping
	KindSequence
)

// String returns the variant name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindMapping:
		return "mapping"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Value is a node of template data. The zero Value is
// null. Values are never mutated after construction, so
// one tree may be shared by concurrent readers.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	m    map[string]Value
	seq  []Value
}

// NullValue returns the null Value.
func NullValue() Value { return Value{} }

// BoolValue wraps a boolean.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// NumberValue wraps a number.
func NumberValue(n float64) Value { return Value{kind: KindNumber, n: n} }

// StringValue wraps a string.
func StringValue(s string) Value { return Value{kind: KindString, s: s} }

// MappingValue wraps a mapping. The map is copied.
func MappingValue(m map[string]Value) Value {
	cp := make(map[string]Value, len(m))
	for key, val := range m {
		cp[key] = val
	}

	return Value{kind: KindMapping, m: cp}
}

// SequenceValue wraps a list of values. The slice is
// copied.
func SequenceValue(items ...Value) Value {
	cp := make([]Value, len(items))
	copy(cp, items)

	return Value{kind: KindSequence, seq: cp}
}

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number held by v.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsString returns the string held by v. Use String for
// the coerced representation of any variant.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Len returns the number of entries of a mapping or
// sequence, zero otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindMapping:
		return len(v.m)
	case KindSequence:
		return len(v.seq)
	default:
		return 0
	}
}

// Keys returns the sorted keys of a mapping.
func (v Value) Keys() []string {
	if v.kind != KindMapping {
		return nil
	}

	keys := make([]string, 0, len(v.m))
	for key := range v.m {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys
}

// Lookup returns the child named key. Mappings are
// addressed by key. Sequences are addressed by canonical
// decimal index ("0", "1", not "01"). Scalars have no
// children.
func (v Value) Lookup(key string) (Value, bool) {
	switch v.kind {
	case KindMapping:
		child, ok := v.m[key]

		return child, ok
	case KindSequence:
		idx, err := strconv.Atoi(key)
		if err != nil || strconv.Itoa(idx) != key {
			return Value{}, false
		}

		if idx < 0 || idx >= len(v.seq) {
			return Value{}, false
		}

		return v.seq[idx], true
	default:
		return Value{}, false
	}
}

// With returns a copy of mapping v with key set to val.
// On a non-mapping it returns a new mapping holding only
// key.
func (v Value) With(key string, val Value) Value {
	cp := make(map[string]Value, len(v.m)+1)
	if v.kind == KindMapping {
		for k, child := range v.m {
			cp[k] = child
		}
	}

	cp[key] = val

	return Value{kind: KindMapping, m: cp}
}

// String renders v the way it is written into
// substituted text: numbers in shortest form, sequences
// joined by commas, mappings as "[object Object]".
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindNumber:
		return formatNumber(v.n)
	case KindString:
		return v.s
	case KindMapping:
		return "[object Object]"
	case KindSequence:
		parts := make([]string, len(v.seq))

		for i, item := range v.seq {
			if item.kind == KindNull {
				continue
			}

			parts[i] = item.String()
		}

		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}

	abs := math.Abs(n)
	if abs >= 1e21 || abs < 1e-6 {
		out := strconv.FormatFloat(n, 'e', -1, 64)
		out = strings.Replace(out, "e-0", "e-", 1)

		return strings.Replace(out, "e+0", "e+", 1)
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}

// FromAny converts decoded JSON or YAML data into a
// Value tree.
func FromAny(raw interface{}) (Value, error) {
	const errCtx = "converting template data"

	switch typed := raw.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return typed, nil
	case bool:
		return BoolValue(typed), nil
	case string:
		return StringValue(typed), nil
	case float64:
		return NumberValue(typed), nil
	case float32:
		return NumberValue(float64(typed)), nil
	case int:
		return NumberValue(float64(typed)), nil
	case int64:
		return NumberValue(float64(typed)), nil
	case uint64:
		return NumberValue(float64(typed)), nil
	case json.Number:
		num, err := typed.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("%s: %w", errCtx, err)
		}

		return NumberValue(num), nil
	case []interface{}:
		items := make([]Value, len(typed))

		for i, item := range typed {
			val, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			items[i] = val
		}

		return Value{kind: KindSequence, seq: items}, nil
	case map[string]interface{}:
		m := make(map[string]Value, len(typed))

		for key, item := range typed {
			val, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			m[key] = val
		}

		return Value{kind: KindMapping, m: m}, nil
	case map[interface{}]interface{}:
		m := make(map[string]Value, len(typed))

		for key, item := range typed {
			val, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}

			m[fmt.Sprint(key)] = val
		}

		return Value{kind: KindMapping, m: m}, nil
	default:
		return Value{}, fmt.Errorf(
			"%s: unsupported type %T", errCtx, raw,
		)
	}
}
