// Package value holds the tagged record model shared by the parser, the
// expression evaluator and the serializer.
package value

import (
	"fmt"
	"maps"
	"math"
	"slices"

	"github.com/jacoelho/jsawk/internal/jsawk/number"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Value is an immutable tagged variant. The zero Value is Null.
type Value struct {
	kind Kind

	boolVal bool
	numVal  float64
	strVal  string

	listVal []Value
	mapVal  *mapData
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key   string
	Value Value
}

type mapData struct {
	entries []Entry
	index   map[string]int
}

// Null returns the null value.
func Null() Value {
	return Value{}
}

// Bool wraps a boolean.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Number wraps a float64.
func Number(f float64) Value {
	return Value{kind: KindNumber, numVal: f}
}

// String wraps a string.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// List builds an ordered list. The items slice is copied.
func List(items ...Value) Value {
	return Value{kind: KindList, listVal: slices.Clone(items)}
}

// Map builds a keyed map from entries in order. A repeated key keeps the
// position of its first occurrence and the value of its last.
func Map(entries ...Entry) Value {
	b := NewMapBuilder(len(entries))
	for _, e := range entries {
		b.Set(e.Key, e.Value)
	}
	return b.Build()
}

// MapBuilder accumulates map entries. It must not be used after Build.
type MapBuilder struct {
	data *mapData
}

// NewMapBuilder returns a builder sized for n entries.
func NewMapBuilder(n int) *MapBuilder {
	return &MapBuilder{data: &mapData{
		entries: make([]Entry, 0, n),
		index:   make(map[string]int, n),
	}}
}

// Set adds key or overwrites its value in place.
func (b *MapBuilder) Set(key string, v Value) {
	if i, ok := b.data.index[key]; ok {
		b.data.entries[i].Value = v
		return
	}
	b.data.index[key] = len(b.data.entries)
	b.data.entries = append(b.data.entries, Entry{Key: key, Value: v})
}

// Build returns the finished Map value.
func (b *MapBuilder) Build() Value {
	data := b.data
	b.data = nil
	return Value{kind: KindMap, mapVal: data}
}

func (v Value) Kind() Kind { return v.kind }

// Bool returns the boolean payload; false for other kinds.
func (v Value) Bool() bool { return v.boolVal }

// Number returns the numeric payload; 0 for other kinds.
func (v Value) Number() float64 { return v.numVal }

// Str returns the string payload; "" for other kinds.
func (v Value) Str() string { return v.strVal }

// Len returns the number of list items or map entries, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindList:
		return len(v.listVal)
	case KindMap:
		return len(v.mapVal.entries)
	default:
		return 0
	}
}

// Index returns the i-th list item.
func (v Value) Index(i int) (Value, bool) {
	if v.kind != KindList || i < 0 || i >= len(v.listVal) {
		return Value{}, false
	}
	return v.listVal[i], true
}

// EntryAt returns the i-th map entry in iteration order.
func (v Value) EntryAt(i int) (Entry, bool) {
	if v.kind != KindMap || i < 0 || i >= len(v.mapVal.entries) {
		return Entry{}, false
	}
	return v.mapVal.entries[i], true
}

// Get looks up a map key.
func (v Value) Get(key string) (Value, bool) {
	if v.kind != KindMap {
		return Value{}, false
	}
	i, ok := v.mapVal.index[key]
	if !ok {
		return Value{}, false
	}
	return v.mapVal.entries[i].Value, true
}

// Items returns a copy of the list items.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return slices.Clone(v.listVal)
}

// Entries returns a copy of the map entries in iteration order.
func (v Value) Entries() []Entry {
	if v.kind != KindMap {
		return nil
	}
	return slices.Clone(v.mapVal.entries)
}

// Keys returns the map keys in iteration order.
func (v Value) Keys() []string {
	if v.kind != KindMap {
		return nil
	}
	keys := make([]string, len(v.mapVal.entries))
	for i, e := range v.mapVal.entries {
		keys[i] = e.Key
	}
	return keys
}

// Truthy reports the value's truthiness: null, false, 0, NaN and "" are
// false, everything else (including empty lists and maps) is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNull:
		return false
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal != 0 && !math.IsNaN(v.numVal)
	case KindString:
		return v.strVal != ""
	default:
		return true
	}
}

// Equal reports structural equality. Map entry order is not significant.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}

	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.boolVal == b.boolVal
	case KindNumber:
		return a.numVal == b.numVal
	case KindString:
		return a.strVal == b.strVal
	case KindList:
		return slices.EqualFunc(a.listVal, b.listVal, Equal)
	case KindMap:
		if len(a.mapVal.entries) != len(b.mapVal.entries) {
			return false
		}
		for _, e := range a.mapVal.entries {
			other, ok := b.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// ToAny converts v into the generic shapes produced by encoding/json:
// nil, bool, float64, string, []any and map[string]any.
func (v Value) ToAny() any {
	switch v.kind {
	case KindBool:
		return v.boolVal
	case KindNumber:
		return v.numVal
	case KindString:
		return v.strVal
	case KindList:
		out := make([]any, len(v.listVal))
		for i, item := range v.listVal {
			out[i] = item.ToAny()
		}
		return out
	case KindMap:
		out := make(map[string]any, len(v.mapVal.entries))
		for _, e := range v.mapVal.entries {
			out[e.Key] = e.Value.ToAny()
		}
		return out
	default:
		return nil
	}
}

// FromAny converts generic decoded data back into a Value. Keys of a
// map[string]any have no order, so they are sorted.
func FromAny(data any) (Value, error) {
	switch current := data.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(current), nil
	case string:
		return String(current), nil
	case []any:
		items := make([]Value, len(current))
		for i, item := range current {
			converted, err := FromAny(item)
			if err != nil {
				return Value{}, err
			}
			items[i] = converted
		}
		return Value{kind: KindList, listVal: items}, nil
	case map[string]any:
		b := NewMapBuilder(len(current))
		for _, key := range slices.Sorted(maps.Keys(current)) {
			converted, err := FromAny(current[key])
			if err != nil {
				return Value{}, err
			}
			b.Set(key, converted)
		}
		return b.Build(), nil
	default:
		if f, ok := number.ToFloat64(current); ok {
			return Number(f), nil
		}
		return Value{}, fmt.Errorf("unsupported value type %T", data)
	}
}
