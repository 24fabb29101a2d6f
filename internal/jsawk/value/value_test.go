package value

import (
	"math"
	"reflect"
	"testing"
)

func TestMapDuplicateKeys(t *testing.T) {
	t.Parallel()

	m := Map(
		Entry{Key: "a", Value: Number(1)},
		Entry{Key: "b", Value: Number(2)},
		Entry{Key: "a", Value: Number(3)},
	)

	if got, want := m.Keys(), []string{"a", "b"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}

	got, ok := m.Get("a")
	if !ok || got.Number() != 3 {
		t.Fatalf("Get(a) = (%v, %v), want (3, true)", got.Number(), ok)
	}
}

func TestAccessorsDoNotExposeInternals(t *testing.T) {
	t.Parallel()

	list := List(Number(1), Number(2))
	items := list.Items()
	items[0] = String("mutated")

	first, _ := list.Index(0)
	if first.Kind() != KindNumber {
		t.Fatalf("Index(0).Kind() = %v, want number", first.Kind())
	}

	m := Map(Entry{Key: "k", Value: Bool(true)})
	entries := m.Entries()
	entries[0].Value = Null()

	v, _ := m.Get("k")
	if !v.Bool() {
		t.Fatal("Get(k) changed after mutating Entries() copy")
	}
}

func TestZeroValueIsNull(t *testing.T) {
	t.Parallel()

	var v Value
	if v.Kind() != KindNull {
		t.Fatalf("zero Value kind = %v, want null", v.Kind())
	}
	if v.Len() != 0 {
		t.Fatalf("zero Value Len() = %d, want 0", v.Len())
	}
}

func TestTruthy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Value
		want  bool
	}{
		{name: "null", value: Null(), want: false},
		{name: "false", value: Bool(false), want: false},
		{name: "true", value: Bool(true), want: true},
		{name: "zero", value: Number(0), want: false},
		{name: "nan", value: Number(math.NaN()), want: false},
		{name: "number", value: Number(-1), want: true},
		{name: "empty_string", value: String(""), want: false},
		{name: "string", value: String("0"), want: true},
		{name: "empty_list", value: List(), want: true},
		{name: "empty_map", value: Map(), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.value.Truthy(); got != tt.want {
				t.Fatalf("Truthy() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqual(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{name: "numbers", a: Number(1), b: Number(1), want: true},
		{name: "nan", a: Number(math.NaN()), b: Number(math.NaN()), want: false},
		{name: "kind_mismatch", a: Number(1), b: String("1"), want: false},
		{name: "null", a: Null(), b: Null(), want: true},
		{name: "lists", a: List(Number(1), String("x")), b: List(Number(1), String("x")), want: true},
		{name: "list_length", a: List(Number(1)), b: List(Number(1), Number(2)), want: false},
		{name: "list_vs_map", a: List(), b: Map(), want: false},
		{
			name: "maps_ignore_order",
			a:    Map(Entry{Key: "a", Value: Number(1)}, Entry{Key: "b", Value: Number(2)}),
			b:    Map(Entry{Key: "b", Value: Number(2)}, Entry{Key: "a", Value: Number(1)}),
			want: true,
		},
		{
			name: "maps_differ",
			a:    Map(Entry{Key: "a", Value: Number(1)}),
			b:    Map(Entry{Key: "a", Value: Number(2)}),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Fatalf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAnyBridge(t *testing.T) {
	t.Parallel()

	original := Map(
		Entry{Key: "z", Value: List(Number(1), Bool(false), Null())},
		Entry{Key: "a", Value: String("x")},
	)

	data := original.ToAny()
	want := map[string]any{
		"z": []any{1.0, false, nil},
		"a": "x",
	}
	if !reflect.DeepEqual(data, want) {
		t.Fatalf("ToAny() = %#v, want %#v", data, want)
	}

	back, err := FromAny(data)
	if err != nil {
		t.Fatalf("FromAny() error = %v", err)
	}
	if !Equal(back, original) {
		t.Fatal("FromAny(ToAny()) is not structurally equal to the original")
	}
	if got := back.Keys(); !reflect.DeepEqual(got, []string{"a", "z"}) {
		t.Fatalf("FromAny() keys = %v, want sorted [a z]", got)
	}
}

func TestFromAnyRejectsUnknownTypes(t *testing.T) {
	t.Parallel()

	if _, err := FromAny(struct{}{}); err == nil {
		t.Fatal("FromAny(struct{}{}) expected error")
	}
	if got, err := FromAny(int64(5)); err != nil || got.Number() != 5 {
		t.Fatalf("FromAny(int64(5)) = (%v, %v), want (5, nil)", got.Number(), err)
	}
}
