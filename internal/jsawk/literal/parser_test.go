package literal

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  value.Value
	}{
		{name: "null", input: "null", want: value.Null()},
		{name: "undefined", input: "undefined", want: value.Null()},
		{name: "true", input: "true", want: value.Bool(true)},
		{name: "integer", input: "42", want: value.Number(42)},
		{name: "negative_exponent", input: "-1.5e2", want: value.Number(-150)},
		{name: "hex", input: "0xff", want: value.Number(255)},
		{name: "leading_dot", input: ".25", want: value.Number(0.25)},
		{name: "infinity", input: "-Infinity", want: value.Number(math.Inf(-1))},
		{name: "double_quoted", input: `"a\"b"`, want: value.String(`a"b`)},
		{name: "single_quoted", input: `'it\'s'`, want: value.String("it's")},
		{name: "single_quoted_with_double", input: `'say "hi"'`, want: value.String(`say "hi"`)},
		{name: "empty_list", input: "[]", want: value.List()},
		{name: "empty_map", input: "{}", want: value.Map()},
		{
			name:  "list",
			input: "[1, 'two', [3], {four: 4},]",
			want: value.List(
				value.Number(1),
				value.String("two"),
				value.List(value.Number(3)),
				value.Map(value.Entry{Key: "four", Value: value.Number(4)}),
			),
		},
		{
			name:  "unquoted_keys",
			input: "{a:1,b:2}",
			want: value.Map(
				value.Entry{Key: "a", Value: value.Number(1)},
				value.Entry{Key: "b", Value: value.Number(2)},
			),
		},
		{
			name:  "mixed_keys",
			input: ` { "x y" : true , 'q':null, $id: "7", _k2: [], 10: 'ten' } `,
			want: value.Map(
				value.Entry{Key: "x y", Value: value.Bool(true)},
				value.Entry{Key: "q", Value: value.Null()},
				value.Entry{Key: "$id", Value: value.String("7")},
				value.Entry{Key: "_k2", Value: value.List()},
				value.Entry{Key: "10", Value: value.String("ten")},
			),
		},
		{
			name:  "strict_json",
			input: `{"a":[1,2,{"b":null}],"c":"d"}`,
			want: value.Map(
				value.Entry{Key: "a", Value: value.List(
					value.Number(1),
					value.Number(2),
					value.Map(value.Entry{Key: "b", Value: value.Null()}),
				)},
				value.Entry{Key: "c", Value: value.String("d")},
			),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !value.Equal(got, tt.want) {
				t.Fatalf("Parse(%q) = %#v, want %#v", tt.input, got.ToAny(), tt.want.ToAny())
			}
		})
	}
}

func TestParseClassifiesBySyntax(t *testing.T) {
	t.Parallel()

	list, err := Parse("[]")
	if err != nil {
		t.Fatalf("Parse([]) error = %v", err)
	}
	if list.Kind() != value.KindList {
		t.Fatalf("Parse([]).Kind() = %v, want list", list.Kind())
	}

	m, err := Parse("{0: 'a', 1: 'b'}")
	if err != nil {
		t.Fatalf("Parse(map) error = %v", err)
	}
	if m.Kind() != value.KindMap {
		t.Fatalf("Parse(map).Kind() = %v, want map", m.Kind())
	}
}

func TestParseDuplicateKeysLastWins(t *testing.T) {
	t.Parallel()

	got, err := Parse("{a:1, b:2, a:3}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if keys := got.Keys(); !reflect.DeepEqual(keys, []string{"a", "b"}) {
		t.Fatalf("Keys() = %v, want [a b]", keys)
	}
	if a, _ := got.Get("a"); a.Number() != 3 {
		t.Fatalf("Get(a) = %v, want 3", a.Number())
	}
}

func TestParseNaN(t *testing.T) {
	t.Parallel()

	got, err := Parse("NaN")
	if err != nil {
		t.Fatalf("Parse(NaN) error = %v", err)
	}
	if got.Kind() != value.KindNumber || !math.IsNaN(got.Number()) {
		t.Fatalf("Parse(NaN) = %v, want NaN number", got.ToAny())
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{name: "empty", input: "   "},
		{name: "unterminated_map", input: "{bad"},
		{name: "missing_colon", input: "{a 1}"},
		{name: "missing_value", input: "{a:}"},
		{name: "unterminated_list", input: "[1,2"},
		{name: "hole", input: "[1,,2]"},
		{name: "unterminated_string", input: `"abc`},
		{name: "bad_escape", input: `"\u12"`},
		{name: "trailing_garbage", input: "{} {}"},
		{name: "bare_word", input: "hello"},
		{name: "function_call", input: "alert(1)"},
		{name: "bad_number", input: "1.2.3"},
		{name: "expression", input: "1+1"},
		{name: "negative_key", input: "{-1: 2}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) expected error", tt.input)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Fatalf("Parse(%q) error = %v, want ErrSyntax", tt.input, err)
			}
		})
	}
}

func TestParseDepthLimit(t *testing.T) {
	t.Parallel()

	deep := strings.Repeat("[", MaxDepth+1) + strings.Repeat("]", MaxDepth+1)
	if _, err := Parse(deep); !errors.Is(err, ErrSyntax) {
		t.Fatalf("Parse(deep) error = %v, want ErrSyntax", err)
	}

	ok := strings.Repeat("[", MaxDepth) + strings.Repeat("]", MaxDepth)
	if _, err := Parse(ok); err != nil {
		t.Fatalf("Parse(depth %d) error = %v", MaxDepth, err)
	}
}

func TestUnquote(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: `plain`, want: "plain", ok: true},
		{raw: `a\nb\tc`, want: "a\nb\tc", ok: true},
		{raw: `\x41é`, want: "Aé", ok: true},
		{raw: `\u{1F600}`, want: "😀", ok: true},
		{raw: `\uD83D\uDE00`, want: "😀", ok: true},
		{raw: `\q`, want: "q", ok: true},
		{raw: `\\`, want: `\`, ok: true},
		{raw: `\`, ok: false},
		{raw: `\x4`, ok: false},
		{raw: `\u{}`, ok: false},
		{raw: `\uzzzz`, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()

			got, ok := Unquote(tt.raw)
			if ok != tt.ok {
				t.Fatalf("Unquote(%q) ok = %v, want %v", tt.raw, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("Unquote(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
