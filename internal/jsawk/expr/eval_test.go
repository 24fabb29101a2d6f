package expr

import (
	"errors"
	"math"
	"testing"

	"github.com/jacoelho/jsawk/internal/jsawk/literal"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

func mustRecord(t *testing.T, text string) value.Value {
	t.Helper()

	v, err := literal.Parse(text)
	if err != nil {
		t.Fatalf("literal.Parse(%q) error = %v", text, err)
	}
	return v
}

func TestEval(t *testing.T) {
	t.Parallel()

	record := `{x: 1, name: 'Ada', tags: ['a', 'b'], nested: {deep: {v: 2.5}}, 'odd key': true, n: null, "1": 'one'}`

	tests := []struct {
		name string
		expr string
		want string
	}{
		{name: "record", expr: "$", want: record},
		{name: "field", expr: "$.x", want: "1"},
		{name: "nested_field", expr: "$.nested.deep.v", want: "2.5"},
		{name: "bracket_field", expr: "$['odd key']", want: "true"},
		{name: "numeric_key", expr: "$[1]", want: "'one'"},
		{name: "index", expr: "$.tags[1]", want: "'b'"},
		{name: "length_of_list", expr: "$.tags.length", want: "2"},
		{name: "length_of_string", expr: "$.name.length", want: "3"},
		{name: "string_index", expr: "$.name[0]", want: "'A'"},
		{name: "missing_field", expr: "$.missing", want: "null"},
		{name: "missing_chain", expr: "$.missing.deeper[3]", want: "null"},
		{name: "out_of_range", expr: "$.tags[9]", want: "null"},
		{name: "fractional_index", expr: "$.tags[0.5]", want: "null"},
		{name: "equality", expr: "$.x == 1", want: "true"},
		{name: "strict_equality", expr: "$.x === 1", want: "true"},
		{name: "kind_mismatch_equality", expr: "$.x == '1'", want: "false"},
		{name: "inequality", expr: "$.name != 'Bob'", want: "true"},
		{name: "structural_equality", expr: "$.tags == ['a', 'b']", want: "true"},
		{name: "null_equality", expr: "$.n == null && $.missing == undefined", want: "true"},
		{name: "less", expr: "$.x < 2", want: "true"},
		{name: "greater_equal", expr: "$.nested.deep.v >= 2.5", want: "true"},
		{name: "string_order", expr: "$.name < 'Bob'", want: "true"},
		{name: "mixed_order", expr: "$.name < 2", want: "false"},
		{name: "null_order", expr: "$.missing > 0", want: "false"},
		{name: "arithmetic_precedence", expr: "1 + 2 * 3 - 4 / 2", want: "5"},
		{name: "modulo", expr: "-7 % 3", want: "-1"},
		{name: "parentheses", expr: "(1 + 2) * 3", want: "9"},
		{name: "unary_minus", expr: "-$.x", want: "-1"},
		{name: "division_by_zero", expr: "1 / 0", want: "Infinity"},
		{name: "concatenation", expr: "$.name + '-' + $.x", want: "'Ada-1'"},
		{name: "concatenation_null", expr: "'v:' + $.n", want: "'v:null'"},
		{name: "or_default", expr: "$.missing || 'anon'", want: "'anon'"},
		{name: "or_returns_left", expr: "$.name || 'anon'", want: "'Ada'"},
		{name: "and_returns_right", expr: "$.x && $.name", want: "'Ada'"},
		{name: "and_short_circuit", expr: "$.n && $.n.x * 2", want: "null"},
		{name: "not", expr: "!$.missing", want: "true"},
		{name: "double_not", expr: "!!$.tags", want: "true"},
		{name: "ternary", expr: "$.x > 0 ? 'pos' : 'neg'", want: "'pos'"},
		{name: "nested_ternary", expr: "$.x > 5 ? 'big' : $.x > 0 ? 'small' : 'none'", want: "'small'"},
		{name: "list_literal", expr: "[$.x, $.name, []]", want: "[1, 'Ada', []]"},
		{name: "map_literal", expr: "{id: $.x, 'label': upper($.name), 2: true, null: 0}", want: "{id: 1, label: 'ADA', '2': true, 'null': 0}"},
		{name: "keyword_field_name", expr: "{true: 1}.true", want: "1"},
		{name: "len", expr: "len($.tags) + len($.name) + len($)", want: "12"},
		{name: "keys", expr: "keys($.nested)", want: "['deep']"},
		{name: "keys_of_list", expr: "keys($.tags)", want: "[0, 1]"},
		{name: "values", expr: "values({a: 1, b: [2]})", want: "[1, [2]]"},
		{name: "has", expr: "has($, 'x') && !has($, 'y') && has($.tags, 1)", want: "true"},
		{name: "contains_string", expr: "contains($.name, 'd')", want: "true"},
		{name: "contains_list", expr: "contains($.tags, 'b')", want: "true"},
		{name: "contains_map", expr: "contains($, 'nested')", want: "true"},
		{name: "starts_ends", expr: "startsWith($.name, 'A') && endsWith($.name, 'a')", want: "true"},
		{name: "lower", expr: "lower($.name)", want: "'ada'"},
		{name: "matches", expr: "matches($.name, '^A.a$')", want: "true"},
		{name: "matches_non_string", expr: "matches($.x, '1')", want: "false"},
		{name: "select", expr: "select($, '$.tags[*]')", want: "['a', 'b']"},
		{name: "select_descendant", expr: "select($, '$..v')[0]", want: "2.5"},
		{name: "select_no_match", expr: "select($, '$.nope')", want: "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}

			got, err := e.Eval(mustRecord(t, record))
			if err != nil {
				t.Fatalf("Eval(%q) error = %v", tt.expr, err)
			}

			want := mustRecord(t, tt.want)
			if !value.Equal(got, want) {
				t.Fatalf("Eval(%q) = %#v, want %#v", tt.expr, got.ToAny(), want.ToAny())
			}
		})
	}
}

func TestEvalNaN(t *testing.T) {
	t.Parallel()

	e, err := Parse("0 / 0")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	got, err := e.Eval(value.Null())
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	if !math.IsNaN(got.Number()) {
		t.Fatalf("Eval(0 / 0) = %v, want NaN", got.Number())
	}
}

func TestEvalErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
	}{
		{name: "multiply_string", expr: "$.name * 2"},
		{name: "subtract_null", expr: "$.missing - 1"},
		{name: "add_bool", expr: "true + 1"},
		{name: "concatenate_list", expr: "'x' + $.tags"},
		{name: "negate_string", expr: "-$.name"},
		{name: "len_of_number", expr: "len(1)"},
		{name: "upper_of_null", expr: "upper($.missing)"},
		{name: "keys_of_string", expr: "keys('abc')"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e, err := Parse(tt.expr)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.expr, err)
			}

			_, err = e.Eval(mustRecord(t, "{name: 'Ada', tags: []}"))
			if !errors.Is(err, ErrEvaluation) {
				t.Fatalf("Eval(%q) error = %v, want ErrEvaluation", tt.expr, err)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		expr string
	}{
		{name: "empty", expr: "   "},
		{name: "missing_right_operand", expr: "$.x =="},
		{name: "missing_closing_paren", expr: "($.x == 1"},
		{name: "single_equals", expr: "$.x = 1"},
		{name: "unknown_variable", expr: "x == 1"},
		{name: "unknown_function", expr: "eval('1')"},
		{name: "wrong_arity", expr: "len($, 1)"},
		{name: "invalid_regex", expr: "matches($.a, '(')"},
		{name: "dynamic_regex", expr: "matches($.a, $.b)"},
		{name: "invalid_jsonpath", expr: "select($, '$[')"},
		{name: "dangling_dot", expr: "$."},
		{name: "unterminated_string", expr: "'abc"},
		{name: "trailing_tokens", expr: "$.x $.y"},
		{name: "missing_ternary_branch", expr: "$.x ? 1"},
		{name: "bad_map_key", expr: "{[1]: 2}"},
		{name: "unexpected_character", expr: "$.x # 1"},
		{name: "statement", expr: "$.x; 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(tt.expr)
			if !errors.Is(err, ErrInvalidExpression) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalidExpression", tt.expr, err)
			}
		})
	}
}

func TestEvalIsPure(t *testing.T) {
	t.Parallel()

	e, err := Parse("{a: $.x + 1, b: $}")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	record := mustRecord(t, "{x: 1}")
	first, err := e.Eval(record)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}
	second, err := e.Eval(record)
	if err != nil {
		t.Fatalf("Eval() error = %v", err)
	}

	if !value.Equal(first, second) {
		t.Fatal("Eval() returned different results for the same record")
	}
	if !value.Equal(record, mustRecord(t, "{x: 1}")) {
		t.Fatal("Eval() modified its input record")
	}
}
