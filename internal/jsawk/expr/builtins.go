package expr

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jsawk/internal/jsawk/value"
	"github.com/theory/jsonpath"
)

type builtinFunc func(args []value.Value) (value.Value, error)

// builtin describes a callable function. bind runs once at compile time with
// the unevaluated arguments so literal-only parameters (patterns, paths) are
// validated before any record is read.
type builtin struct {
	arity int
	bind  func(args []node) (builtinFunc, error)
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"len":        {arity: 1, bind: static(builtinLen)},
		"keys":       {arity: 1, bind: static(builtinKeys)},
		"values":     {arity: 1, bind: static(builtinValues)},
		"has":        {arity: 2, bind: static(builtinHas)},
		"contains":   {arity: 2, bind: static(builtinContains)},
		"startsWith": {arity: 2, bind: static(stringTest(strings.HasPrefix))},
		"endsWith":   {arity: 2, bind: static(stringTest(strings.HasSuffix))},
		"lower":      {arity: 1, bind: static(stringMap(strings.ToLower))},
		"upper":      {arity: 1, bind: static(stringMap(strings.ToUpper))},
		"matches":    {arity: 2, bind: bindMatches},
		"select":     {arity: 2, bind: bindSelect},
	}
}

var errNotLiteral = errors.New("second argument must be a string literal")

func static(fn builtinFunc) func([]node) (builtinFunc, error) {
	return func([]node) (builtinFunc, error) {
		return fn, nil
	}
}

func literalString(n node) (string, bool) {
	lit, ok := n.(literalNode)
	if !ok || lit.value.Kind() != value.KindString {
		return "", false
	}
	return lit.value.Str(), true
}

func builtinLen(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindString:
		return value.Number(float64(utf8.RuneCountInString(v.Str()))), nil
	case value.KindList, value.KindMap:
		return value.Number(float64(v.Len())), nil
	case value.KindNull:
		return value.Number(0), nil
	default:
		return value.Value{}, fmt.Errorf("no length for %s", v.Kind())
	}
}

func builtinKeys(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindMap:
		keys := v.Keys()
		items := make([]value.Value, len(keys))
		for i, key := range keys {
			items[i] = value.String(key)
		}
		return value.List(items...), nil
	case value.KindList:
		items := make([]value.Value, v.Len())
		for i := range items {
			items[i] = value.Number(float64(i))
		}
		return value.List(items...), nil
	default:
		return value.Value{}, fmt.Errorf("no keys for %s", v.Kind())
	}
}

func builtinValues(args []value.Value) (value.Value, error) {
	v := args[0]
	switch v.Kind() {
	case value.KindMap:
		entries := v.Entries()
		items := make([]value.Value, len(entries))
		for i, e := range entries {
			items[i] = e.Value
		}
		return value.List(items...), nil
	case value.KindList:
		return v, nil
	default:
		return value.Value{}, fmt.Errorf("no values for %s", v.Kind())
	}
}

func builtinHas(args []value.Value) (value.Value, error) {
	container, key := args[0], args[1]
	switch {
	case container.Kind() == value.KindMap && key.Kind() == value.KindString:
		_, ok := container.Get(key.Str())
		return value.Bool(ok), nil
	case container.Kind() == value.KindList:
		i, ok := integerIndex(key)
		return value.Bool(ok && i < container.Len()), nil
	default:
		return value.Bool(false), nil
	}
}

func builtinContains(args []value.Value) (value.Value, error) {
	haystack, needle := args[0], args[1]
	switch haystack.Kind() {
	case value.KindString:
		if needle.Kind() != value.KindString {
			return value.Bool(false), nil
		}
		return value.Bool(strings.Contains(haystack.Str(), needle.Str())), nil
	case value.KindList:
		found := slices.ContainsFunc(haystack.Items(), func(item value.Value) bool {
			return value.Equal(item, needle)
		})
		return value.Bool(found), nil
	case value.KindMap:
		if needle.Kind() != value.KindString {
			return value.Bool(false), nil
		}
		_, ok := haystack.Get(needle.Str())
		return value.Bool(ok), nil
	default:
		return value.Bool(false), nil
	}
}

func stringTest(test func(s, affix string) bool) builtinFunc {
	return func(args []value.Value) (value.Value, error) {
		s, affix := args[0], args[1]
		if s.Kind() != value.KindString || affix.Kind() != value.KindString {
			return value.Bool(false), nil
		}
		return value.Bool(test(s.Str(), affix.Str())), nil
	}
}

func stringMap(transform func(string) string) builtinFunc {
	return func(args []value.Value) (value.Value, error) {
		s := args[0]
		if s.Kind() != value.KindString {
			return value.Value{}, fmt.Errorf("expects a string, got %s", s.Kind())
		}
		return value.String(transform(s.Str())), nil
	}
}

func bindMatches(args []node) (builtinFunc, error) {
	pattern, ok := literalString(args[1])
	if !ok {
		return nil, errNotLiteral
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex %q: %v", pattern, err)
	}

	return func(values []value.Value) (value.Value, error) {
		s := values[0]
		if s.Kind() != value.KindString {
			return value.Bool(false), nil
		}
		return value.Bool(re.MatchString(s.Str())), nil
	}, nil
}

// bindSelect compiles a JSONPath query once. Selected maps come back with
// sorted keys since the query runs over generic decoded data.
func bindSelect(args []node) (builtinFunc, error) {
	query, ok := literalString(args[1])
	if !ok {
		return nil, errNotLiteral
	}

	path, err := jsonpath.Parse(query)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %v", query, err)
	}

	return func(values []value.Value) (value.Value, error) {
		results := path.Select(values[0].ToAny())

		items := make([]value.Value, 0, len(results))
		for _, result := range results {
			item, err := value.FromAny(result)
			if err != nil {
				return value.Value{}, err
			}
			items = append(items, item)
		}
		return value.List(items...), nil
	}, nil
}
