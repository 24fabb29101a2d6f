package expr

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/jacoelho/jsawk/internal/jsawk/number"
	"github.com/jacoelho/jsawk/internal/jsawk/value"
)

func evaluate(root node, record value.Value) (value.Value, error) {
	switch current := root.(type) {
	case literalNode:
		return current.value, nil
	case recordNode:
		return record, nil
	case memberNode:
		target, err := evaluate(current.target, record)
		if err != nil {
			return value.Value{}, err
		}
		key, err := evaluate(current.key, record)
		if err != nil {
			return value.Value{}, err
		}
		return member(target, key), nil
	case unaryNode:
		right, err := evaluate(current.right, record)
		if err != nil {
			return value.Value{}, err
		}
		return unary(current.op, right)
	case binaryNode:
		return evaluateBinary(current, record)
	case conditionalNode:
		test, err := evaluate(current.test, record)
		if err != nil {
			return value.Value{}, err
		}
		if test.Truthy() {
			return evaluate(current.then, record)
		}
		return evaluate(current.otherwise, record)
	case listNode:
		items := make([]value.Value, len(current.items))
		for i, item := range current.items {
			v, err := evaluate(item, record)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.List(items...), nil
	case mapNode:
		b := value.NewMapBuilder(len(current.keys))
		for i, key := range current.keys {
			v, err := evaluate(current.values[i], record)
			if err != nil {
				return value.Value{}, err
			}
			b.Set(key, v)
		}
		return b.Build(), nil
	case callNode:
		args := make([]value.Value, len(current.args))
		for i, arg := range current.args {
			v, err := evaluate(arg, record)
			if err != nil {
				return value.Value{}, err
			}
			args[i] = v
		}
		result, err := current.fn(args)
		if err != nil {
			return value.Value{}, evaluationError("%s(): %v", current.name, err)
		}
		return result, nil
	default:
		return value.Value{}, evaluationError("unsupported expression node")
	}
}

func evaluateBinary(current binaryNode, record value.Value) (value.Value, error) {
	left, err := evaluate(current.left, record)
	if err != nil {
		return value.Value{}, err
	}

	switch current.op {
	case tokenAnd:
		if !left.Truthy() {
			return left, nil
		}
		return evaluate(current.right, record)
	case tokenOr:
		if left.Truthy() {
			return left, nil
		}
		return evaluate(current.right, record)
	}

	right, err := evaluate(current.right, record)
	if err != nil {
		return value.Value{}, err
	}

	switch current.op {
	case tokenEqual:
		return value.Bool(value.Equal(left, right)), nil
	case tokenNotEqual:
		return value.Bool(!value.Equal(left, right)), nil
	case tokenLess, tokenLessEqual, tokenGreater, tokenGreaterEqual:
		return value.Bool(compareOrdered(current.op, left, right)), nil
	case tokenPlus:
		return add(left, right)
	case tokenMinus, tokenStar, tokenSlash, tokenPercent:
		return arithmetic(current.op, left, right)
	default:
		return value.Value{}, evaluationError("unsupported binary operator")
	}
}

// member resolves target[key]. Missing keys, out-of-range indexes and
// access on scalars all yield null.
func member(target, key value.Value) value.Value {
	switch target.Kind() {
	case value.KindMap:
		var name string
		switch key.Kind() {
		case value.KindString:
			name = key.Str()
		case value.KindNumber:
			name = number.Format(key.Number())
		default:
			return value.Null()
		}
		v, _ := target.Get(name)
		return v
	case value.KindList:
		if key.Kind() == value.KindString && key.Str() == "length" {
			return value.Number(float64(target.Len()))
		}
		i, ok := integerIndex(key)
		if !ok {
			return value.Null()
		}
		v, _ := target.Index(i)
		return v
	case value.KindString:
		s := target.Str()
		if key.Kind() == value.KindString && key.Str() == "length" {
			return value.Number(float64(utf8.RuneCountInString(s)))
		}
		i, ok := integerIndex(key)
		if !ok {
			return value.Null()
		}
		for pos, r := range []rune(s) {
			if pos == i {
				return value.String(string(r))
			}
		}
		return value.Null()
	default:
		return value.Null()
	}
}

func integerIndex(key value.Value) (int, bool) {
	if key.Kind() != value.KindNumber {
		return 0, false
	}
	f := key.Number()
	if f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func unary(op tokenType, right value.Value) (value.Value, error) {
	switch op {
	case tokenNot:
		return value.Bool(!right.Truthy()), nil
	case tokenMinus, tokenPlus:
		if right.Kind() != value.KindNumber {
			return value.Value{}, evaluationError("unary %s expects a number, got %s", tokenNames[op], right.Kind())
		}
		if op == tokenMinus {
			return value.Number(-right.Number()), nil
		}
		return right, nil
	default:
		return value.Value{}, evaluationError("unsupported unary operator")
	}
}

func compareOrdered(op tokenType, left, right value.Value) bool {
	var cmp int
	switch {
	case left.Kind() == value.KindNumber && right.Kind() == value.KindNumber:
		l, r := left.Number(), right.Number()
		if math.IsNaN(l) || math.IsNaN(r) {
			return false
		}
		switch {
		case l < r:
			cmp = -1
		case l > r:
			cmp = 1
		}
	case left.Kind() == value.KindString && right.Kind() == value.KindString:
		cmp = strings.Compare(left.Str(), right.Str())
	default:
		return false
	}

	switch op {
	case tokenLess:
		return cmp < 0
	case tokenLessEqual:
		return cmp <= 0
	case tokenGreater:
		return cmp > 0
	default:
		return cmp >= 0
	}
}

func add(left, right value.Value) (value.Value, error) {
	if left.Kind() == value.KindNumber && right.Kind() == value.KindNumber {
		return value.Number(left.Number() + right.Number()), nil
	}

	if left.Kind() == value.KindString || right.Kind() == value.KindString {
		l, err := scalarText(left)
		if err != nil {
			return value.Value{}, err
		}
		r, err := scalarText(right)
		if err != nil {
			return value.Value{}, err
		}
		return value.String(l + r), nil
	}

	return value.Value{}, evaluationError("cannot add %s and %s", left.Kind(), right.Kind())
}

// scalarText renders a scalar for string concatenation.
func scalarText(v value.Value) (string, error) {
	switch v.Kind() {
	case value.KindString:
		return v.Str(), nil
	case value.KindNumber:
		return number.Format(v.Number()), nil
	case value.KindBool:
		if v.Bool() {
			return "true", nil
		}
		return "false", nil
	case value.KindNull:
		return "null", nil
	default:
		return "", evaluationError("cannot concatenate %s", v.Kind())
	}
}

func arithmetic(op tokenType, left, right value.Value) (value.Value, error) {
	if left.Kind() != value.KindNumber || right.Kind() != value.KindNumber {
		return value.Value{}, evaluationError("operator %s expects numbers, got %s and %s", tokenNames[op], left.Kind(), right.Kind())
	}

	l, r := left.Number(), right.Number()
	switch op {
	case tokenMinus:
		return value.Number(l - r), nil
	case tokenStar:
		return value.Number(l * r), nil
	case tokenSlash:
		return value.Number(l / r), nil
	default:
		return value.Number(math.Mod(l, r)), nil
	}
}
