package formula

import (
	"fmt"
	"math"

	"github.com/potools/pluralform/internal/types"
)

type node interface {
	eval(n int64) (int64, error)
}

type variableNode struct{}

func (variableNode) eval(n int64) (int64, error) {
	return n, nil
}

type numberNode struct {
	value int64
}

func (s numberNode) eval(int64) (int64, error) {
	return s.value, nil
}

type unaryNode struct {
	operator string
	operand  node
}

func (s *unaryNode) eval(n int64) (int64, error) {
	value, err := s.operand.eval(n)
	if err != nil {
		return 0, err
	}

	switch s.operator {
	case "!":
		return boolToInt(value == 0), nil
	case "-":
		if value == math.MinInt64 {
			return 0, newOverflowError(s.operator)
		}
		return -value, nil
	default:
		panic(fmt.Sprintf("unknown unary operator: %q", s.operator))
	}
}

type binaryNode struct {
	operator    string
	left, right node
}

func (s *binaryNode) eval(n int64) (int64, error) {
	left, err := s.left.eval(n)
	if err != nil {
		return 0, err
	}

	// && and || short-circuit over C truthiness before the right
	// operand is touched.
	switch s.operator {
	case "&&":
		if left == 0 {
			return 0, nil
		}
		right, err := s.right.eval(n)
		if err != nil {
			return 0, err
		}
		return boolToInt(right != 0), nil

	case "||":
		if left != 0 {
			return 1, nil
		}
		right, err := s.right.eval(n)
		if err != nil {
			return 0, err
		}
		return boolToInt(right != 0), nil
	}

	right, err := s.right.eval(n)
	if err != nil {
		return 0, err
	}

	switch s.operator {
	case "==":
		return boolToInt(left == right), nil
	case "!=":
		return boolToInt(left != right), nil
	case "<":
		return boolToInt(left < right), nil
	case "<=":
		return boolToInt(left <= right), nil
	case ">":
		return boolToInt(left > right), nil
	case ">=":
		return boolToInt(left >= right), nil

	case "+":
		ret := left + right
		if (ret > left) != (right > 0) {
			return 0, newOverflowError(s.operator)
		}
		return ret, nil

	case "-":
		ret := left - right
		if (ret < left) != (right > 0) {
			return 0, newOverflowError(s.operator)
		}
		return ret, nil

	case "*":
		if left == 0 || right == 0 {
			return 0, nil
		}
		if (left == math.MinInt64 && right == -1) || (left == -1 && right == math.MinInt64) {
			return 0, newOverflowError(s.operator)
		}
		ret := left * right
		if ret/right != left {
			return 0, newOverflowError(s.operator)
		}
		return ret, nil

	case "/":
		if right == 0 {
			return 0, newZeroDivisionError(s.operator)
		}
		if left == math.MinInt64 && right == -1 {
			return 0, newOverflowError(s.operator)
		}
		return left / right, nil

	case "%":
		if right == 0 {
			return 0, newZeroDivisionError(s.operator)
		}
		if left == math.MinInt64 && right == -1 {
			return 0, nil
		}
		return left % right, nil

	default:
		panic(fmt.Sprintf("unknown binary operator: %q", s.operator))
	}
}

type condNode struct {
	test, ifTrue, ifFalse node
}

func (s *condNode) eval(n int64) (int64, error) {
	test, err := s.test.eval(n)
	if err != nil {
		return 0, err
	}

	// only the taken branch is evaluated
	if test != 0 {
		return s.ifTrue.eval(n)
	}
	return s.ifFalse.eval(n)
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func newZeroDivisionError(operator string) error {
	return &types.Error{
		Tag:   types.ZeroDivisionErrorTag,
		Err:   fmt.Errorf("right operand of %q is zero", operator),
		Extra: map[string]any{"operator": operator},
	}
}

func newOverflowError(operator string) error {
	return &types.Error{
		Tag:   types.OverflowErrorTag,
		Err:   fmt.Errorf("operator %q overflows int64", operator),
		Extra: map[string]any{"operator": operator},
	}
}
