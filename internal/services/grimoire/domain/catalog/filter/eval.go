package filter

import (
	"fmt"
	"strings"

	expr "google.golang.org/genproto/googleapis/api/expr/v1alpha1"
)

// resolver returns the value for a declared filter field.
type resolver func(field string) (any, bool)

// evaluate walks a checked AIP-160 expression. A nil expression matches.
func evaluate(e *expr.Expr, resolve resolver) (bool, error) {
	if e == nil {
		return true, nil
	}
	call, ok := e.ExprKind.(*expr.Expr_CallExpr)
	if !ok {
		return false, fmt.Errorf("unsupported expression kind %T", e.ExprKind)
	}
	return evalCall(call.CallExpr, resolve)
}

func evalCall(call *expr.Expr_Call, resolve resolver) (bool, error) {
	if len(call.Args) != 2 {
		return false, fmt.Errorf("function %s requires 2 arguments", call.Function)
	}
	switch call.Function {
	case "_&&_", "AND":
		left, err := evaluate(call.Args[0], resolve)
		if err != nil || !left {
			return false, err
		}
		return evaluate(call.Args[1], resolve)
	case "_||_", "OR":
		left, err := evaluate(call.Args[0], resolve)
		if err != nil || left {
			return left, err
		}
		return evaluate(call.Args[1], resolve)
	case "_==_", "=":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp == 0 })
	case "_!=_", "!=":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp != 0 })
	case "_<_", "<":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp < 0 })
	case "_<=_", "<=":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp <= 0 })
	case "_>_", ">":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp > 0 })
	case "_>=_", ">=":
		return evalComparison(call.Args, resolve, func(cmp int) bool { return cmp >= 0 })
	default:
		return false, fmt.Errorf("unsupported function %s", call.Function)
	}
}

func evalComparison(args []*expr.Expr, resolve resolver, accept func(int) bool) (bool, error) {
	field, err := identName(args[0])
	if err != nil {
		return false, err
	}
	left, ok := resolve(field)
	if !ok {
		return false, fmt.Errorf("unknown field %s", field)
	}
	right, err := constValue(args[1])
	if err != nil {
		return false, err
	}
	cmp, err := compare(left, right)
	if err != nil {
		return false, fmt.Errorf("field %s: %w", field, err)
	}
	return accept(cmp), nil
}

func identName(e *expr.Expr) (string, error) {
	if e == nil {
		return "", fmt.Errorf("nil expression")
	}
	ident, ok := e.ExprKind.(*expr.Expr_IdentExpr)
	if !ok {
		return "", fmt.Errorf("expected identifier, got %T", e.ExprKind)
	}
	return ident.IdentExpr.Name, nil
}

func constValue(e *expr.Expr) (any, error) {
	if e == nil {
		return nil, fmt.Errorf("nil expression")
	}
	constant, ok := e.ExprKind.(*expr.Expr_ConstExpr)
	if !ok {
		return nil, fmt.Errorf("expected constant, got %T", e.ExprKind)
	}
	switch kind := constant.ConstExpr.ConstantKind.(type) {
	case *expr.Constant_StringValue:
		return kind.StringValue, nil
	case *expr.Constant_Int64Value:
		return kind.Int64Value, nil
	case *expr.Constant_Uint64Value:
		return int64(kind.Uint64Value), nil
	case *expr.Constant_BoolValue:
		return kind.BoolValue, nil
	default:
		return nil, fmt.Errorf("unsupported constant type %T", kind)
	}
}

// compare orders two scalar values of matching kind. Strings compare
// case-insensitively so filters read naturally against display names.
func compare(left, right any) (int, error) {
	switch l := left.(type) {
	case string:
		r, ok := right.(string)
		if !ok {
			return 0, fmt.Errorf("type mismatch: string vs %T", right)
		}
		return strings.Compare(strings.ToLower(l), strings.ToLower(r)), nil
	case int64:
		r, ok := right.(int64)
		if !ok {
			return 0, fmt.Errorf("type mismatch: int vs %T", right)
		}
		switch {
		case l < r:
			return -1, nil
		case l > r:
			return 1, nil
		default:
			return 0, nil
		}
	case bool:
		r, ok := right.(bool)
		if !ok {
			return 0, fmt.Errorf("type mismatch: bool vs %T", right)
		}
		switch {
		case l == r:
			return 0, nil
		case !l:
			return -1, nil
		default:
			return 1, nil
		}
	default:
		return 0, fmt.Errorf("unsupported value type %T", left)
	}
}
