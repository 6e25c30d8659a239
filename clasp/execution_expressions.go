package clasp

func (exec *Execution) evalExpression(expr Expression, env *Env) (Value, error) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *NilLiteral:
		return NewNil(), nil
	case *Identifier:
		val, ok := env.Get(e.Name)
		if !ok {
			return NewNil(), exec.errorAt(e.Pos(), "undefined identifier %s", e.Name)
		}
		return val, nil
	case *ThisExpr:
		if val, ok := env.Get("this"); ok {
			return val, nil
		}
		return NewNil(), exec.errorAt(e.Pos(), "this used outside of a method")
	case *MemberExpr:
		obj, err := exec.evalExpression(e.Object, env)
		if err != nil {
			return NewNil(), err
		}
		val, err := exec.getMember(obj, e.Property, e.Pos())
		if err != nil {
			return NewNil(), err
		}
		return exec.autoInvokeIfNeeded(e, val)
	case *CallExpr:
		return exec.evalCallExpr(e, env)
	case *UnaryExpr:
		return exec.evalUnaryExpr(e, env)
	case *BinaryExpr:
		return exec.evalBinaryExpr(e, env)
	default:
		return NewNil(), exec.errorAt(expr.Pos(), "unsupported expression")
	}
}

// autoInvokeIfNeeded calls bound zero-argument methods produced by member
// access, so `box.getValue` behaves like the call it reads as.
func (exec *Execution) autoInvokeIfNeeded(expr Expression, val Value) (Value, error) {
	if val.Kind() != KindBuiltin {
		return val, nil
	}
	builtin := val.Builtin()
	if builtin == nil || !builtin.AutoInvoke {
		return val, nil
	}
	return exec.invokeCallable(val, nil, expr.Pos())
}

func (exec *Execution) evalUnaryExpr(e *UnaryExpr, env *Env) (Value, error) {
	right, err := exec.evalExpression(e.Right, env)
	if err != nil {
		return NewNil(), err
	}
	switch e.Operator {
	case tokenBang:
		return NewBool(!right.Truthy()), nil
	case tokenMinus:
		switch right.Kind() {
		case KindInt:
			return NewInt(-right.Int()), nil
		case KindFloat:
			return NewFloat(-right.Float()), nil
		default:
			return NewNil(), exec.errorAt(e.Pos(), "cannot negate %s", right.Kind())
		}
	default:
		return NewNil(), exec.errorAt(e.Pos(), "unsupported unary operator %s", e.Operator)
	}
}

func (exec *Execution) evalBinaryExpr(e *BinaryExpr, env *Env) (Value, error) {
	if e.Operator == tokenAnd || e.Operator == tokenOr {
		left, err := exec.evalExpression(e.Left, env)
		if err != nil {
			return NewNil(), err
		}
		if e.Operator == tokenAnd && !left.Truthy() {
			return left, nil
		}
		if e.Operator == tokenOr && left.Truthy() {
			return left, nil
		}
		return exec.evalExpression(e.Right, env)
	}

	left, err := exec.evalExpression(e.Left, env)
	if err != nil {
		return NewNil(), err
	}
	right, err := exec.evalExpression(e.Right, env)
	if err != nil {
		return NewNil(), err
	}

	switch e.Operator {
	case tokenEQ:
		return NewBool(left.Equal(right)), nil
	case tokenNotEQ:
		return NewBool(!left.Equal(right)), nil
	}

	if left.Kind() == KindString && right.Kind() == KindString {
		return exec.evalStringOp(e, left, right)
	}
	if isNumeric(left) && isNumeric(right) {
		return exec.evalNumericOp(e, left, right)
	}
	return NewNil(), exec.errorAt(e.Pos(), "operator %s not defined for %s and %s", e.Operator, left.Kind(), right.Kind())
}

func isNumeric(v Value) bool {
	return v.Kind() == KindInt || v.Kind() == KindFloat
}

func (exec *Execution) evalStringOp(e *BinaryExpr, left, right Value) (Value, error) {
	l, r := left.String(), right.String()
	switch e.Operator {
	case tokenPlus:
		return NewString(l + r), nil
	case tokenLT:
		return NewBool(l < r), nil
	case tokenGT:
		return NewBool(l > r), nil
	case tokenLTE:
		return NewBool(l <= r), nil
	case tokenGTE:
		return NewBool(l >= r), nil
	default:
		return NewNil(), exec.errorAt(e.Pos(), "operator %s not defined for strings", e.Operator)
	}
}

func (exec *Execution) evalNumericOp(e *BinaryExpr, left, right Value) (Value, error) {
	if left.Kind() == KindInt && right.Kind() == KindInt {
		l, r := left.Int(), right.Int()
		switch e.Operator {
		case tokenPlus:
			return NewInt(l + r), nil
		case tokenMinus:
			return NewInt(l - r), nil
		case tokenAsterisk:
			return NewInt(l * r), nil
		case tokenSlash:
			if r == 0 {
				return NewNil(), exec.errorAt(e.Pos(), "division by zero")
			}
			return NewInt(l / r), nil
		case tokenPercent:
			if r == 0 {
				return NewNil(), exec.errorAt(e.Pos(), "division by zero")
			}
			return NewInt(l % r), nil
		case tokenLT:
			return NewBool(l < r), nil
		case tokenGT:
			return NewBool(l > r), nil
		case tokenLTE:
			return NewBool(l <= r), nil
		case tokenGTE:
			return NewBool(l >= r), nil
		}
	}

	l, r := left.Float(), right.Float()
	switch e.Operator {
	case tokenPlus:
		return NewFloat(l + r), nil
	case tokenMinus:
		return NewFloat(l - r), nil
	case tokenAsterisk:
		return NewFloat(l * r), nil
	case tokenSlash:
		if r == 0 {
			return NewNil(), exec.errorAt(e.Pos(), "division by zero")
		}
		return NewFloat(l / r), nil
	case tokenLT:
		return NewBool(l < r), nil
	case tokenGT:
		return NewBool(l > r), nil
	case tokenLTE:
		return NewBool(l <= r), nil
	case tokenGTE:
		return NewBool(l >= r), nil
	default:
		return NewNil(), exec.errorAt(e.Pos(), "operator %s not defined for numbers", e.Operator)
	}
}
