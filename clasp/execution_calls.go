package clasp

func (exec *Execution) evalCallExpr(e *CallExpr, env *Env) (Value, error) {
	var callee Value
	switch c := e.Callee.(type) {
	case *MemberExpr:
		obj, err := exec.evalExpression(c.Object, env)
		if err != nil {
			return NewNil(), err
		}
		// Resolved without auto-invocation: the argument list is here.
		callee, err = exec.getMember(obj, c.Property, c.Pos())
		if err != nil {
			return NewNil(), err
		}
	default:
		var err error
		callee, err = exec.evalExpression(e.Callee, env)
		if err != nil {
			return NewNil(), err
		}
	}

	args := make([]Value, 0, len(e.Args))
	for _, argExpr := range e.Args {
		arg, err := exec.evalExpression(argExpr, env)
		if err != nil {
			return NewNil(), err
		}
		args = append(args, arg)
	}

	return exec.invokeCallable(callee, args, e.Pos())
}

func (exec *Execution) invokeCallable(callee Value, args []Value, pos Position) (Value, error) {
	switch callee.Kind() {
	case KindFunction:
		return exec.callFunction(callee.Function(), args, pos)
	case KindBuiltin:
		result, err := callee.Builtin().Fn(exec, args)
		if err != nil {
			return NewNil(), exec.wrapError(err, pos)
		}
		return result, nil
	default:
		return NewNil(), exec.errorAt(pos, "attempted to call non-callable value")
	}
}

// callFunction runs a free function. Every managed call is intercepted the
// same way: a caller record for the gate, a scope frame for handles built
// inside, and an ownership-rebind check on the way out.
func (exec *Execution) callFunction(fn *Function, args []Value, pos Position) (Value, error) {
	if len(args) != len(fn.Params) {
		return NewNil(), exec.errorAt(pos, "%s expects %d argument(s), got %d", fn.Name, len(fn.Params), len(args))
	}
	if err := exec.pushCall(fn.Name, pos); err != nil {
		return NewNil(), err
	}
	exec.pushCaller(&callerRecord{function: fn.Name})
	frame := exec.openFrame(fn.Name)

	env := newEnv(exec.root)
	for i, param := range fn.Params {
		env.Define(param.Name, args[i])
	}

	val, _, err := exec.evalStatements(fn.Body, env)
	if err == nil {
		exec.rebindToCaller(val, frame)
	} else {
		val = NewNil()
	}
	if cerr := exec.closeFrame(frame); cerr != nil && err == nil {
		err = cerr
	}

	exec.popCaller()
	exec.popCall()
	return val, err
}

// callMethod is the gated entry point used by host code. Script member
// expressions gate at resolution time instead and go straight to
// invokeMethod through the bound callable.
func (exec *Execution) callMethod(recv *Instance, name string, args []Value, pos Position) (Value, error) {
	m := recv.class.lookupMethod(name)
	if m == nil {
		return NewNil(), exec.errorAt(pos, "unknown method %s of %s", name, recv.class.Name)
	}
	if !accessAllowed(exec.currentCaller(), recv, m.Visibility) {
		return NewNil(), exec.accessErrorAt(pos, "%s method %s of %s is not accessible here", m.Visibility, name, recv.class.Name)
	}
	return exec.invokeMethod(recv, m, args, pos)
}

// invokeMethod runs a method with its receiver bound, no gate applied. The
// receiver becomes the caller context for everything the body does, which
// is what lets a method reach its own private members.
func (exec *Execution) invokeMethod(recv *Instance, m *Method, args []Value, pos Position) (Value, error) {
	if recv.destroyed {
		return NewNil(), exec.errorAt(pos, "use of destroyed instance %s", recv)
	}
	if len(args) != len(m.Params) {
		return NewNil(), exec.errorAt(pos, "%s expects %d argument(s), got %d", m.qualifiedName(), len(m.Params), len(args))
	}
	if err := exec.pushCall(m.qualifiedName(), pos); err != nil {
		return NewNil(), err
	}
	exec.pushCaller(&callerRecord{function: m.qualifiedName(), method: m, instance: recv})
	exec.pushThis(recv)
	frame := exec.openFrame(m.qualifiedName())

	var val Value
	var err error
	if m.Host != nil {
		val, err = m.Host(exec, recv, args)
		if err != nil {
			err = exec.wrapError(err, pos)
			val = NewNil()
		}
	} else {
		env := newEnv(exec.root)
		env.Define("this", NewInstanceValue(recv))
		for i, param := range m.Params {
			env.Define(param.Name, args[i])
		}
		val, _, err = exec.evalStatements(m.Body, env)
		if err != nil {
			val = NewNil()
		}
	}

	if err == nil {
		exec.rebindToCaller(val, frame)
	}
	if cerr := exec.closeFrame(frame); cerr != nil && err == nil {
		err = cerr
	}

	exec.popThis()
	exec.popCaller()
	exec.popCall()
	return val, err
}
