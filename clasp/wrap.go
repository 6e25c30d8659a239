package clasp

import "context"

// HostFunc is a Go-implemented method body. The receiver arrives already
// bound; args are positional.
type HostFunc func(exec *Execution, this *Instance, args []Value) (Value, error)

// WrapFunction registers a Go function as a managed global: every call to
// it is intercepted like a script function call, with its own caller
// record, scope frame, and return-value rebinding. Unlike RegisterBuiltin,
// handles constructed inside a wrapped function die with its frame unless
// they are returned or parked in a slot.
func (e *Engine) WrapFunction(name string, fn func(exec *Execution, args []Value) (Value, error)) {
	e.builtins[name] = NewBuiltin(name, func(exec *Execution, args []Value) (Value, error) {
		if err := exec.pushCall(name, Position{}); err != nil {
			return NewNil(), err
		}
		exec.pushCaller(&callerRecord{function: name})
		frame := exec.openFrame(name)

		val, err := fn(exec, args)
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
	})
}

// Run executes host code against a fresh Execution with a root scope frame
// open, for embedding without a compiled unit. The root frame closes when
// fn returns, tearing down anything still owned by it.
func (e *Engine) Run(ctx context.Context, fn func(exec *Execution) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	exec := e.newExecution(ctx, nil)

	rootFrame := exec.openFrame("<host>")
	err := fn(exec)
	if cerr := exec.closeFrame(rootFrame); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// This returns the receiver of the innermost executing method, or nil when
// no method body is on the stack.
func (exec *Execution) This() *Instance {
	return exec.currentThis()
}

// New constructs an instance of a registered (or unit-declared) class. The
// handle is owned by the innermost open frame until returned upward or
// parked in a member slot.
func (exec *Execution) New(className string, args ...Value) (*Instance, error) {
	var def *ClassDef
	if exec.script != nil {
		def = exec.script.classes[className]
	}
	if def == nil {
		registered, ok := exec.engine.Class(className)
		if !ok {
			return nil, exec.errorAt(Position{}, "unknown class %s", className)
		}
		def = registered
	}
	return exec.construct(def, args, Position{})
}

// Invoke calls a method on an instance with the current caller context, so
// the access gate applies exactly as it would for a script call site.
func (exec *Execution) Invoke(inst *Instance, method string, args ...Value) (Value, error) {
	return exec.callMethod(inst, method, args, Position{})
}

// ReadMember reads a stored member through the gate.
func (exec *Execution) ReadMember(inst *Instance, name string) (Value, error) {
	return exec.getMember(NewInstanceValue(inst), name, Position{})
}

// WriteMember writes a stored member through the gate, with the usual slot
// ownership rules.
func (exec *Execution) WriteMember(inst *Instance, name string, val Value) error {
	return exec.setMember(NewInstanceValue(inst), name, val, Position{})
}

// Destroy tears an instance down immediately instead of waiting for its
// owning frame to close.
func (exec *Execution) Destroy(inst *Instance) error {
	return exec.destroy(inst)
}
