package clasp

func NewNil() Value            { return Value{kind: KindNil} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewClassValue(def *ClassDef) Value    { return Value{kind: KindClass, data: def} }
func NewInstanceValue(inst *Instance) Value { return Value{kind: KindInstance, data: inst} }

func NewFunction(fn *Function) Value {
	return Value{kind: KindFunction, data: fn}
}

func newBuiltin(name string, fn BuiltinFunc, autoInvoke bool) Value {
	return Value{kind: KindBuiltin, data: &Builtin{Name: name, Fn: fn, AutoInvoke: autoInvoke}}
}

func NewBuiltin(name string, fn BuiltinFunc) Value {
	return newBuiltin(name, fn, false)
}

func NewAutoBuiltin(name string, fn BuiltinFunc) Value {
	return newBuiltin(name, fn, true)
}
