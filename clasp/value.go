package clasp

type ValueKind int

const (
	KindNil ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindFunction
	KindBuiltin
	KindClass
	KindInstance
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindBuiltin:
		return "builtin"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

type Value struct {
	kind ValueKind
	data any
}

// Function is a free function declared by a compiled unit. Calls are
// intercepted: each one pushes a caller record and a scope frame, and the
// return value is checked for ownership rebinding.
type Function struct {
	Name   string
	Params []Param
	Body   []Statement
	Pos    Position
}

// Builtin is a host callable exposed to scripts. Builtins run inside the
// caller's context; they do not open a frame of their own.
type Builtin struct {
	Name       string
	Fn         BuiltinFunc
	AutoInvoke bool
}

type BuiltinFunc func(exec *Execution, args []Value) (Value, error)
