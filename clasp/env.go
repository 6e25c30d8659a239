package clasp

// Env is the lexical scope chain for script evaluation. Every call gets a
// fresh child of the root env, so locals that name live handles vanish with
// the call while the handles themselves stay owned by the call's frame.
type Env struct {
	parent *Env
	values map[string]Value
}

func newEnv(parent *Env) *Env {
	return &Env{parent: parent, values: make(map[string]Value)}
}

func (e *Env) Get(name string) (Value, bool) {
	for s := e; s != nil; s = s.parent {
		if val, ok := s.values[name]; ok {
			return val, true
		}
	}
	return Value{}, false
}

func (e *Env) Define(name string, val Value) {
	e.values[name] = val
}

// Assign rebinds the nearest existing binding, or defines the name in the
// current scope when nothing up the chain has it.
func (e *Env) Assign(name string, val Value) bool {
	for s := e; s != nil; s = s.parent {
		if _, ok := s.values[name]; ok {
			s.values[name] = val
			return true
		}
	}
	e.values[name] = val
	return true
}
