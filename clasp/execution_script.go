package clasp

import (
	"context"
	"errors"
	"fmt"
)

// Script is one compiled unit: its free functions and the classes it
// declares. Units are immutable once compiled and safe to Call concurrently.
type Script struct {
	engine    *Engine
	functions map[string]*Function
	classes   map[string]*ClassDef
	source    string
}

// Compile parses a source unit and resolves its declarations. Classes may
// extend other classes from the same unit (declared earlier) or classes
// registered on the engine.
func (e *Engine) Compile(source string) (*Script, error) {
	p := newParser(source)
	program, parseErrors := p.ParseProgram()
	if len(parseErrors) > 0 {
		return nil, combineErrors(parseErrors)
	}

	script := &Script{
		engine:    e,
		functions: make(map[string]*Function),
		classes:   make(map[string]*ClassDef),
		source:    source,
	}
	resolve := func(name string) (*ClassDef, bool) {
		if def, ok := script.classes[name]; ok {
			return def, true
		}
		return e.Class(name)
	}

	for _, stmt := range program.Statements {
		switch s := stmt.(type) {
		case *FunctionStmt:
			if _, exists := script.functions[s.Name]; exists {
				return nil, fmt.Errorf("duplicate function %s", s.Name)
			}
			script.functions[s.Name] = &Function{Name: s.Name, Params: s.Params, Body: s.Body, Pos: s.Pos()}
		case *ClassStmt:
			if _, exists := script.classes[s.Name]; exists {
				return nil, fmt.Errorf("duplicate class %s", s.Name)
			}
			def, err := compileClass(s, resolve)
			if err != nil {
				return nil, err
			}
			script.classes[s.Name] = def
		default:
			return nil, fmt.Errorf("only def and class declarations may appear at unit top level (line %d)", stmt.Pos().Line)
		}
	}

	return script, nil
}

// compileClass turns a class body into a runtime descriptor: declarations
// are walked once in source order to both collect members and methods and
// feed the visibility registry.
func compileClass(s *ClassStmt, resolve func(string) (*ClassDef, bool)) (*ClassDef, error) {
	var parent *ClassDef
	if s.Parent != "" {
		p, ok := resolve(s.Parent)
		if !ok {
			return nil, fmt.Errorf("class %s extends unknown class %s", s.Name, s.Parent)
		}
		parent = p
	}

	var (
		seq     []declEntry
		members []MemberDef
		methods []*Method
	)
	seen := make(map[string]bool)

	for _, entry := range s.Entries {
		switch d := entry.(type) {
		case *DirectiveDecl:
			seq = append(seq, declEntry{directive: true, level: d.Level})
		case *MemberDecl:
			if seen[d.Name] {
				return nil, fmt.Errorf("class %s declares %s twice", s.Name, d.Name)
			}
			seen[d.Name] = true
			seq = append(seq, declEntry{name: d.Name})
			members = append(members, MemberDef{Name: d.Name, Type: d.Type})
		case *MethodDecl:
			fn := d.Fn
			if seen[fn.Name] {
				return nil, fmt.Errorf("class %s declares %s twice", s.Name, fn.Name)
			}
			seen[fn.Name] = true
			if fn.IsDestructor {
				if fn.Name != "~"+s.Name {
					return nil, fmt.Errorf("destructor %s does not match class %s", fn.Name, s.Name)
				}
				if len(fn.Params) > 0 {
					return nil, fmt.Errorf("destructor of %s takes no parameters", s.Name)
				}
			}
			seq = append(seq, declEntry{name: fn.Name})
			methods = append(methods, &Method{
				Name:         fn.Name,
				Params:       fn.Params,
				Body:         fn.Body,
				IsDestructor: fn.IsDestructor,
				Pos:          fn.Pos(),
			})
		}
	}

	table := buildAccessTable(seq)

	def := &ClassDef{
		Name:    s.Name,
		Parent:  parent,
		Members: members,
		methods: make(map[string]*Method, len(methods)),
	}
	for i := range def.Members {
		def.Members[i].Visibility = table[def.Members[i].Name]
	}
	for _, m := range methods {
		m.Visibility = table[m.Name]
		m.owner = def
		def.methods[m.Name] = m
		if m.Name == def.Name {
			def.ctor = m
		}
		if m.IsDestructor {
			def.dtor = m
		}
	}
	return def, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	msg := ""
	for _, err := range errs {
		if msg != "" {
			msg += "\n\n"
		}
		msg += err.Error()
	}
	return errors.New(msg)
}

// Call runs one of the unit's free functions. The call gets a fresh
// Execution and a root scope frame; anything the function returns that is
// still frame-owned is torn down with that frame before Call returns, so
// tracked handles never outlive the run.
func (s *Script) Call(ctx context.Context, name string, args ...Value) (Value, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	fn, ok := s.functions[name]
	if !ok {
		return NewNil(), fmt.Errorf("function %s not found", name)
	}

	exec := s.engine.newExecution(ctx, s)

	rootFrame := exec.openFrame("<script>")
	val, err := exec.callFunction(fn, args, fn.Pos)
	if cerr := exec.closeFrame(rootFrame); cerr != nil && err == nil {
		err = cerr
	}
	return val, err
}

// Classes lists the class names the unit declares.
func (s *Script) Classes() []string {
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	return names
}

func (e *Engine) newExecution(ctx context.Context, script *Script) *Execution {
	root := newEnv(nil)
	for name, builtin := range e.builtins {
		root.Define(name, builtin)
	}
	for name, def := range e.registeredClasses() {
		root.Define(name, NewClassValue(def))
	}
	if script != nil {
		for name, def := range script.classes {
			root.Define(name, NewClassValue(def))
		}
		for name, fn := range script.functions {
			root.Define(name, NewFunction(fn))
		}
	}

	return &Execution{
		engine:       e,
		script:       script,
		ctx:          ctx,
		quota:        e.config.StepQuota,
		recursionCap: e.config.RecursionLimit,
		out:          e.config.Output,
		root:         root,
		callStack:    make([]callFrame, 0, 8),
	}
}
