package clasp

// ClassBuilder assembles a ClassDef from Go code the way a class body reads:
// declarations in order, interleaved with visibility directives. Public,
// Private, and Protected are the three directive callables; everything
// declared after one of them (and before the next) takes that level.
//
//	box := clasp.NewClass("Box").
//		Member("value", "int").
//		Public().
//		Constructor(ctor).
//		Method("getValue", getValue).
//		Build()
type ClassBuilder struct {
	name    string
	parent  *ClassDef
	seq     []declEntry
	members []MemberDef
	methods []*Method
}

// NewClass starts a class body. Declarations default to private until a
// directive says otherwise.
func NewClass(name string) *ClassBuilder {
	return &ClassBuilder{name: name}
}

// Extends sets the single parent class.
func (b *ClassBuilder) Extends(parent *ClassDef) *ClassBuilder {
	b.parent = parent
	return b
}

// Public switches the visibility of subsequent declarations to public.
func (b *ClassBuilder) Public() *ClassBuilder {
	b.seq = append(b.seq, declEntry{directive: true, level: VisPublic})
	return b
}

// Private switches the visibility of subsequent declarations to private.
func (b *ClassBuilder) Private() *ClassBuilder {
	b.seq = append(b.seq, declEntry{directive: true, level: VisPrivate})
	return b
}

// Protected switches the visibility of subsequent declarations to protected.
func (b *ClassBuilder) Protected() *ClassBuilder {
	b.seq = append(b.seq, declEntry{directive: true, level: VisProtected})
	return b
}

// Member declares a stored member slot. The type is opaque to the runtime.
func (b *ClassBuilder) Member(name, typ string) *ClassBuilder {
	b.seq = append(b.seq, declEntry{name: name})
	b.members = append(b.members, MemberDef{Name: name, Type: typ})
	return b
}

// Method declares a host-implemented method.
func (b *ClassBuilder) Method(name string, params []string, fn HostFunc) *ClassBuilder {
	b.addMethod(name, params, fn, false)
	return b
}

// Constructor declares the method named after the class, run on construct.
func (b *ClassBuilder) Constructor(params []string, fn HostFunc) *ClassBuilder {
	b.addMethod(b.name, params, fn, false)
	return b
}

// Destructor declares the ~Class method, run first during teardown.
func (b *ClassBuilder) Destructor(fn HostFunc) *ClassBuilder {
	b.addMethod("~"+b.name, nil, fn, true)
	return b
}

func (b *ClassBuilder) addMethod(name string, params []string, fn HostFunc, dtor bool) {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: p}
	}
	b.seq = append(b.seq, declEntry{name: name})
	b.methods = append(b.methods, &Method{Name: name, Params: ps, Host: fn, IsDestructor: dtor})
}

// Build stamps visibilities over the collected declaration sequence and
// produces the immutable class descriptor.
func (b *ClassBuilder) Build() *ClassDef {
	table := buildAccessTable(b.seq)

	def := &ClassDef{
		Name:    b.name,
		Parent:  b.parent,
		Members: make([]MemberDef, len(b.members)),
		methods: make(map[string]*Method, len(b.methods)),
	}
	for i, m := range b.members {
		m.Visibility = table[m.Name]
		def.Members[i] = m
	}
	for _, m := range b.methods {
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
	return def
}
