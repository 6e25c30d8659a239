package clasp

// MemberDef describes one declared member slot. The declared type is opaque
// to the runtime; it is carried for tooling and diagnostics only.
type MemberDef struct {
	Name       string
	Type       string
	Visibility Visibility
}

// Method is a callable bound to a class. Exactly one of Body (script) or
// Host (Go) carries the implementation.
type Method struct {
	Name         string
	Visibility   Visibility
	Params       []Param
	Body         []Statement
	Host         HostFunc
	IsDestructor bool
	Pos          Position

	owner *ClassDef
}

func (m *Method) qualifiedName() string {
	if m.owner != nil {
		return m.owner.Name + "#" + m.Name
	}
	return m.Name
}

// ClassDef is the runtime descriptor for one registered class: its ordered
// member declarations, its method table with per-name visibility already
// stamped, and at most one parent (single inheritance only).
type ClassDef struct {
	Name    string
	Parent  *ClassDef
	Members []MemberDef

	methods map[string]*Method
	ctor    *Method
	dtor    *Method
}

// Constructor returns the method named after the class, or nil.
func (c *ClassDef) Constructor() *Method { return c.ctor }

// Destructor returns the method named ~Class, or nil.
func (c *ClassDef) Destructor() *Method { return c.dtor }

// lookupMethod resolves a method name against this class and its ancestors.
func (c *ClassDef) lookupMethod(name string) *Method {
	for cl := c; cl != nil; cl = cl.Parent {
		if m, ok := cl.methods[name]; ok {
			return m
		}
	}
	return nil
}

// lookupMember resolves a declared member against this class and its
// ancestors.
func (c *ClassDef) lookupMember(name string) (MemberDef, bool) {
	for cl := c; cl != nil; cl = cl.Parent {
		for _, m := range cl.Members {
			if m.Name == name {
				return m, true
			}
		}
	}
	return MemberDef{}, false
}

// allMembers returns the full member layout in construction order: ancestor
// declarations first, then this class's own, each in declaration order.
// Teardown walks this slice backwards.
func (c *ClassDef) allMembers() []MemberDef {
	if c.Parent == nil {
		return c.Members
	}
	base := c.Parent.allMembers()
	out := make([]MemberDef, 0, len(base)+len(c.Members))
	out = append(out, base...)
	out = append(out, c.Members...)
	return out
}

// descendsFrom reports whether c is other or a descendant of other.
func (c *ClassDef) descendsFrom(other *ClassDef) bool {
	for cl := c; cl != nil; cl = cl.Parent {
		if cl == other {
			return true
		}
	}
	return false
}
