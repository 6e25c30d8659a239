package clasp

// getMember resolves `obj.name` and applies the access gate. Methods come
// back as bound callables; stored members come back as their current value.
func (exec *Execution) getMember(obj Value, name string, pos Position) (Value, error) {
	switch obj.Kind() {
	case KindInstance:
		inst := obj.Instance()
		if inst.destroyed {
			return NewNil(), exec.errorAt(pos, "use of destroyed instance %s", inst)
		}
		if m := inst.class.lookupMethod(name); m != nil {
			if !accessAllowed(exec.currentCaller(), inst, m.Visibility) {
				return NewNil(), exec.accessErrorAt(pos, "%s method %s of %s is not accessible here", m.Visibility, name, inst.class.Name)
			}
			return exec.bindMethod(inst, m), nil
		}
		if md, ok := inst.class.lookupMember(name); ok {
			if !accessAllowed(exec.currentCaller(), inst, md.Visibility) {
				return NewNil(), exec.accessErrorAt(pos, "%s member %s of %s is not accessible here", md.Visibility, name, inst.class.Name)
			}
			if val, ok := inst.members[name]; ok {
				return val, nil
			}
			return NewNil(), nil
		}
		return NewNil(), exec.errorAt(pos, "unknown member %s of %s", name, inst.class.Name)
	case KindClass:
		def := obj.Class()
		if name == "new" {
			return NewBuiltin(def.Name+".new", func(exec *Execution, args []Value) (Value, error) {
				inst, err := exec.construct(def, args, pos)
				if err != nil {
					return NewNil(), err
				}
				return NewInstanceValue(inst), nil
			}), nil
		}
		return NewNil(), exec.errorAt(pos, "unknown class member %s of %s", name, def.Name)
	default:
		return NewNil(), exec.errorAt(pos, "cannot access member %s of %s", name, obj.Kind())
	}
}

// bindMethod wraps a method with its receiver. Zero-argument methods are
// auto-invoked on access; the rest wait for an argument list. The gate was
// already applied when the member expression resolved, so the bound call
// goes straight to invokeMethod.
func (exec *Execution) bindMethod(inst *Instance, m *Method) Value {
	fn := func(exec *Execution, args []Value) (Value, error) {
		return exec.invokeMethod(inst, m, args, m.Pos)
	}
	if len(m.Params) == 0 && !m.IsDestructor {
		return NewAutoBuiltin(m.qualifiedName(), fn)
	}
	return NewBuiltin(m.qualifiedName(), fn)
}

// setMember writes `obj.name = val`. The slot owns whatever it holds:
// overwriting a tracked handle destroys it on the spot, and a tracked
// incoming value is detached from wherever it lived and re-homed to the
// slot.
func (exec *Execution) setMember(obj Value, name string, val Value, pos Position) error {
	if obj.Kind() != KindInstance {
		return exec.errorAt(pos, "cannot assign member %s on %s", name, obj.Kind())
	}
	inst := obj.Instance()
	if inst.destroyed {
		return exec.errorAt(pos, "use of destroyed instance %s", inst)
	}
	md, ok := inst.class.lookupMember(name)
	if !ok {
		if inst.class.lookupMethod(name) != nil {
			return exec.errorAt(pos, "cannot assign to method %s of %s", name, inst.class.Name)
		}
		return exec.errorAt(pos, "unknown member %s of %s", name, inst.class.Name)
	}
	if !accessAllowed(exec.currentCaller(), inst, md.Visibility) {
		return exec.accessErrorAt(pos, "%s member %s of %s is not accessible here", md.Visibility, name, inst.class.Name)
	}

	if val.Kind() == KindInstance && val.Instance().destroyed {
		return exec.errorAt(pos, "cannot store destroyed instance %s", val.Instance())
	}

	old, had := inst.members[name]
	if had && old.Kind() == KindInstance {
		oldInst := old.Instance()
		if val.Kind() == KindInstance && val.Instance() == oldInst {
			return nil
		}
		if oldInst.ownerSlot != nil && oldInst.ownerSlot.owner == inst && oldInst.ownerSlot.member == name {
			oldInst.ownerSlot = nil
			exec.tracef("slot %s.%s: destroying replaced %s", inst, name, oldInst)
			if err := exec.destroy(oldInst); err != nil {
				return exec.teardownFailure([]error{err})
			}
		}
	}

	if val.Kind() == KindInstance {
		incoming := val.Instance()
		incoming.detach()
		incoming.ownerSlot = &slotRef{owner: inst, member: name}
	}
	inst.members[name] = val
	return nil
}
