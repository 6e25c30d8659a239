package clasp

// construct builds a tracked instance: the handle is registered with the
// innermost open frame before the constructor body runs, so the frame can
// still reclaim it if construction dies halfway.
func (exec *Execution) construct(def *ClassDef, args []Value, pos Position) (*Instance, error) {
	frame := exec.currentFrame()
	if frame == nil {
		return nil, exec.errorAt(pos, "cannot construct %s outside of a scope frame", def.Name)
	}

	inst := newInstance(def, exec.engine.nextSerial())
	frame.acquire(inst)
	exec.tracef("construct %s in frame %s", inst, frame.label)

	ctor := def.Constructor()
	if ctor == nil {
		if len(args) > 0 {
			frame.remove(inst)
			inst.ownerFrame = nil
			inst.destroyed = true
			return nil, exec.errorAt(pos, "%s has no constructor but got %d argument(s)", def.Name, len(args))
		}
		return inst, nil
	}

	if !accessAllowed(exec.currentCaller(), inst, ctor.Visibility) {
		frame.remove(inst)
		inst.ownerFrame = nil
		inst.destroyed = true
		return nil, exec.accessErrorAt(pos, "%s constructor of %s is not accessible here", ctor.Visibility, def.Name)
	}

	if _, err := exec.invokeMethod(inst, ctor, args, pos); err != nil {
		// No teardown for a half-built instance: the handle is unregistered
		// and the constructor's error propagates as-is. Partial side effects
		// are the caller's to handle.
		frame.remove(inst)
		inst.ownerFrame = nil
		inst.destroyed = true
		exec.tracef("construct %s failed, handle unregistered", inst)
		return nil, err
	}
	return inst, nil
}

// destroy tears one handle down: detach from its owner, run the destructor
// with the dying instance as the caller context, then destroy slot-owned
// member values in reverse declaration order (own members before inherited
// ones). Failures are collected, not fatal to the sweep.
func (exec *Execution) destroy(inst *Instance) error {
	if inst.destroyed || inst.tearingDown {
		return nil
	}
	inst.tearingDown = true
	inst.detach()
	exec.tracef("destroy %s", inst)

	var errs []error
	if dtor := inst.class.Destructor(); dtor != nil {
		if _, err := exec.invokeMethod(inst, dtor, nil, dtor.Pos); err != nil {
			errs = append(errs, err)
		}
	}

	if err := exec.destroyMembers(inst); err != nil {
		errs = append(errs, err)
	}

	inst.destroyed = true
	return exec.teardownFailure(errs)
}

// destroyMembers sweeps the slot-owned children of a dying instance in
// reverse construction order. Values parked in slots but owned elsewhere
// are left alone.
func (exec *Execution) destroyMembers(inst *Instance) error {
	layout := inst.class.allMembers()
	var errs []error
	for i := len(layout) - 1; i >= 0; i-- {
		name := layout[i].Name
		val, ok := inst.members[name]
		if !ok || val.Kind() != KindInstance {
			continue
		}
		child := val.Instance()
		if child.ownerSlot == nil || child.ownerSlot.owner != inst || child.ownerSlot.member != name {
			continue
		}
		child.ownerSlot = nil
		inst.members[name] = NewNil()
		if err := exec.destroy(child); err != nil {
			errs = append(errs, err)
		}
	}
	return exec.teardownFailure(errs)
}
