package clasp

type frameState int

const (
	frameOpen frameState = iota
	frameClosing
	frameClosed
)

// Frame is one scope frame: the ordered set of handles whose destruction is
// tied to one call's lifetime. Handles are appended in acquisition order and
// torn down in exactly the reverse order when the frame closes.
type Frame struct {
	label string
	owned []*Instance
	state frameState
}

// acquire appends a freshly constructed handle. Only open frames accept
// handles; closeFrame pops a frame from the stack before tearing it down, so
// a closing frame is never the construction target.
func (f *Frame) acquire(inst *Instance) {
	if f.state != frameOpen {
		panic("clasp: acquire on a frame that is not open: " + f.label)
	}
	f.owned = append(f.owned, inst)
	inst.ownerFrame = f
	inst.ownerSlot = nil
}

// remove detaches a handle from the frame without tearing it down, by arena
// serial rather than value equality: two distinct objects may compare equal.
func (f *Frame) remove(inst *Instance) bool {
	for i, owned := range f.owned {
		if owned.serial == inst.serial {
			f.owned = append(f.owned[:i], f.owned[i+1:]...)
			return true
		}
	}
	return false
}

func (exec *Execution) openFrame(label string) *Frame {
	frame := &Frame{label: label}
	exec.frames = append(exec.frames, frame)
	return frame
}

func (exec *Execution) currentFrame() *Frame {
	if len(exec.frames) == 0 {
		return nil
	}
	return exec.frames[len(exec.frames)-1]
}

// closeFrame pops the frame first, so anything acquired while destructors
// run lands in the next outer frame, then tears down the remaining handles
// in reverse acquisition order. Teardown failures do not stop the sweep;
// they are collected and surfaced as one TeardownError after the frame is
// fully closed.
func (exec *Execution) closeFrame(frame *Frame) error {
	for i := len(exec.frames) - 1; i >= 0; i-- {
		if exec.frames[i] == frame {
			exec.frames = append(exec.frames[:i], exec.frames[i+1:]...)
			break
		}
	}
	frame.state = frameClosing

	var errs []error
	for len(frame.owned) > 0 {
		inst := frame.owned[len(frame.owned)-1]
		frame.owned = frame.owned[:len(frame.owned)-1]
		if inst.destroyed {
			continue
		}
		exec.tracef("frame %s: tearing down %s", frame.label, inst)
		if err := exec.destroy(inst); err != nil {
			errs = append(errs, err)
		}
	}

	frame.state = frameClosed
	return exec.teardownFailure(errs)
}

// rebindToCaller applies the ownership-transfer rule for return values: a
// tracked handle still owned by the returning call's own frame moves to the
// frame one level outward before the inner frame closes, so a factory does
// not destroy what it just built. Plain values and handles owned elsewhere
// are left alone.
func (exec *Execution) rebindToCaller(val Value, inner *Frame) {
	if val.Kind() != KindInstance {
		return
	}
	inst := val.Instance()
	if inst.ownerFrame != inner {
		return
	}
	if len(exec.frames) < 2 || exec.frames[len(exec.frames)-1] != inner {
		return
	}
	outer := exec.frames[len(exec.frames)-2]
	inner.remove(inst)
	outer.acquire(inst)
	exec.tracef("rebind %s: %s -> %s", inst, inner.label, outer.label)
}
