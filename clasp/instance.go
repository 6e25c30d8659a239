package clasp

import (
	"fmt"

	"github.com/google/uuid"
)

// Instance is a tracked object handle. Ownership is exclusive and singular:
// at any instant the handle is owned by a scope frame, by a member slot, or
// by nothing only in the moment between leaving one and entering the other.
type Instance struct {
	serial  int64
	id      uuid.UUID
	class   *ClassDef
	members map[string]Value

	ownerFrame  *Frame
	ownerSlot   *slotRef
	tearingDown bool
	destroyed   bool
}

// slotRef names the member slot that owns a handle.
type slotRef struct {
	owner  *Instance
	member string
}

func newInstance(class *ClassDef, serial int64) *Instance {
	return &Instance{
		serial:  serial,
		id:      uuid.New(),
		class:   class,
		members: make(map[string]Value),
	}
}

// Class returns the backing class descriptor.
func (i *Instance) Class() *ClassDef { return i.class }

// ID returns the handle's stable diagnostic identity.
func (i *Instance) ID() uuid.UUID { return i.id }

// Destroyed reports whether teardown has already run for this handle.
func (i *Instance) Destroyed() bool { return i.destroyed }

func (i *Instance) String() string {
	return fmt.Sprintf("%s<%s>", i.class.Name, i.id.String()[:8])
}

// detach clears the current owner without tearing anything down. The caller
// is responsible for re-homing the handle immediately.
func (i *Instance) detach() {
	if i.ownerFrame != nil {
		i.ownerFrame.remove(i)
		i.ownerFrame = nil
	}
	if i.ownerSlot != nil {
		if cur, ok := i.ownerSlot.owner.members[i.ownerSlot.member]; ok {
			if cur.Kind() == KindInstance && cur.Instance() == i {
				i.ownerSlot.owner.members[i.ownerSlot.member] = NewNil()
			}
		}
		i.ownerSlot = nil
	}
}
