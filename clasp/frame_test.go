package clasp

import (
	"context"
	"testing"
)

func TestFrameRemoveBySerialIdentity(t *testing.T) {
	def := NewClass("Twin").Build()
	// Two distinct handles of the same class; removal must pick the right
	// one by arena serial, not by value shape.
	a := newInstance(def, 1)
	b := newInstance(def, 2)

	frame := &Frame{label: "test"}
	frame.acquire(a)
	frame.acquire(b)

	if !frame.remove(a) {
		t.Fatalf("remove(a) should succeed")
	}
	if frame.remove(a) {
		t.Fatalf("second remove(a) should report not found")
	}
	if len(frame.owned) != 1 || frame.owned[0] != b {
		t.Fatalf("unexpected frame contents: %v", frame.owned)
	}
}

func TestAcquireRequiresOpenFrame(t *testing.T) {
	def := NewClass("Stray").Build()
	inst := newInstance(def, 1)

	frame := &Frame{label: "test", state: frameClosed}
	defer func() {
		if recover() == nil {
			t.Fatalf("acquire on a closed frame must panic")
		}
	}()
	frame.acquire(inst)
}

func TestConstructionDuringTeardown(t *testing.T) {
	// A destructor may construct new handles; they land in a live frame,
	// never the one being destroyed, and still get torn down.
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, `class Note
  public
  text: string
  def Note(m)
    this.text = m
  end
  def ~Note()
    print("note dtor", this.text)
  end
end

class Logger
  public
  def Logger()
  end
  def ~Logger()
    n = Note.new("from logger dtor")
  end
end

def main()
  l = Logger.new()
  return 0
end`)

	callFunc(t, script, "main")
	if buf.String() != "note dtor from logger dtor\n" {
		t.Fatalf("nested acquisition during teardown must still be torn down:\n%q", buf.String())
	}
}

func TestRebindSkipsForeignHandles(t *testing.T) {
	// Returning a handle owned by an outer frame (not the returning call's
	// own frame) must not re-home it.
	var destroyed []string
	engine := NewEngine(Config{})
	engine.RegisterClass(resourceClass(&destroyed))

	script := compileScript(t, engine, `def echo(r)
  return r
end

def main()
  a = makeIt()
  b = echo(a)
  return 0
end`)
	engine.WrapFunction("makeIt", func(exec *Execution, args []Value) (Value, error) {
		inst, err := exec.New("Resource", NewString("solo"))
		if err != nil {
			return NewNil(), err
		}
		return NewInstanceValue(inst), nil
	})

	callFunc(t, script, "main")
	if len(destroyed) != 1 {
		t.Fatalf("handle passed through echo must be destroyed exactly once, got %v", destroyed)
	}
}

func TestEngineRunClosesRootFrame(t *testing.T) {
	var destroyed []string
	engine := NewEngine(Config{})
	engine.RegisterClass(resourceClass(&destroyed))

	err := engine.Run(context.Background(), func(exec *Execution) error {
		_, err := exec.New("Resource", NewString("root-owned"))
		return err
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(destroyed) != 1 || destroyed[0] != "root-owned" {
		t.Fatalf("root frame must tear down on Run exit, got %v", destroyed)
	}
}
