package clasp

import (
	"context"
	"testing"
)

func resourceClass(destroyed *[]string) *ClassDef {
	return NewClass("Resource").
		Public().
		Member("label", "string").
		Constructor([]string{"label"}, func(exec *Execution, this *Instance, args []Value) (Value, error) {
			return NewNil(), exec.WriteMember(this, "label", args[0])
		}).
		Destructor(func(exec *Execution, this *Instance, args []Value) (Value, error) {
			label, err := exec.ReadMember(this, "label")
			if err != nil {
				return NewNil(), err
			}
			*destroyed = append(*destroyed, label.String())
			return NewNil(), nil
		}).
		Build()
}

func TestClassBuilderVisibilityLayout(t *testing.T) {
	def := NewClass("Acct").
		Member("balance", "int").
		Public().
		Method("deposit", []string{"amount"}, nil).
		Protected().
		Member("ledger", "string").
		Build()

	if m, _ := def.lookupMember("balance"); m.Visibility != VisPrivate {
		t.Fatalf("balance should default private, got %s", m.Visibility)
	}
	if def.lookupMethod("deposit").Visibility != VisPublic {
		t.Fatalf("deposit should be public")
	}
	if m, _ := def.lookupMember("ledger"); m.Visibility != VisProtected {
		t.Fatalf("ledger should be protected, got %s", m.Visibility)
	}
}

func TestClassBuilderConstructorAndDestructor(t *testing.T) {
	var destroyed []string
	def := resourceClass(&destroyed)

	if def.Constructor() == nil || def.Constructor().Name != "Resource" {
		t.Fatalf("constructor not wired")
	}
	if def.Destructor() == nil || def.Destructor().Name != "~Resource" {
		t.Fatalf("destructor not wired")
	}
	if !def.Destructor().IsDestructor {
		t.Fatalf("destructor flag not set")
	}
}

func TestHostFrameTeardownOrder(t *testing.T) {
	var destroyed []string
	engine := NewEngine(Config{})
	engine.RegisterClass(resourceClass(&destroyed))

	err := engine.Run(context.Background(), func(exec *Execution) error {
		if _, err := exec.New("Resource", NewString("a")); err != nil {
			return err
		}
		if _, err := exec.New("Resource", NewString("b")); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(destroyed) != 2 || destroyed[0] != "b" || destroyed[1] != "a" {
		t.Fatalf("expected reverse teardown [b a], got %v", destroyed)
	}
}

func TestExplicitDestroy(t *testing.T) {
	var destroyed []string
	engine := NewEngine(Config{})
	engine.RegisterClass(resourceClass(&destroyed))

	err := engine.Run(context.Background(), func(exec *Execution) error {
		inst, err := exec.New("Resource", NewString("early"))
		if err != nil {
			return err
		}
		if err := exec.Destroy(inst); err != nil {
			return err
		}
		if !inst.Destroyed() {
			t.Fatalf("instance should report destroyed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	// Frame close must not tear the handle down a second time.
	if len(destroyed) != 1 || destroyed[0] != "early" {
		t.Fatalf("expected single teardown, got %v", destroyed)
	}
}

func TestHostCodeIsTrusted(t *testing.T) {
	engine := NewEngine(Config{})
	secret := NewClass("Vault").
		Member("combo", "int").
		Public().
		Constructor(nil, nil).
		Build()
	engine.RegisterClass(secret)

	err := engine.Run(context.Background(), func(exec *Execution) error {
		inst, err := exec.New("Vault")
		if err != nil {
			return err
		}
		if err := exec.WriteMember(inst, "combo", NewInt(7)); err != nil {
			return err
		}
		val, err := exec.ReadMember(inst, "combo")
		if err != nil {
			return err
		}
		if val.Int() != 7 {
			t.Fatalf("expected 7, got %s", val)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("top-level host access must be trusted: %v", err)
	}
}

func TestScriptDeniedHostClassPrivates(t *testing.T) {
	engine := NewEngine(Config{})
	counter := NewClass("Counter").
		Member("count", "int").
		Public().
		Constructor([]string{"start"}, func(exec *Execution, this *Instance, args []Value) (Value, error) {
			return NewNil(), exec.WriteMember(this, "count", args[0])
		}).
		Method("value", nil, func(exec *Execution, this *Instance, args []Value) (Value, error) {
			return exec.ReadMember(this, "count")
		}).
		Build()
	engine.RegisterClass(counter)

	script := compileScript(t, engine, `def ok()
  c = Counter.new(3)
  return c.value()
end

def bad()
  c = Counter.new(3)
  return c.count
end`)

	result := callFunc(t, script, "ok")
	if result.Int() != 3 {
		t.Fatalf("expected 3, got %s", result)
	}

	_, err := script.Call(context.Background(), "bad")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError, got %s: %v", got, err)
	}
}

func TestThisAccessor(t *testing.T) {
	engine := NewEngine(Config{})
	var seen *Instance
	probe := NewClass("Probe").
		Public().
		Constructor(nil, nil).
		Method("check", nil, func(exec *Execution, this *Instance, args []Value) (Value, error) {
			seen = exec.This()
			return NewNil(), nil
		}).
		Build()
	engine.RegisterClass(probe)

	err := engine.Run(context.Background(), func(exec *Execution) error {
		if exec.This() != nil {
			t.Fatalf("This() outside a method must be nil")
		}
		inst, err := exec.New("Probe")
		if err != nil {
			return err
		}
		if _, err := exec.Invoke(inst, "check"); err != nil {
			return err
		}
		if seen != inst {
			t.Fatalf("This() inside the method must be the receiver")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestWrapFunctionReturnsRebind(t *testing.T) {
	var destroyed []string
	engine, buf := newOutputEngine(t)
	engine.RegisterClass(resourceClass(&destroyed))
	engine.WrapFunction("makeRes", func(exec *Execution, args []Value) (Value, error) {
		inst, err := exec.New("Resource", args[0])
		if err != nil {
			return NewNil(), err
		}
		return NewInstanceValue(inst), nil
	})

	script := compileScript(t, engine, `def main()
  r = makeRes("w")
  print(r.label)
  return 0
end`)

	callFunc(t, script, "main")
	if buf.String() != "w\n" {
		t.Fatalf("returned handle must survive the wrapped call: %q", buf.String())
	}
	if len(destroyed) != 1 || destroyed[0] != "w" {
		t.Fatalf("handle must die with the caller's frame, got %v", destroyed)
	}
}

func TestRegisterClassReplaces(t *testing.T) {
	engine := NewEngine(Config{})
	engine.RegisterClass(NewClass("Thing").Build())
	replacement := NewClass("Thing").Public().Member("x", "int").Build()
	engine.RegisterClass(replacement)

	def, ok := engine.Class("Thing")
	if !ok || def != replacement {
		t.Fatalf("re-registration must replace the descriptor")
	}
}
