package clasp

import (
	"context"
	"strings"
	"testing"
)

const resourceClasses = `class Res
  public
  name: string
  def Res(n)
    this.name = n
    print("ctor", n)
  end
  def ~Res()
    print("dtor", this.name)
  end
end

class Holder
  item: Res
  public
  def Holder()
  end
  def setItem(r)
    this.item = r
  end
end
`

func TestBoxScenario(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `class Box
  value: int
  public
  def Box(v)
    this.value = v
  end
  def setValue(v)
    this.value = v
  end
  def getValue()
    return this.value
  end
end

def useBox()
  b = Box.new(0)
  b.setValue(5)
  return b.getValue()
end

def readDirect()
  b = Box.new(5)
  return b.value
end

def writeDirect()
  b = Box.new(5)
  b.value = 9
end`)

	result := callFunc(t, script, "useBox")
	if result.Int() != 5 {
		t.Fatalf("expected 5, got %s", result)
	}

	_, err := script.Call(context.Background(), "readDirect")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError on read, got %s: %v", got, err)
	}

	_, err = script.Call(context.Background(), "writeDirect")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError on write, got %s: %v", got, err)
	}
}

func TestFrameTeardownReverseOrder(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def main()
  a = Res.new("a")
  b = Res.new("b")
  c = Res.new("c")
  return 0
end`)

	callFunc(t, script, "main")
	want := "ctor a\nctor b\nctor c\ndtor c\ndtor b\ndtor a\n"
	if buf.String() != want {
		t.Fatalf("unexpected teardown order:\n%s", buf.String())
	}
}

func TestReturnedHandleRebindsToCaller(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def build()
  a = Res.new("A")
  b = Res.new("B")
  return a
end

def main()
  a = build()
  print("after build")
  return 0
end`)

	callFunc(t, script, "main")
	want := "ctor A\nctor B\ndtor B\nafter build\ndtor A\n"
	if buf.String() != want {
		t.Fatalf("unexpected lifecycle:\n%s", buf.String())
	}
}

func TestSlotOverwriteDestroysPreviousValue(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def main()
  h = Holder.new()
  h.setItem(Res.new("first"))
  print("set first")
  h.setItem(Res.new("second"))
  print("set second")
  return 0
end`)

	callFunc(t, script, "main")
	want := strings.Join([]string{
		"ctor first",
		"set first",
		"ctor second",
		"dtor first",
		"set second",
		"dtor second",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Fatalf("unexpected lifecycle:\n%s", buf.String())
	}
}

func TestSlotOwnedHandleSurvivesStoringFrame(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def store(h)
  h.setItem(Res.new("kept"))
  return 0
end

def main()
  h = Holder.new()
  store(h)
  print("stored")
  return 0
end`)

	callFunc(t, script, "main")
	want := "ctor kept\nstored\ndtor kept\n"
	if buf.String() != want {
		t.Fatalf("slot-owned handle must outlive the storing frame:\n%s", buf.String())
	}
}

func TestMemberTeardownReverseDeclarationOrder(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
class Pair
  first: Res
  second: Res
  public
  def Pair()
    this.first = Res.new("one")
    this.second = Res.new("two")
  end
  def ~Pair()
    print("pair dtor")
  end
end

def main()
  p = Pair.new()
  return 0
end`)

	callFunc(t, script, "main")
	want := "ctor one\nctor two\npair dtor\ndtor two\ndtor one\n"
	if buf.String() != want {
		t.Fatalf("members must tear down in reverse declaration order after the destructor:\n%s", buf.String())
	}
}

func TestUseOfDestroyedInstance(t *testing.T) {
	engine, _ := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def main()
  h = Holder.new()
  r = Res.new("x")
  h.setItem(r)
  h.setItem(Res.new("y"))
  return r.name
end`)

	_, err := script.Call(context.Background(), "main")
	if err == nil || !strings.Contains(err.Error(), "destroyed instance") {
		t.Fatalf("expected destroyed-instance error, got %v", err)
	}
}

func TestConstructionFailureSkipsTeardown(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, `class Flaky
  public
  def Flaky()
    raise "nope"
  end
  def ~Flaky()
    print("flaky dtor")
  end
end

def main()
  f = Flaky.new()
  return 1
end`)

	_, err := script.Call(context.Background(), "main")
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("expected constructor error, got %v", err)
	}
	if strings.Contains(buf.String(), "flaky dtor") {
		t.Fatalf("destructor must not run for a half-built instance:\n%s", buf.String())
	}
}

func TestTeardownFailureCollectsAndContinues(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, `class Bad
  public
  name: string
  def Bad(n)
    this.name = n
  end
  def ~Bad()
    print("dying", this.name)
    raise "boom"
  end
end

def main()
  a = Bad.new("a")
  b = Bad.new("b")
  return 0
end`)

	_, err := script.Call(context.Background(), "main")
	if got := errorType(t, err); got != "TeardownError" {
		t.Fatalf("expected TeardownError, got %s: %v", got, err)
	}
	if buf.String() != "dying b\ndying a\n" {
		t.Fatalf("every sibling teardown must still run:\n%s", buf.String())
	}
}

func TestUnwindOnErrorStillTearsDownFrames(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, resourceClasses+`
def inner()
  r = Res.new("inner")
  raise "unwound"
end

def main()
  outer = Res.new("outer")
  inner()
  return 0
end`)

	_, err := script.Call(context.Background(), "main")
	if err == nil || !strings.Contains(err.Error(), "unwound") {
		t.Fatalf("expected raised error, got %v", err)
	}
	want := "ctor outer\nctor inner\ndtor inner\ndtor outer\n"
	if buf.String() != want {
		t.Fatalf("frames crossed by an unwind must still close:\n%s", buf.String())
	}
}

func TestZeroArgMethodAutoInvokes(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `class Box
  value: int
  public
  def Box(v)
    this.value = v
  end
  def getValue()
    return this.value
  end
end

def main()
  b = Box.new(7)
  return b.getValue
end`)

	result := callFunc(t, script, "main")
	if result.Int() != 7 {
		t.Fatalf("expected auto-invoked accessor to yield 7, got %s", result)
	}
}

func TestProtectedAcrossInheritance(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `class Base
  protected
  secret: int
  public
  def Base()
    this.secret = 41
  end
end

class Derived < Base
  public
  def Derived()
    this.secret = 42
  end
  def peek()
    return this.secret
  end
end

def allowed()
  d = Derived.new()
  return d.peek()
end

def denied()
  d = Derived.new()
  return d.secret
end`)

	result := callFunc(t, script, "allowed")
	if result.Int() != 42 {
		t.Fatalf("expected 42, got %s", result)
	}

	_, err := script.Call(context.Background(), "denied")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError, got %s: %v", got, err)
	}
}

func TestPrivateDeniedAcrossClasses(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `class Safe
  combo: int
  public
  def Safe()
    this.combo = 9
  end
end

class Thief
  public
  def Thief()
  end
  def crack(s)
    return s.combo
  end
end

def main()
  s = Safe.new()
  t = Thief.new()
  return t.crack(s)
end`)

	_, err := script.Call(context.Background(), "main")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError, got %s: %v", got, err)
	}
}

func TestPrivateConstructorBlocksExternalConstruction(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `class Singletonish
  def Singletonish()
  end
end

def main()
  s = Singletonish.new()
  return 0
end`)

	_, err := script.Call(context.Background(), "main")
	if got := errorType(t, err); got != "AccessError" {
		t.Fatalf("expected AccessError, got %s: %v", got, err)
	}
}
