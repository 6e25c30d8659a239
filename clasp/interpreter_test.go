package clasp

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func compileScript(t *testing.T, engine *Engine, source string) *Script {
	t.Helper()
	script, err := engine.Compile(source)
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return script
}

func callFunc(t *testing.T, script *Script, name string, args ...Value) Value {
	t.Helper()
	result, err := script.Call(context.Background(), name, args...)
	if err != nil {
		t.Fatalf("call %s failed: %v", name, err)
	}
	return result
}

func newOutputEngine(t *testing.T) (*Engine, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	return NewEngine(Config{Output: &buf}), &buf
}

func errorType(t *testing.T, err error) string {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error")
	}
	re, ok := err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected RuntimeError, got %T: %v", err, err)
	}
	return re.Type
}

func TestCompileAndCallAdd(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def add(a, b)
  return a + b
end`)

	result := callFunc(t, script, "add", NewInt(2), NewInt(3))
	if result.Kind() != KindInt || result.Int() != 5 {
		t.Fatalf("expected 5, got %#v", result)
	}
}

func TestImplicitLastValue(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def last()
  x = 1
  x + 9
end`)

	result := callFunc(t, script, "last")
	if result.Int() != 10 {
		t.Fatalf("expected 10, got %s", result)
	}
}

func TestWhileLoop(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def count(n)
  total = 0
  i = 0
  while i < n
    total = total + i
    i = i + 1
  end
  return total
end`)

	result := callFunc(t, script, "count", NewInt(5))
	if result.Int() != 10 {
		t.Fatalf("expected 10, got %s", result)
	}
}

func TestIfElsifElse(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def grade(n)
  if n >= 90
    return "a"
  elsif n >= 80
    return "b"
  else
    return "c"
  end
end`)

	cases := map[int64]string{95: "a", 85: "b", 10: "c"}
	for input, want := range cases {
		result := callFunc(t, script, "grade", NewInt(input))
		if result.String() != want {
			t.Fatalf("grade(%d): expected %s, got %s", input, want, result)
		}
	}
}

func TestAssertFailure(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def check()
  assert(false, "boom")
end`)

	_, err := script.Call(context.Background(), "check")
	if got := errorType(t, err); got != "AssertionError" {
		t.Fatalf("expected AssertionError, got %s: %v", got, err)
	}
}

func TestRaiseStatement(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def boom()
  raise "it broke"
end`)

	_, err := script.Call(context.Background(), "boom")
	if err == nil || !strings.Contains(err.Error(), "it broke") {
		t.Fatalf("expected raised error, got %v", err)
	}
}

func TestStepQuotaExceeded(t *testing.T) {
	engine := NewEngine(Config{StepQuota: 100})
	script := compileScript(t, engine, `def spin()
  while true
    x = 1
  end
end`)

	_, err := script.Call(context.Background(), "spin")
	if err == nil || !strings.Contains(err.Error(), "step quota exceeded") {
		t.Fatalf("expected step quota error, got %v", err)
	}
}

func TestRecursionLimit(t *testing.T) {
	engine := NewEngine(Config{RecursionLimit: 16})
	script := compileScript(t, engine, `def loop()
  return loop()
end`)

	_, err := script.Call(context.Background(), "loop")
	if err == nil || !strings.Contains(err.Error(), "recursion depth exceeded") {
		t.Fatalf("expected recursion error, got %v", err)
	}
}

func TestContextCancellation(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def spin()
  while true
    x = 1
  end
end`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := script.Call(ctx, "spin"); err == nil {
		t.Fatalf("expected cancellation error")
	}
}

func TestPrintBuiltin(t *testing.T) {
	engine, buf := newOutputEngine(t)
	script := compileScript(t, engine, `def main()
  print("hello", 42)
end`)

	callFunc(t, script, "main")
	if buf.String() != "hello 42\n" {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}

func TestUnknownFunction(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def main()
  return 1
end`)

	if _, err := script.Call(context.Background(), "missing"); err == nil {
		t.Fatalf("expected unknown function error")
	}
}

func TestArityMismatch(t *testing.T) {
	engine := NewEngine(Config{})
	script := compileScript(t, engine, `def pair(a, b)
  return a + b
end`)

	_, err := script.Call(context.Background(), "pair", NewInt(1))
	if err == nil || !strings.Contains(err.Error(), "expects 2 argument(s)") {
		t.Fatalf("expected arity error, got %v", err)
	}
}
