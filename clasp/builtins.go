package clasp

import (
	"fmt"
	"strings"
)

func builtinPrint(exec *Execution, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	fmt.Fprintln(exec.out, strings.Join(parts, " "))
	return NewNil(), nil
}

func builtinAssert(exec *Execution, args []Value) (Value, error) {
	if len(args) == 0 || len(args) > 2 {
		return NewNil(), fmt.Errorf("assert expects 1 or 2 arguments, got %d", len(args))
	}
	if args[0].Truthy() {
		return NewBool(true), nil
	}
	message := "assertion failed"
	if len(args) == 2 {
		message = args[1].String()
	}
	return NewNil(), newAssertionFailureError(message)
}

func builtinTypeof(exec *Execution, args []Value) (Value, error) {
	if len(args) != 1 {
		return NewNil(), fmt.Errorf("typeof expects 1 argument, got %d", len(args))
	}
	if args[0].Kind() == KindInstance {
		return NewString(args[0].Instance().Class().Name), nil
	}
	return NewString(args[0].Kind().String()), nil
}
