package clasp

import (
	"context"
	"io"
)

type callFrame struct {
	Function string
	Pos      Position
}

// Execution is one run of the runtime: the caller-context stack, the
// this-stack, and the scope-frame stack all live here rather than in any
// package-level state, so concurrent executions never observe each other.
type Execution struct {
	engine       *Engine
	script       *Script
	ctx          context.Context
	quota        int
	recursionCap int
	steps        int
	out          io.Writer

	root        *Env
	callStack   []callFrame
	callerStack []*callerRecord
	thisStack   []*Instance
	frames      []*Frame
}

func (exec *Execution) pushCall(function string, pos Position) error {
	if exec.recursionCap > 0 && len(exec.callStack) >= exec.recursionCap {
		return exec.errorAt(pos, "recursion depth exceeded (limit %d)", exec.recursionCap)
	}
	exec.callStack = append(exec.callStack, callFrame{Function: function, Pos: pos})
	return nil
}

func (exec *Execution) popCall() {
	if len(exec.callStack) == 0 {
		return
	}
	exec.callStack = exec.callStack[:len(exec.callStack)-1]
}

func (exec *Execution) pushCaller(rec *callerRecord) {
	exec.callerStack = append(exec.callerStack, rec)
}

func (exec *Execution) popCaller() {
	if len(exec.callerStack) == 0 {
		return
	}
	exec.callerStack = exec.callerStack[:len(exec.callerStack)-1]
}

// currentCaller returns the identity the access gate judges. Nil means no
// managed call is on the stack, i.e. top-level or host code.
func (exec *Execution) currentCaller() *callerRecord {
	if len(exec.callerStack) == 0 {
		return nil
	}
	return exec.callerStack[len(exec.callerStack)-1]
}

func (exec *Execution) pushThis(inst *Instance) {
	exec.thisStack = append(exec.thisStack, inst)
}

func (exec *Execution) popThis() {
	if len(exec.thisStack) == 0 {
		return
	}
	exec.thisStack = exec.thisStack[:len(exec.thisStack)-1]
}

func (exec *Execution) currentThis() *Instance {
	if len(exec.thisStack) == 0 {
		return nil
	}
	return exec.thisStack[len(exec.thisStack)-1]
}

func (exec *Execution) tracef(format string, args ...any) {
	if exec.engine == nil || !exec.engine.config.TraceLifecycle {
		return
	}
	exec.engine.log.Debugf(format, args...)
}

func (exec *Execution) evalStatements(stmts []Statement, env *Env) (Value, bool, error) {
	result := NewNil()
	for _, stmt := range stmts {
		if err := exec.step(); err != nil {
			return NewNil(), false, err
		}
		val, returned, err := exec.evalStatement(stmt, env)
		if err != nil {
			return NewNil(), false, err
		}
		if returned {
			return val, true, nil
		}
		result = val
	}
	return result, false, nil
}

func (exec *Execution) evalStatement(stmt Statement, env *Env) (Value, bool, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		val, err := exec.evalExpression(s.Expr, env)
		return val, false, err
	case *ReturnStmt:
		if s.Value == nil {
			return NewNil(), true, nil
		}
		val, err := exec.evalExpression(s.Value, env)
		return val, true, err
	case *RaiseStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNil(), false, err
		}
		return NewNil(), false, exec.newRuntimeError(val.String(), s.Pos())
	case *AssignStmt:
		val, err := exec.evalExpression(s.Value, env)
		if err != nil {
			return NewNil(), false, err
		}
		if err := exec.assign(s.Target, val, env); err != nil {
			return NewNil(), false, err
		}
		return val, false, nil
	case *IfStmt:
		val, err := exec.evalExpression(s.Condition, env)
		if err != nil {
			return NewNil(), false, err
		}
		if val.Truthy() {
			return exec.evalStatements(s.Consequent, newEnv(env))
		}
		for _, clause := range s.ElseIf {
			condVal, err := exec.evalExpression(clause.Condition, env)
			if err != nil {
				return NewNil(), false, err
			}
			if condVal.Truthy() {
				return exec.evalStatements(clause.Consequent, newEnv(env))
			}
		}
		if len(s.Alternate) > 0 {
			return exec.evalStatements(s.Alternate, newEnv(env))
		}
		return NewNil(), false, nil
	case *WhileStmt:
		for {
			if err := exec.step(); err != nil {
				return NewNil(), false, err
			}
			cond, err := exec.evalExpression(s.Condition, env)
			if err != nil {
				return NewNil(), false, err
			}
			if !cond.Truthy() {
				return NewNil(), false, nil
			}
			val, returned, err := exec.evalStatements(s.Body, newEnv(env))
			if err != nil {
				return NewNil(), false, err
			}
			if returned {
				return val, true, nil
			}
		}
	default:
		return NewNil(), false, exec.errorAt(stmt.Pos(), "unsupported statement")
	}
}

func (exec *Execution) assign(target Expression, val Value, env *Env) error {
	switch t := target.(type) {
	case *Identifier:
		env.Assign(t.Name, val)
		return nil
	case *MemberExpr:
		obj, err := exec.evalExpression(t.Object, env)
		if err != nil {
			return err
		}
		return exec.setMember(obj, t.Property, val, t.Pos())
	default:
		return exec.errorAt(target.Pos(), "invalid assignment target")
	}
}
