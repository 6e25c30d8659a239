package clasp

import (
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/tliron/commonlog"
)

// Config controls execution bounds and lifecycle diagnostics.
type Config struct {
	StepQuota      int
	RecursionLimit int
	TraceLifecycle bool
	Output         io.Writer
}

// Engine hosts registered classes and builtins and executes compiled units
// with deterministic limits. Engines are safe for concurrent use; each Call
// or Run gets its own Execution.
type Engine struct {
	config   Config
	builtins map[string]Value
	log      commonlog.Logger

	classMu sync.RWMutex
	classes map[string]*ClassDef

	serial atomic.Int64
}

// NewEngine constructs an Engine with sane defaults and registers built-ins.
func NewEngine(cfg Config) *Engine {
	if cfg.StepQuota <= 0 {
		cfg.StepQuota = 50000
	}
	if cfg.RecursionLimit <= 0 {
		cfg.RecursionLimit = 64
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}

	engine := &Engine{
		config:   cfg,
		builtins: make(map[string]Value),
		classes:  make(map[string]*ClassDef),
		log:      commonlog.GetLogger("clasp.runtime"),
	}

	engine.RegisterBuiltin("print", builtinPrint)
	engine.RegisterBuiltin("assert", builtinAssert)
	engine.RegisterBuiltin("typeof", builtinTypeof)

	return engine
}

// RegisterBuiltin exposes a host function under the given global name.
func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.builtins[name] = NewBuiltin(name, fn)
}

// RegisterClass makes a class constructible by name from any unit run on
// this engine. Re-registering a name replaces the previous descriptor;
// instances built from the old one are unaffected.
func (e *Engine) RegisterClass(def *ClassDef) {
	e.classMu.Lock()
	defer e.classMu.Unlock()
	e.classes[def.Name] = def
}

// Class returns a registered class descriptor by name.
func (e *Engine) Class(name string) (*ClassDef, bool) {
	e.classMu.RLock()
	defer e.classMu.RUnlock()
	def, ok := e.classes[name]
	return def, ok
}

func (e *Engine) registeredClasses() map[string]*ClassDef {
	e.classMu.RLock()
	defer e.classMu.RUnlock()
	out := make(map[string]*ClassDef, len(e.classes))
	for name, def := range e.classes {
		out[name] = def
	}
	return out
}

// nextSerial hands out the arena identity for a new instance. Serials are
// engine-wide so identity survives handles moving between frames and slots.
func (e *Engine) nextSerial() int64 {
	return e.serial.Add(1)
}
