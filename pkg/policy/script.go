package policy

import (
	"fmt"
	"sync"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/undoio/waitstatus/pkg/logflags"
	"github.com/undoio/waitstatus/pkg/waitstatus"
)

const (
	entryPoint    = "on_exit"
	restartAction = "restart"
)

// ScriptError is returned when a policy script fails to load or run, or
// returns something that is not a decision.
type ScriptError struct {
	Script string
	Err    error
}

func (e *ScriptError) Error() string {
	if evalErr, ok := e.Err.(*starlark.EvalError); ok {
		return fmt.Sprintf("policy %s: %s", e.Script, evalErr.Backtrace())
	}
	return fmt.Sprintf("policy %s: %v", e.Script, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

// Script is a Policy implemented by the on_exit function of a Starlark
// file:
//
//	def on_exit(status):
//	    if status.signaled and status.signal == 9:
//	        return "restart"
//	    return None
//
// on_exit may return None to fall back to Default, an int to exit with
// that code, or "restart". The status struct has the fields raw, exited,
// code, signaled, signal, core_dumped and restarts; code is None unless
// exited is true, signal and core_dumped are None unless signaled is
// true.
type Script struct {
	name string

	mu     sync.Mutex
	thread *starlark.Thread
	fn     starlark.Callable
}

// Load compiles a policy script. src may be nil, in which case filename
// is read from disk.
func Load(filename string, src interface{}) (*Script, error) {
	log := logflags.PolicyLogger()
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			log.WithField("script", filename).Info(msg)
		},
	}
	globals, err := starlark.ExecFile(thread, filename, src, nil)
	if err != nil {
		return nil, &ScriptError{Script: filename, Err: err}
	}
	v, ok := globals[entryPoint]
	if !ok {
		return nil, &ScriptError{Script: filename, Err: fmt.Errorf("%s is not defined", entryPoint)}
	}
	fn, ok := v.(starlark.Callable)
	if !ok {
		return nil, &ScriptError{Script: filename, Err: fmt.Errorf("%s is a %s, not a function", entryPoint, v.Type())}
	}
	return &Script{name: filename, thread: thread, fn: fn}, nil
}

func (s *Script) Decide(st waitstatus.Status, restarts int) (Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret, err := starlark.Call(s.thread, s.fn, starlark.Tuple{statusValue(st, restarts)}, nil)
	if err != nil {
		return Decision{}, &ScriptError{Script: s.name, Err: err}
	}
	d, err := toDecision(st, restarts, ret)
	if err != nil {
		return Decision{}, &ScriptError{Script: s.name, Err: err}
	}
	if logflags.Policy() {
		logflags.PolicyLogger().WithField("script", s.name).Debugf("%v -> %s", st, ret.String())
	}
	return d, nil
}

func statusValue(st waitstatus.Status, restarts int) starlark.Value {
	var (
		code   starlark.Value = starlark.None
		signal starlark.Value = starlark.None
		core   starlark.Value = starlark.None
	)
	if st.Exited() {
		code = starlark.MakeInt(st.ExitCode())
	}
	if st.Signaled() {
		signal = starlark.MakeInt(int(st.Signal()))
		core = starlark.Bool(st.CoreDumped())
	}
	return starlarkstruct.FromStringDict(starlarkstruct.Default, starlark.StringDict{
		"raw":         starlark.MakeInt64(int64(st)),
		"exited":      starlark.Bool(st.Exited()),
		"code":        code,
		"signaled":    starlark.Bool(st.Signaled()),
		"signal":      signal,
		"core_dumped": core,
		"restarts":    starlark.MakeInt(restarts),
	})
}

func toDecision(st waitstatus.Status, restarts int, v starlark.Value) (Decision, error) {
	switch v := v.(type) {
	case starlark.NoneType:
		return Default{}.Decide(st, restarts)
	case starlark.Int:
		code, err := starlark.AsInt32(v)
		if err != nil || code < 0 || code > 255 {
			return Decision{}, fmt.Errorf("%s returned exit code %s, want 0-255", entryPoint, v.String())
		}
		return Decision{Code: code}, nil
	case starlark.String:
		if string(v) == restartAction {
			return Decision{Restart: true}, nil
		}
		return Decision{}, fmt.Errorf("%s returned unknown action %s", entryPoint, v.String())
	}
	return Decision{}, fmt.Errorf("%s returned a %s, want None, int or %q", entryPoint, v.Type(), restartAction)
}
