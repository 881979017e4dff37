// Package fiber runs functions in child execution contexts. Arguments are
// marshaled into the child Space before it starts and the result is
// marshaled back when the parent joins, so the two object graphs never
// share an object.
package fiber

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/chazu/dynobj/logging"
	"github.com/chazu/dynobj/object"
)

var log = logging.Get("fiber")

// Func is the body of a fiber. It runs on its own goroutine against sp
// and may raise fatals, which end the fiber.
type Func func(sp *object.Space, args []object.Value) object.Value

// State represents the state of a fiber.
type State int32

const (
	Pending State = iota
	Running
	Finished
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	default:
		return "finished"
	}
}

// Fiber is one child context and the goroutine running it.
type Fiber struct {
	id     string
	parent *object.Space
	space  *object.Space
	args   []object.Value
	state  atomic.Int32
	done   chan struct{}

	result object.Value
	err    error

	joined bool
	out    object.Value
	outErr error
}

// prepare spawns the child space and copies args into it. It runs on the
// parent's goroutine.
func prepare(parent *object.Space, args []object.Value) (*Fiber, error) {
	f := &Fiber{
		id:     uuid.New().String(),
		parent: parent,
		space:  parent.Spawn(),
		done:   make(chan struct{}),
	}
	m := object.NewRefMap(f.space)
	err := parent.Run(func() {
		f.args = make([]object.Value, len(args))
		for i, a := range args {
			f.args[i] = m.Out(a)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("fiber %s prepared, %d objects copied in", f.id, m.Len())
	return f, nil
}

func (f *Fiber) run(fn Func) {
	defer close(f.done)
	f.state.Store(int32(Running))
	log.Debugf("fiber %s started", f.id)
	f.err = f.space.Run(func() {
		f.result = fn(f.space, f.args)
	})
	f.state.Store(int32(Finished))
	if f.err != nil {
		log.Warningf("fiber %s failed: %s", f.id, f.err)
	} else {
		log.Debugf("fiber %s finished", f.id)
	}
}

// Start runs fn with args in a new child of parent. The parent must not
// touch objects passed as args until Wait returns.
func Start(parent *object.Space, fn Func, args ...object.Value) (*Fiber, error) {
	f, err := prepare(parent, args)
	if err != nil {
		return nil, err
	}
	go f.run(fn)
	return f, nil
}

func (f *Fiber) ID() string            { return f.id }
func (f *Fiber) Space() *object.Space  { return f.space }
func (f *Fiber) Parent() *object.Space { return f.parent }
func (f *Fiber) State() State          { return State(f.state.Load()) }

// Done is closed when the fiber's function has returned.
func (f *Fiber) Done() <-chan struct{} { return f.done }

// Wait blocks until the fiber finishes or ctx is cancelled, then copies
// the result into the parent space. Objects that came from the parent
// are written back in place. A fatal raised inside the fiber is
// returned as the error. Must be called on the parent's goroutine;
// repeated calls return the same result.
func (f *Fiber) Wait(ctx context.Context) (object.Value, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		return object.Null(), ctx.Err()
	}
	return f.join()
}

func (f *Fiber) join() (object.Value, error) {
	if f.joined {
		return f.out, f.outErr
	}
	f.joined = true
	if f.err != nil {
		f.out, f.outErr = object.Null(), f.err
		return f.out, f.outErr
	}
	m := object.NewRefMap(f.parent)
	f.outErr = f.parent.Run(func() {
		f.out = m.In(f.result)
	})
	return f.out, f.outErr
}
