package object

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	"github.com/chazu/dynobj/logging"
)

// Diagnostic is a non-fatal report produced by member resolution.
type Diagnostic struct {
	Kind    Kind
	Message string
	Object  int64 // id of the object involved, 0 if none
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
}

// Option configures a Space.
type Option func(*Space)

// WithWarnUndefined controls whether undefined-property reads with
// errorOnMiss are reported (default true).
func WithWarnUndefined(on bool) Option {
	return func(s *Space) { s.warnUndefined = on }
}

// WithStrictVisibility controls whether writing an invisible declared
// member is fatal (default true) or only diagnosed and ignored.
func WithStrictVisibility(on bool) Option {
	return func(s *Space) { s.strictVisibility = on }
}

// WithLogger replaces the "dynobj.object" logger.
func WithLogger(log commonlog.Logger) Option {
	return func(s *Space) { s.log = log }
}

// Space is one execution context: a request, or a fiber spawned within
// one. It owns the objects created in it and collects their
// diagnostics. A Space and its objects are confined to one goroutine at
// a time; objects cross between spaces only through marshaling.
type Space struct {
	id     string
	reg    *Registry
	parent *Space
	log    commonlog.Logger

	warnUndefined    bool
	strictVisibility bool

	diags   []Diagnostic
	live    int
	statics map[*Class]map[string]*staticCell
}

// NewSpace creates an execution context over reg.
func NewSpace(reg *Registry, opts ...Option) *Space {
	s := &Space{
		id:               uuid.New().String(),
		reg:              reg,
		log:              logging.Get("object"),
		warnUndefined:    true,
		strictVisibility: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn creates a child context sharing the registry and options.
func (s *Space) Spawn() *Space {
	c := &Space{
		id:               uuid.New().String(),
		reg:              s.reg,
		parent:           s,
		log:              s.log,
		warnUndefined:    s.warnUndefined,
		strictVisibility: s.strictVisibility,
	}
	return c
}

func (s *Space) ID() string          { return s.id }
func (s *Space) Registry() *Registry { return s.reg }
func (s *Space) Parent() *Space      { return s.parent }

// Live returns the number of objects created in this space and not yet
// released. Facades are not counted; their root is.
func (s *Space) Live() int { return s.live }

// Diagnostics returns the diagnostics recorded so far.
func (s *Space) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

// ClearDiagnostics drops recorded diagnostics.
func (s *Space) ClearDiagnostics() {
	s.diags = nil
}

func (s *Space) warn(kind Kind, o *Object, format string, args ...any) {
	s.report(commonlog.Warning, kind, o, format, args...)
}

func (s *Space) notice(kind Kind, o *Object, format string, args ...any) {
	s.report(commonlog.Notice, kind, o, format, args...)
}

func (s *Space) report(level commonlog.Level, kind Kind, o *Object, format string, args ...any) {
	d := Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...)}
	if o != nil {
		d.Object = o.id
	}
	s.diags = append(s.diags, d)
	s.log.Log(level, 1, d.Message, "space", s.id, "object", d.Object)
}

// Run executes fn as one logical request. A fatal error raised inside it
// terminates fn and is returned; other panics propagate.
func (s *Space) Run(fn func()) (err error) {
	defer func() {
		if err != nil {
			s.log.Errorf("space %s: %s", s.id, err)
		}
	}()
	defer Recover(&err)
	fn()
	return nil
}

// ---------------------------------------------------------------------------
// Object creation
// ---------------------------------------------------------------------------

// Create allocates an instance of cls and runs the class chain's Init
// functions, parent first, under a lifetime guard. The constructor is
// not called.
func (s *Space) Create(cls *Class) *Object {
	o := s.alloc(cls)
	release := o.Hold()
	defer release()
	for _, c := range cls.chain() {
		if c.Init != nil {
			c.Init(o)
		}
	}
	return o
}

// New creates an instance of the named class and runs its constructor.
// An unknown class is fatal.
func (s *Space) New(className string, args ...Value) *Object {
	return s.NewOf(s.reg.class(className, true), args...)
}

// NewOf is New for an already resolved class.
func (s *Space) NewOf(cls *Class, args ...Value) *Object {
	o := s.Create(cls)
	o.Construct(args...)
	return o
}

// NewRedirected creates a facade of facadeCls whose state lives in root.
func (s *Space) NewRedirected(facadeCls *Class, root *Object) *Object {
	o := s.alloc(facadeCls)
	o.SetRoot(root)
	return o
}

// FromArray creates a stdClass object populated from arr without
// invoking magic setters.
func (s *Space) FromArray(arr *Array) *Object {
	o := s.Create(s.reg.class(StdClass, true))
	o.SetArray(arr)
	return o
}
