package object

import (
	"fmt"
	"strings"
)

// Kind categorizes a resolution or lifetime error
type Kind string

const (
	KindUndefinedProperty Kind = "undefined_property"
	KindUndefinedMethod   Kind = "undefined_method"
	KindUndefinedClass    Kind = "undefined_class"
	KindUndefinedConstant Kind = "undefined_constant"
	KindAccess            Kind = "access"
	KindReentry           Kind = "reentry"
	KindProtocol          Kind = "protocol"
	KindMarshal           Kind = "marshal"
	KindUser              Kind = "user"
)

// Error is the structured error raised by the object model
type Error struct {
	Cause  error
	Kind   Kind
	Class  string
	Member string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Kind))
	b.WriteByte(']')

	if e.Class != "" || e.Member != "" {
		b.WriteByte(' ')
		b.WriteString(e.Class)
		if e.Member != "" {
			b.WriteString("::")
			b.WriteString(e.Member)
		}
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error of the same Kind
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// NewError starts an error of the given kind
func NewError(kind Kind) *Builder {
	return &Builder{err: Error{Kind: kind}}
}

// Member sets the class and member the error concerns
func (b *Builder) Member(class, member string) *Builder {
	b.err.Class = class
	b.err.Member = member
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Sentinels for errors.Is
var (
	ErrUndefinedProperty = &Error{Kind: KindUndefinedProperty}
	ErrUndefinedMethod   = &Error{Kind: KindUndefinedMethod}
	ErrUndefinedClass    = &Error{Kind: KindUndefinedClass}
	ErrUndefinedConstant = &Error{Kind: KindUndefinedConstant}
	ErrAccess            = &Error{Kind: KindAccess}
	ErrReentry           = &Error{Kind: KindReentry}
	ErrProtocol          = &Error{Kind: KindProtocol}
	ErrMarshal           = &Error{Kind: KindMarshal}
	ErrUser              = &Error{Kind: KindUser}
)

// ---------------------------------------------------------------------------
// Fatal errors (uses Go panic/recover)
// ---------------------------------------------------------------------------

// Fatal is panicked when a hard miss or protocol violation aborts the
// current context. It is recovered by Space.Run and by Recover.
type Fatal struct {
	Err *Error
}

func (f *Fatal) Error() string {
	return "fatal: " + f.Err.Error()
}

func (f *Fatal) Unwrap() error {
	return f.Err
}

// raise aborts the current context with err.
func raise(err *Error) {
	panic(&Fatal{Err: err})
}

// Recover converts a panicking *Fatal into an error. Use as
//
//	defer object.Recover(&err)
//
// Any other panic is re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if f, ok := r.(*Fatal); ok {
		*errp = f
		return
	}
	panic(r)
}
