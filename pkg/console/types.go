package console

import (
	"errors"
	"fmt"
)

// Key identifies a member of a Sink.
// Implementations are Name and *Symbol.
type Key interface {
	String() string
	isKey()
}

// Name is a string-named member key such as "log" or "error".
type Name string

// String returns the member name.
func (n Name) String() string { return string(n) }

func (Name) isKey() {}

// Symbol is an opaque member key. Two symbols are equal only if they are
// the same pointer, even when their descriptions match.
type Symbol struct {
	description string
}

// NewSymbol creates a new unique symbol key.
func NewSymbol(description string) *Symbol {
	return &Symbol{description: description}
}

// Description returns the description the symbol was created with.
func (s *Symbol) Description() string { return s.description }

// String returns "Symbol(description)".
func (s *Symbol) String() string {
	return "Symbol(" + s.description + ")"
}

func (*Symbol) isKey() {}

// Well-known method keys provided by Console.
const (
	KeyDebug      Name = "debug"
	KeyLog        Name = "log"
	KeyInfo       Name = "info"
	KeyWarn       Name = "warn"
	KeyError      Name = "error"
	KeyTrace      Name = "trace"
	KeyAssert     Name = "assert"
	KeyCount      Name = "count"
	KeyCountReset Name = "countReset"
)

// Method is a callable sink member. recv is the sink through which the
// method was invoked.
type Method func(recv Sink, args ...any) error

// Member is a single sink member. A member with a nil Func is a plain value
// and is never intercepted.
type Member struct {
	Func  Method
	Value any
}

// Callable reports whether the member is a method.
func (m Member) Callable() bool {
	return m.Func != nil
}

// Sink is a logging facility exposing callable and non-callable members.
type Sink interface {
	// Lookup returns the member registered under key.
	Lookup(key Key) (Member, bool)

	// Define adds or replaces a member.
	Define(key Key, member Member)

	// Call invokes the method registered under key with the sink itself as
	// the receiver.
	Call(key Key, args ...any) error

	// Keys lists the keys of all members.
	Keys() []Key
}

var (
	// ErrUnknownMethod indicates that no member exists for a key.
	ErrUnknownMethod = errors.New("unknown console method")

	// ErrNotCallable indicates that the member for a key is a plain value.
	ErrNotCallable = errors.New("console member is not callable")
)

// CallError reports a failed attempt to call a sink member.
type CallError struct {
	Key Key
	Err error
}

// Error returns the error message.
func (e *CallError) Error() string {
	return fmt.Sprintf("console.%s: %v", e.Key, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CallError) Unwrap() error {
	return e.Err
}
