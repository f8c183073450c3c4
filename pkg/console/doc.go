// Package console provides the process-wide logging sink that logtap
// intercepts, together with the single substitution point through which
// the current sink is obtained and replaced.
//
// # Sink Model
//
// A Sink is a set of members addressed by Key. A member is either callable
// (it carries a Method) or a plain value. Keys are either string names
// (Name) or opaque symbols (NewSymbol) compared by identity, so callers can
// attach private methods that never collide with named ones.
//
// Every Method receives the Sink the call was made through. A custom method
// that calls another member through its receiver is therefore subject to the
// same interception as a direct call:
//
//	console.Current().Define(console.Name("banner"), console.Member{
//	    Func: func(recv console.Sink, args ...any) error {
//	        return recv.Call(console.KeyLog, append([]any{"***"}, args...)...)
//	    },
//	})
//
// # Substitution Point
//
// Code logs through Current (or the package helpers Debug, Log, Info, Warn
// and Error, which resolve Current on every call). Replace installs a new
// sink and returns the previous one; this is the only way the ambient sink
// changes.
//
//	prev := console.Replace(console.New(&buf, nil))
//	defer console.Replace(prev)
//	console.Log("hello") // written to buf
package console
