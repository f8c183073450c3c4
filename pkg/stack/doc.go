// Package stack captures structured call-site frames for the current
// goroutine.
//
// Library packages that wrap logging calls register themselves with
// MarkInternal so that the first frame returned by Capture belongs to the
// code that actually issued the call. Unwinding stops at runtime and test
// harness frames.
package stack
