package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"mercator-hq/logtap/pkg/stack"
)

func init() {
	stack.MarkInternal(stack.PackageOf(New))
}

// Console is the default Sink. It renders arguments as space-separated text
// terminated by a newline.
//
// debug, log and info write to the standard writer; warn, error, trace and
// assert write to the error writer.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer

	// builtin holds the methods every Console provides.
	builtin map[Key]Member

	// own holds members added with Define, in definition order.
	own      map[Key]Member
	ownOrder []Key

	counts map[string]int
}

// builtinOrder fixes the order in which Keys reports built-in methods.
var builtinOrder = []Key{
	KeyDebug, KeyLog, KeyInfo, KeyWarn, KeyError,
	KeyTrace, KeyAssert, KeyCount, KeyCountReset,
}

// New creates a Console writing to out and errOut. A nil errOut shares out.
// A nil out discards output.
func New(out, errOut io.Writer) *Console {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = out
	}

	c := &Console{
		out:    out,
		errOut: errOut,
		own:    make(map[Key]Member),
		counts: make(map[string]int),
	}
	c.builtin = map[Key]Member{
		KeyDebug:      {Func: c.debug},
		KeyLog:        {Func: c.log},
		KeyInfo:       {Func: c.info},
		KeyWarn:       {Func: c.warn},
		KeyError:      {Func: c.error},
		KeyTrace:      {Func: c.trace},
		KeyAssert:     {Func: c.assert},
		KeyCount:      {Func: c.count},
		KeyCountReset: {Func: c.countReset},
	}
	return c
}

// NewStd creates a Console writing to os.Stdout and os.Stderr.
func NewStd() *Console {
	return New(os.Stdout, os.Stderr)
}

// Lookup returns the member for key. Members added with Define shadow
// built-in methods.
func (c *Console) Lookup(key Key) (Member, bool) {
	if key == nil {
		return Member{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if m, ok := c.own[key]; ok {
		return m, true
	}
	m, ok := c.builtin[key]
	return m, ok
}

// Define adds or replaces a member.
func (c *Console) Define(key Key, member Member) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.own[key]; !exists {
		c.ownOrder = append(c.ownOrder, key)
	}
	c.own[key] = member
}

// Call invokes the method registered under key.
func (c *Console) Call(key Key, args ...any) error {
	m, ok := c.Lookup(key)
	if !ok {
		return &CallError{Key: key, Err: ErrUnknownMethod}
	}
	if !m.Callable() {
		return &CallError{Key: key, Err: ErrNotCallable}
	}
	return m.Func(c, args...)
}

// Keys lists built-in keys followed by defined keys.
func (c *Console) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(builtinOrder)+len(c.ownOrder))
	for _, k := range builtinOrder {
		if _, shadowed := c.own[k]; !shadowed {
			keys = append(keys, k)
		}
	}
	keys = append(keys, c.ownOrder...)
	return keys
}

func (c *Console) debug(_ Sink, args ...any) error { return c.write(c.out, Format(args...)) }
func (c *Console) log(_ Sink, args ...any) error   { return c.write(c.out, Format(args...)) }
func (c *Console) info(_ Sink, args ...any) error  { return c.write(c.out, Format(args...)) }
func (c *Console) warn(_ Sink, args ...any) error  { return c.write(c.errOut, Format(args...)) }
func (c *Console) error(_ Sink, args ...any) error { return c.write(c.errOut, Format(args...)) }

// trace writes the arguments followed by the caller's stack.
func (c *Console) trace(_ Sink, args ...any) error {
	var sb strings.Builder
	sb.WriteString("Trace")
	if len(args) > 0 {
		sb.WriteString(": ")
		sb.WriteString(Format(args...))
	}
	for _, frame := range stack.Capture(0) {
		sb.WriteString("\n    at ")
		sb.WriteString(frame.String())
	}
	return c.write(c.errOut, sb.String())
}

// assert writes "Assertion failed" when the first argument is falsy.
func (c *Console) assert(_ Sink, args ...any) error {
	if len(args) > 0 && truthy(args[0]) {
		return nil
	}
	msg := "Assertion failed"
	if len(args) > 1 {
		msg += ": " + Format(args[1:]...)
	}
	return c.write(c.errOut, msg)
}

func (c *Console) count(_ Sink, args ...any) error {
	label := countLabel(args)

	c.mu.Lock()
	c.counts[label]++
	n := c.counts[label]
	c.mu.Unlock()

	return c.write(c.out, fmt.Sprintf("%s: %d", label, n))
}

func (c *Console) countReset(_ Sink, args ...any) error {
	label := countLabel(args)

	c.mu.Lock()
	_, exists := c.counts[label]
	if exists {
		c.counts[label] = 0
	}
	c.mu.Unlock()

	if !exists {
		return c.write(c.errOut, fmt.Sprintf("Count for '%s' does not exist", label))
	}
	return nil
}

func (c *Console) write(w io.Writer, line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := io.WriteString(w, line+"\n")
	return err
}

// Format renders arguments the way Console writes them: strings verbatim,
// everything else through fmt, separated by single spaces.
func Format(args ...any) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case string:
			parts[i] = v
		case error:
			parts[i] = v.Error()
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, " ")
}

func countLabel(args []any) string {
	if len(args) == 0 {
		return "default"
	}
	return Format(args[0])
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	default:
		return true
	}
}
