package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mercator-hq/logtap/pkg/console"
	"mercator-hq/logtap/pkg/stack"
)

func init() {
	// The caller of a slog function, not slog or this handler, is the call
	// site policies are matched against.
	stack.MarkInternal("log/slog", stack.PackageOf(NewSinkHandler))
}

// SinkHandlerOptions configure a SinkHandler.
type SinkHandlerOptions struct {
	// Level is the minimum level forwarded. Default: info.
	Level slog.Leveler
}

// SinkHandler is a slog.Handler that writes records through
// console.Current, so slog output is subject to the same policies as
// direct console calls.
//
// Levels map to console methods: debug to debug, info to info, warn to warn
// and error to error. The message is the first argument, followed by one
// "key=value" argument per attribute.
type SinkHandler struct {
	opts   SinkHandlerOptions
	attrs  []any
	groups []string
}

// NewSinkHandler creates a SinkHandler.
func NewSinkHandler(opts *SinkHandlerOptions) *SinkHandler {
	h := &SinkHandler{}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// Enabled reports whether level is at or above the minimum level.
func (h *SinkHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle forwards the record to the console method for its level.
func (h *SinkHandler) Handle(_ context.Context, rec slog.Record) error {
	args := make([]any, 0, 1+len(h.attrs)+rec.NumAttrs())
	args = append(args, rec.Message)
	args = append(args, h.attrs...)
	rec.Attrs(func(a slog.Attr) bool {
		args = appendAttr(args, h.groups, a)
		return true
	})
	return console.Call(methodFor(rec.Level), args...)
}

// WithAttrs returns a handler that adds attrs to every record.
func (h *SinkHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		next.attrs = appendAttr(next.attrs, h.groups, a)
	}
	return next
}

// WithGroup returns a handler that qualifies later attribute keys.
func (h *SinkHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.groups = append(next.groups, name)
	return next
}

func (h *SinkHandler) clone() *SinkHandler {
	return &SinkHandler{
		opts:   h.opts,
		attrs:  append([]any(nil), h.attrs...),
		groups: append([]string(nil), h.groups...),
	}
}

func appendAttr(args []any, groups []string, a slog.Attr) []any {
	v := a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return args
	}
	if v.Kind() == slog.KindGroup {
		inner := groups
		if a.Key != "" {
			inner = append(append([]string(nil), groups...), a.Key)
		}
		for _, g := range v.Group() {
			args = appendAttr(args, inner, g)
		}
		return args
	}

	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	return append(args, fmt.Sprintf("%s=%v", key, v.Any()))
}

func methodFor(level slog.Level) console.Key {
	switch {
	case level >= slog.LevelError:
		return console.KeyError
	case level >= slog.LevelWarn:
		return console.KeyWarn
	case level >= slog.LevelInfo:
		return console.KeyInfo
	default:
		return console.KeyDebug
	}
}
