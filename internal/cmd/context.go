package cmd

import (
	"context"
	"io"
	"os"

	"github.com/salmonumbrella/subtags/internal/ui"
)

type (
	errorFormatKey struct{}
	ioKey          struct{}
	stylesKey      struct{}
)

// WithErrorFormat stores the error format in the context.
func WithErrorFormat(ctx context.Context, format string) context.Context {
	return context.WithValue(ctx, errorFormatKey{}, format)
}

// ErrorFormatFromContext retrieves the error format from context.
func ErrorFormatFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(errorFormatKey{}).(string); ok {
		return v
	}
	return ""
}

type ioState struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func withIO(ctx context.Context, in io.Reader, out, err io.Writer) context.Context {
	return context.WithValue(ctx, ioKey{}, ioState{in: in, out: out, err: err})
}

func ioFromContext(ctx context.Context) ioState {
	var state ioState
	if ctx != nil {
		state, _ = ctx.Value(ioKey{}).(ioState)
	}
	if state.in == nil {
		state.in = os.Stdin
	}
	if state.out == nil {
		state.out = os.Stdout
	}
	if state.err == nil {
		state.err = os.Stderr
	}
	return state
}

func stdinFromContext(ctx context.Context) io.Reader  { return ioFromContext(ctx).in }
func stdoutFromContext(ctx context.Context) io.Writer { return ioFromContext(ctx).out }
func stderrFromContext(ctx context.Context) io.Writer { return ioFromContext(ctx).err }

func withStyles(ctx context.Context, styles *ui.Styles) context.Context {
	return context.WithValue(ctx, stylesKey{}, styles)
}

// stylesFromContext returns the styles chosen by --color, or plain styles.
func stylesFromContext(ctx context.Context) *ui.Styles {
	if ctx != nil {
		if s, ok := ctx.Value(stylesKey{}).(*ui.Styles); ok && s != nil {
			return s
		}
	}
	return ui.NewStyles(false)
}
