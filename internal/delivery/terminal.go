// Package delivery contains emitters that put rendered race frames in front
// of an audience.
package delivery

import (
	"context"
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// Terminal writes frames to a terminal or any other writer.
type Terminal struct {
	out   *termenv.Output
	clear bool
}

// NewTerminal returns an emitter writing to w. With clear set, the screen is
// wiped before each frame so the race animates in place; otherwise frames are
// separated by blank lines.
func NewTerminal(w io.Writer, clear bool) *Terminal {
	return &Terminal{out: termenv.NewOutput(w), clear: clear}
}

// Emit writes one frame.
func (t *Terminal) Emit(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if t.clear {
		t.out.ClearScreen()
		_, err := fmt.Fprintln(t.out, text)
		return err
	}
	_, err := fmt.Fprintf(t.out, "%s\n\n\n\n\n", text)
	return err
}
