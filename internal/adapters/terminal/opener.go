package terminal

import (
	"context"
	"io"

	"github.com/pkg/browser"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/zerr"
)

// Opener implements ports.WindowOpener with the system browser.
type Opener struct {
	open func(url string) error
}

// NewOpener creates an Opener that launches the default browser. Output of
// the launched process is discarded.
func NewOpener() *Opener {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return &Opener{open: browser.OpenURL}
}

// NewOpenerFunc creates an Opener that delegates to open.
func NewOpenerFunc(open func(url string) error) *Opener {
	return &Opener{open: open}
}

// Open opens url in the browser. Browsers focus an existing tab for the same
// URL when they can.
func (o *Opener) Open(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := o.open(url); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWindowOpenFailed.Error()), "url", url)
	}
	return nil
}
