// Package terminal renders notifications on a terminal and opens the
// application window in the user's browser.
package terminal

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"go.trai.ch/offsync/internal/core/domain"
	"go.trai.ch/offsync/internal/ui/output"
	"go.trai.ch/offsync/internal/ui/style"
)

// Notifier implements ports.Notifier by printing notifications as they
// arrive. Shown notifications stay active until dismissed.
type Notifier struct {
	w      io.Writer
	output *termenv.Output

	mu     sync.Mutex
	active map[string]domain.Notification
	order  []string
}

// NewNotifier creates a Notifier writing to w. A nil w selects os.Stderr and a
// nil profile selects the ANSI profile used for non-interactive output.
func NewNotifier(w io.Writer, profile func() termenv.Profile) *Notifier {
	if w == nil {
		w = os.Stderr
	}
	if profile == nil {
		profile = output.ColorProfileANSI
	}
	return &Notifier{
		w:      w,
		output: output.NewWithProfile(w, profile),
		active: make(map[string]domain.Notification),
	}
}

// Show prints n and marks it active. Showing a tag again replaces it.
func (r *Notifier) Show(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[n.Tag]; !ok {
		r.order = append(r.order, n.Tag)
	}
	r.active[n.Tag] = n

	bell := r.output.String(style.Bell).Foreground(termenv.ANSIMagenta).String()
	title := r.output.String(n.Title).Bold().String()
	tag := r.output.String(fmt.Sprintf("[%s]", n.Tag)).Faint().String()

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s\n", bell, title, tag)
	if n.Body != "" {
		fmt.Fprintf(&b, "  %s\n", n.Body)
	}
	if len(n.Actions) > 0 {
		labels := make([]string, 0, len(n.Actions))
		for _, a := range n.Actions {
			labels = append(labels, fmt.Sprintf("[%s: %s]", a.Action, a.Title))
		}
		fmt.Fprintf(&b, "  %s\n", strings.Join(labels, " "))
	}

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return err
	}
	return nil
}

// Dismiss closes the notification with tag. Unknown tags are ignored.
func (r *Notifier) Dismiss(_ context.Context, tag string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.active[tag]; !ok {
		return nil
	}
	delete(r.active, tag)
	r.order = slices.DeleteFunc(r.order, func(t string) bool { return t == tag })

	check := r.output.String(style.Check).Foreground(termenv.ANSIGreen).String()
	_, err := fmt.Fprintf(r.w, "%s dismissed %s\n", check, tag)
	return err
}

// Active returns the notifications not yet dismissed, oldest first.
func (r *Notifier) Active() []domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]domain.Notification, 0, len(r.order))
	for _, tag := range r.order {
		out = append(out, r.active[tag])
	}
	return out
}
