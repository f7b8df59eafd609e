package notifier

import (
	"context"
	"fmt"
	"io"
	"sync"
)

const bell = "\a"

type terminalNotifier struct {
	mu       sync.Mutex
	w        io.Writer
	bellOnly bool
}

// NewTerminal rings the terminal bell and writes the notification as a line.
// Used when no interactive view owns the terminal.
func NewTerminal(w io.Writer) Notifier {
	return &terminalNotifier{w: w}
}

// NewBell only rings the bell. It is safe to use while a full screen view is
// drawn on the same terminal.
func NewBell(w io.Writer) Notifier {
	return &terminalNotifier{w: w, bellOnly: true}
}

func (t *terminalNotifier) Notify(ctx context.Context, title string, opts Options) (Notification, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var err error
	if t.bellOnly {
		_, err = io.WriteString(t.w, bell)
	} else {
		_, err = fmt.Fprintf(t.w, "%s[%s] %s\n", bell, title, opts.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to write notification: %w", err)
	}
	return closedNotification{}, nil
}

// A line written to the terminal cannot be taken back.
type closedNotification struct{}

func (closedNotification) Close() error { return nil }
