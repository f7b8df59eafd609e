package notifier

import (
	"context"
	"sync"
	"time"
)

type Shown struct {
	ID      int
	Title   string
	Options Options
	At      time.Time
}

// Inbox keeps notifications on display until they are closed. The terminal UI
// renders whatever is active.
type Inbox struct {
	mu     sync.Mutex
	nextID int
	active []Shown
}

func NewInbox() *Inbox {
	return &Inbox{}
}

func (b *Inbox) Notify(ctx context.Context, title string, opts Options) (Notification, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	s := Shown{ID: b.nextID, Title: title, Options: opts, At: time.Now()}
	b.active = append(b.active, s)

	return &inboxNotification{inbox: b, id: s.ID}, nil
}

func (b *Inbox) Active() []Shown {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Shown, len(b.active))
	copy(out, b.active)
	return out
}

func (b *Inbox) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.active {
		if s.ID == id {
			b.active = append(b.active[:i], b.active[i+1:]...)
			return
		}
	}
}

type inboxNotification struct {
	inbox *Inbox
	id    int
}

func (n *inboxNotification) Close() error {
	n.inbox.remove(n.id)
	return nil
}
