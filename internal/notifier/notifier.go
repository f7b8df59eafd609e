// Package notifier raises turn notifications and dismisses them once the user
// is looking at the status view again.
package notifier

import (
	"context"
	"errors"
)

type Options struct {
	Body string
	Icon string
}

// Notification is a shown alert that can be dismissed.
type Notification interface {
	Close() error
}

type Notifier interface {
	Notify(ctx context.Context, title string, opts Options) (Notification, error)
}

type multiNotifier struct {
	notifiers []Notifier
}

// Multi fans a notification out to every back end. It fails only when all of
// them fail.
func Multi(notifiers ...Notifier) Notifier {
	return &multiNotifier{notifiers: notifiers}
}

func (m *multiNotifier) Notify(ctx context.Context, title string, opts Options) (Notification, error) {
	var shown multiNotification
	var errs []error
	for _, n := range m.notifiers {
		notif, err := n.Notify(ctx, title, opts)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		shown = append(shown, notif)
	}

	if len(shown) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return shown, nil
}

type multiNotification []Notification

func (m multiNotification) Close() error {
	var errs []error
	for _, n := range m {
		if err := n.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
