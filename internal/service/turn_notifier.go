package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/notifier"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

// TurnNotifier tells the user their turn has come. The alert is closed the
// next time the status view becomes visible.
type TurnNotifier struct {
	n     notifier.Notifier
	vis   *notifier.Visibility
	title string
	icon  string
	l     logger.Logger

	disabled atomic.Bool
}

func NewTurnNotifier(n notifier.Notifier, vis *notifier.Visibility, title, icon string, l logger.Logger) *TurnNotifier {
	return &TurnNotifier{
		n:     n,
		vis:   vis,
		title: title,
		icon:  icon,
		l:     l,
	}
}

func (t *TurnNotifier) NotifyTurn(ctx context.Context, queueName string) error {
	if t.disabled.Load() {
		return nil
	}

	notif, err := t.n.Notify(ctx, t.title, notifier.Options{
		Body: fmt.Sprintf("%s: You've been notified by the queue manager.", queueName),
		Icon: t.icon,
	})
	if err != nil {
		t.l.Errorf(ctx, "service.TurnNotifier.NotifyTurn: %v", err)
		return err
	}

	t.vis.Once(func() {
		if err := notif.Close(); err != nil {
			t.l.Warnf(ctx, "service.TurnNotifier.NotifyTurn: close: %v", err)
		}
	})
	return nil
}

func (t *TurnNotifier) Enabled() bool {
	return !t.disabled.Load()
}

// SetEnabled switches turn alerts on or off. Alerts already shown stay up.
func (t *TurnNotifier) SetEnabled(enabled bool) {
	t.disabled.Store(!enabled)
}
