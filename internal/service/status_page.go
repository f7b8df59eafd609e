package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/poller"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/ticketapi"
	pkgLog "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

type Option func(*statusPage)

// WithClock replaces the delay primitive of the poll chain.
func WithClock(c poller.Clock) Option {
	return func(p *statusPage) {
		p.clock = c
	}
}

func WithAPIErrorHandler(h APIErrorHandler) Option {
	return func(p *statusPage) {
		p.errH = h
	}
}

type statusPage struct {
	repo   repository.AppStateRepository
	client ticketapi.Client
	turn   *TurnNotifier
	prod   producer.Producer
	errH   APIErrorHandler
	l      pkgLog.Logger
	cfg    Config
	clock  poller.Clock
	task   *poller.Task

	mu          sync.RWMutex
	status      models.TicketStatus
	busy        bool
	lastChecked *time.Time

	changes chan struct{}
}

func NewStatusPage(
	repo repository.AppStateRepository,
	client ticketapi.Client,
	turn *TurnNotifier,
	prod producer.Producer,
	l pkgLog.Logger,
	cfg Config,
	opts ...Option,
) StatusPage {
	p := &statusPage{
		repo:    repo,
		client:  client,
		turn:    turn,
		prod:    prod,
		l:       l,
		cfg:     cfg,
		changes: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.errH == nil {
		p.errH = NewAPIErrorHandler(l)
	}
	if p.prod == nil {
		p.prod = producer.NewNoopProducer()
	}

	var popts []poller.Option
	if p.clock != nil {
		popts = append(popts, poller.WithClock(p.clock))
	}
	p.task = poller.New(cfg.PollInterval, p.poll, popts...)

	return p
}

// Mount starts watching. The first status request is issued before Mount
// returns.
func (p *statusPage) Mount(ctx context.Context) error {
	if err := p.task.Start(ctx); err != nil {
		p.l.Warnf(ctx, "service.statusPage.Mount: %v", err)
		return err
	}
	return nil
}

func (p *statusPage) Unmount() {
	p.task.Stop()
}

func (p *statusPage) CheckStatus() {
	p.task.Trigger()
}

func (p *statusPage) poll(ctx context.Context) bool {
	tID, err := p.repo.TicketID(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.poll: %v", err)
		return true
	}
	if tID == "" {
		return false
	}

	out, err := p.client.GetTicket(ctx, tID)
	if err != nil {
		p.errH.HandleError(ctx, err)
		p.signal()
		return true
	}

	if err := p.repo.SetAheadCount(ctx, out.AheadCount); err != nil {
		p.l.Errorf(ctx, "service.statusPage.poll: %v", err)
	}

	now := time.Now()
	p.mu.Lock()
	prev := p.status
	next := out.TokenStatus
	if prev == models.TicketStatusRemoved {
		next = models.TicketStatusRemoved
	}
	p.status = next
	p.lastChecked = &now
	p.mu.Unlock()
	p.errH.Clear()

	if next == models.TicketStatusNotified {
		if err := p.repo.SetJoinerStep(ctx, models.JoinerStepNotified); err != nil {
			p.l.Errorf(ctx, "service.statusPage.poll: %v", err)
		}
	}

	if prev == models.TicketStatusWaiting && next == models.TicketStatusNotified {
		p.onTurn(ctx, tID, now)
	}

	p.signal()
	return true
}

func (p *statusPage) onTurn(ctx context.Context, tID string, at time.Time) {
	qName, err := p.repo.QueueName(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.onTurn: %v", err)
	}

	p.l.Infof(ctx, "Turn arrived for ticket %s in queue %s", tID, qName)

	if p.turn != nil {
		_ = p.turn.NotifyTurn(ctx, qName)
	}

	if err := p.prod.PublishTicketNotified(ctx, kafka.TicketNotifiedEvent{
		TicketID:   tID,
		QueueName:  qName,
		NotifiedAt: at,
	}); err != nil {
		p.l.Errorf(ctx, "service.statusPage.onTurn: %v", err)
	}
}

func (p *statusPage) LeaveQueue(ctx context.Context) (*LeaveQueueOutput, error) {
	tID, err := p.repo.TicketID(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.LeaveQueue: %v", err)
		return nil, err
	}
	if tID == "" {
		return nil, ErrNoTicket
	}

	p.mu.Lock()
	if p.busy || p.status == models.TicketStatusRemoved {
		p.mu.Unlock()
		return nil, ErrActionUnavailable
	}
	p.busy = true
	p.mu.Unlock()
	p.signal()

	if _, err := p.client.RemoveTicket(ctx, tID); err != nil {
		p.errH.HandleError(ctx, err)
		if p.cfg.ResetBusyOnLeaveFailure {
			p.mu.Lock()
			p.busy = false
			p.mu.Unlock()
		}
		p.signal()
		return nil, err
	}

	p.mu.Lock()
	p.status = models.TicketStatusRemoved
	p.busy = false
	p.mu.Unlock()
	p.signal()

	qName, err := p.repo.QueueName(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.LeaveQueue: %v", err)
	}
	if err := p.prod.PublishTicketLeft(ctx, kafka.TicketLeftEvent{
		TicketID:  tID,
		QueueName: qName,
		Reason:    "user_left",
		LeftAt:    time.Now(),
	}); err != nil {
		p.l.Errorf(ctx, "service.statusPage.LeaveQueue: %v", err)
	}

	return &LeaveQueueOutput{
		TicketID: tID,
		Status:   models.TicketStatusRemoved,
		Message:  models.MessageRemoved,
	}, nil
}

func (p *statusPage) View(ctx context.Context) (models.StatusView, error) {
	st, err := p.repo.Snapshot(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.View: %v", err)
		return models.StatusView{}, err
	}

	p.mu.RLock()
	v := models.NewStatusView(st, p.status, p.busy)
	if p.lastChecked != nil {
		at := *p.lastChecked
		v.LastCheckedAt = &at
	}
	p.mu.RUnlock()

	v.LastError = p.errH.LastError()
	return v, nil
}

func (p *statusPage) Changes() <-chan struct{} {
	return p.changes
}

func (p *statusPage) PollerStatus() poller.Status {
	return p.task.Status()
}

// HandlePositionChanged refreshes right away when the queue service reports a
// change that concerns the watched ticket.
func (p *statusPage) HandlePositionChanged(ctx context.Context, in PositionChangedInput) error {
	st, err := p.repo.Snapshot(ctx)
	if err != nil {
		p.l.Errorf(ctx, "service.statusPage.HandlePositionChanged: %v", err)
		return err
	}
	if st.TicketID == "" {
		return nil
	}

	if in.QueueName != st.QueueName && !slices.Contains(in.TicketIDs, st.TicketID) {
		return nil
	}

	p.l.Debugf(ctx, "Position change (%s) in queue %s, checking status", in.UpdateType, in.QueueName)
	p.CheckStatus()
	return nil
}

func (p *statusPage) signal() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}
