package memory

import (
	"context"
	"sync"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository"
)

type appStateRepository struct {
	mu    sync.RWMutex
	state models.AppState
}

func NewAppStateRepository(initial models.AppState) repository.AppStateRepository {
	return &appStateRepository{state: initial}
}

func (r *appStateRepository) QueueName(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.QueueName, nil
}

func (r *appStateRepository) TicketID(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.TicketID, nil
}

func (r *appStateRepository) AheadCount(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.AheadCount, nil
}

func (r *appStateRepository) JoinerStep(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state.JoinerStep, nil
}

func (r *appStateRepository) Snapshot(ctx context.Context) (models.AppState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state, nil
}

func (r *appStateRepository) SetAheadCount(ctx context.Context, count int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.AheadCount = count
	return nil
}

func (r *appStateRepository) SetJoinerStep(ctx context.Context, step int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.JoinerStep = step
	return nil
}
