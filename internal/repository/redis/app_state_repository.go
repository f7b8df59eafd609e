package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

const (
	fieldQueueName  = "queue_name"
	fieldTicketID   = "ticket_id"
	fieldAheadCount = "ahead_count"
	fieldJoinerStep = "joiner_step"

	stateTTL = 24 * time.Hour
)

type AppStateRepository interface {
	repository.AppStateRepository
	Seed(ctx context.Context, queueName, ticketID string) error
}

type redisAppStateRepository struct {
	cli *redis.Client
	ns  string
	l   logger.Logger
}

func NewRedisAppStateRepository(cli *redis.Client, namespace string, l logger.Logger) AppStateRepository {
	return &redisAppStateRepository{
		cli: cli,
		ns:  namespace,
		l:   l,
	}
}

// Seed records the queue and ticket picked by the join flow. Empty values keep
// whatever is stored.
func (r *redisAppStateRepository) Seed(ctx context.Context, queueName, ticketID string) error {
	values := map[string]any{}
	if queueName != "" {
		values[fieldQueueName] = queueName
	}
	if ticketID != "" {
		values[fieldTicketID] = ticketID
	}
	if len(values) == 0 {
		return nil
	}

	pipe := r.cli.TxPipeline()
	pipe.HSet(ctx, r.stateKey(), values)
	pipe.Expire(ctx, r.stateKey(), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "redisAppStateRepository.Seed: %v", err)
		return err
	}

	return nil
}

func (r *redisAppStateRepository) QueueName(ctx context.Context) (string, error) {
	return r.getString(ctx, fieldQueueName)
}

func (r *redisAppStateRepository) TicketID(ctx context.Context) (string, error) {
	return r.getString(ctx, fieldTicketID)
}

func (r *redisAppStateRepository) AheadCount(ctx context.Context) (int, error) {
	return r.getInt(ctx, fieldAheadCount)
}

func (r *redisAppStateRepository) JoinerStep(ctx context.Context) (int, error) {
	return r.getInt(ctx, fieldJoinerStep)
}

func (r *redisAppStateRepository) Snapshot(ctx context.Context) (models.AppState, error) {
	values, err := r.cli.HGetAll(ctx, r.stateKey()).Result()
	if err != nil {
		r.l.Errorf(ctx, "redisAppStateRepository.Snapshot: %v", err)
		return models.AppState{}, err
	}

	st := models.AppState{
		QueueName: values[fieldQueueName],
		TicketID:  values[fieldTicketID],
	}
	if st.AheadCount, err = parseInt(values[fieldAheadCount]); err != nil {
		return models.AppState{}, fmt.Errorf("invalid %s: %w", fieldAheadCount, err)
	}
	if st.JoinerStep, err = parseInt(values[fieldJoinerStep]); err != nil {
		return models.AppState{}, fmt.Errorf("invalid %s: %w", fieldJoinerStep, err)
	}

	return st, nil
}

func (r *redisAppStateRepository) SetAheadCount(ctx context.Context, count int) error {
	return r.setField(ctx, fieldAheadCount, count)
}

func (r *redisAppStateRepository) SetJoinerStep(ctx context.Context, step int) error {
	return r.setField(ctx, fieldJoinerStep, step)
}

func (r *redisAppStateRepository) setField(ctx context.Context, field string, value int) error {
	pipe := r.cli.TxPipeline()
	pipe.HSet(ctx, r.stateKey(), field, value)
	pipe.Expire(ctx, r.stateKey(), stateTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.l.Errorf(ctx, "redisAppStateRepository.setField %s: %v", field, err)
		return err
	}

	r.l.Debugf(ctx, "App state updated: %s=%d", field, value)
	return nil
}

func (r *redisAppStateRepository) getString(ctx context.Context, field string) (string, error) {
	v, err := r.cli.HGet(ctx, r.stateKey(), field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		r.l.Errorf(ctx, "redisAppStateRepository.getString %s: %v", field, err)
		return "", err
	}
	return v, nil
}

func (r *redisAppStateRepository) getInt(ctx context.Context, field string) (int, error) {
	v, err := r.getString(ctx, field)
	if err != nil {
		return 0, err
	}
	return parseInt(v)
}

func (r *redisAppStateRepository) stateKey() string {
	return fmt.Sprintf("queuestatus:%s:state", r.ns)
}

func parseInt(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
