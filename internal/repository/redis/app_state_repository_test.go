package repository_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	repo "github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

func newRepo(t *testing.T) (repo.AppStateRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cli := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = cli.Close() })
	return repo.NewRedisAppStateRepository(cli, "test", logger.InitializeTestZapLogger()), mr
}

func TestEmptyStateReadsZeroValues(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	id, err := r.TicketID(ctx)
	require.NoError(t, err)
	assert.Empty(t, id)

	count, err := r.AheadCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AppState{}, snap)
}

func TestSeedAndWrite(t *testing.T) {
	r, mr := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx, "bakery", "t-42"))
	require.NoError(t, r.SetAheadCount(ctx, 3))
	require.NoError(t, r.SetJoinerStep(ctx, models.JoinerStepNotified))

	snap, err := r.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.AppState{
		QueueName:  "bakery",
		TicketID:   "t-42",
		AheadCount: 3,
		JoinerStep: models.JoinerStepNotified,
	}, snap)

	assert.Equal(t, "3", mr.HGet("queuestatus:test:state", "ahead_count"))
	assert.True(t, mr.TTL("queuestatus:test:state") > 0)
}

func TestSeedKeepsStoredValues(t *testing.T) {
	r, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Seed(ctx, "bakery", "t-42"))
	require.NoError(t, r.Seed(ctx, "", "t-43"))

	name, err := r.QueueName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bakery", name)

	id, err := r.TicketID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t-43", id)
}

func TestUnavailableRedis(t *testing.T) {
	r, mr := newRepo(t)
	mr.Close()

	_, err := r.TicketID(context.Background())
	assert.Error(t, err)
}
