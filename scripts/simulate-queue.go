package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	pkgKafka "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

var (
	addr      = pflag.String("addr", ":8080", "listen address of the fake ticket service")
	queueName = pflag.String("queue", "bakery", "queue name")
	numUsers  = pflag.Int("users", 10, "tickets created at startup")
	ticketID  = pflag.String("ticket", "", "id of the last ticket created at startup (random when empty)")
	advance   = pflag.Duration("advance", 15*time.Second, "interval between calls to the head of the queue")
	exitRate  = pflag.Float64("exit-rate", 0.1, "probability that a waiting ticket leaves on each advance (0.0-1.0)")
	brokers   = pflag.StringSlice("kafka-brokers", nil, "publish queue.position.changed to these brokers")
)

type ticket struct {
	ID     string
	Status models.TicketStatus
}

type simulator struct {
	mu      sync.Mutex
	queue   string
	order   []*ticket
	tickets map[string]*ticket
	prod    sarama.SyncProducer
	l       pkgLog.Logger
}

func main() {
	pflag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, err := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{Level: "debug", Mode: "development", Encoding: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	sim := &simulator{queue: *queueName, tickets: map[string]*ticket{}, l: l}
	for i := 0; i < *numUsers; i++ {
		id := uuid.NewString()
		if i == *numUsers-1 && *ticketID != "" {
			id = *ticketID
		}
		sim.join(id)
	}
	l.Infof(ctx, "Created %d tickets in queue %s, last ticket: %s", *numUsers, *queueName, sim.order[len(sim.order)-1].ID)

	if len(*brokers) > 0 {
		prod, err := pkgKafka.NewProducer(ctx, config.KafkaConfig{
			Brokers:              *brokers,
			ProducerRetryMax:     3,
			ProducerRequiredAcks: 1,
		}, l)
		if err != nil {
			l.Fatalf(ctx, "Failed to initialize Kafka producer: %v", err)
		}
		defer prod.Close()
		sim.prod = prod
	}

	r := chi.NewRouter()
	r.Use(pkgLog.HTTPLogger(l))
	r.Get("/v1/token/{tokenId}", sim.getToken)
	r.Delete("/v1/token/{tokenId}", sim.removeToken)
	r.Post("/v1/queue/join", sim.joinQueue)

	srv := &http.Server{Addr: *addr, Handler: r}
	go func() {
		l.Infof(ctx, "Fake ticket service is listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Fatalf(ctx, "Failed to serve HTTP: %v", err)
		}
	}()

	ticker := time.NewTicker(*advance)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
			l.Info(ctx, "Simulation stopped")
			return
		case <-ticker.C:
			sim.step(ctx)
		}
	}
}

func (s *simulator) join(id string) *ticket {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := &ticket{ID: id, Status: models.TicketStatusWaiting}
	s.order = append(s.order, t)
	s.tickets[id] = t
	return t
}

// step calls the head of the queue and lets some waiting tickets leave.
func (s *simulator) step(ctx context.Context) {
	s.mu.Lock()
	var changed []string
	for _, t := range s.order {
		if t.Status == models.TicketStatusWaiting {
			t.Status = models.TicketStatusNotified
			changed = append(changed, t.ID)
			break
		}
	}
	for _, t := range s.order {
		if t.Status == models.TicketStatusWaiting && rand.Float64() < *exitRate {
			t.Status = models.TicketStatusRemoved
			changed = append(changed, t.ID)
		}
	}
	s.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	s.l.Infof(ctx, "Queue %s advanced, changed tickets: %v", s.queue, changed)
	s.publish(ctx, changed)
}

func (s *simulator) publish(ctx context.Context, ticketIDs []string) {
	if s.prod == nil {
		return
	}

	val, err := json.Marshal(kafka.PositionChangedEvent{
		QueueName:  s.queue,
		TicketIDs:  ticketIDs,
		UpdateType: "queue_advanced",
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.l.Errorf(ctx, "simulator.publish: %v", err)
		return
	}

	if _, _, err := s.prod.SendMessage(&sarama.ProducerMessage{
		Topic: kafka.TopicPositionChanged,
		Key:   sarama.StringEncoder(s.queue),
		Value: sarama.ByteEncoder(val),
	}); err != nil {
		s.l.Errorf(ctx, "simulator.publish: %v", err)
	}
}

func (s *simulator) aheadOf(id string) int {
	ahead := 0
	for _, t := range s.order {
		if t.ID == id {
			return ahead
		}
		if t.Status == models.TicketStatusWaiting {
			ahead++
		}
	}
	return ahead
}

func (s *simulator) getToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tokenId")

	s.mu.Lock()
	t, ok := s.tickets[id]
	var out models.TicketStatusOutput
	if ok {
		out = models.TicketStatusOutput{
			TicketID:    t.ID,
			QueueName:   s.queue,
			AheadCount:  s.aheadOf(id),
			TokenStatus: t.Status,
		}
	}
	s.mu.Unlock()

	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "Token not found"})
		return
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *simulator) removeToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "tokenId")

	s.mu.Lock()
	t, ok := s.tickets[id]
	if ok {
		t.Status = models.TicketStatusRemoved
	}
	s.mu.Unlock()

	if !ok {
		respondJSON(w, http.StatusNotFound, map[string]string{"message": "Token not found"})
		return
	}

	now := time.Now()
	s.publish(r.Context(), []string{id})
	respondJSON(w, http.StatusOK, models.RemoveTicketOutput{
		TicketID:    id,
		TokenStatus: models.TicketStatusRemoved,
		RemovedAt:   &now,
	})
}

func (s *simulator) joinQueue(w http.ResponseWriter, r *http.Request) {
	t := s.join(uuid.NewString())
	s.publish(r.Context(), []string{t.ID})
	respondJSON(w, http.StatusCreated, map[string]string{"tokenId": t.ID, "queueName": s.queue})
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
