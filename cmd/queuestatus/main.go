package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/vogiaan1904/ticketbottle-queuestatus/config"
	httpHandler "github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/http"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka/consumer"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/delivery/kafka/producer"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/infra/redis"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/models"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/notifier"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository/memory"
	repo "github.com/vogiaan1904/ticketbottle-queuestatus/internal/repository/redis"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/service"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/ticketapi"
	"github.com/vogiaan1904/ticketbottle-queuestatus/internal/tui"
	pkgGrpc "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/grpc"
	pkgKafka "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/kafka"
	pkgLog "github.com/vogiaan1904/ticketbottle-queuestatus/pkg/logger"
)

const defaultTUILogFile = "queuestatus.log"

type flags struct {
	queue    string
	ticket   string
	headless bool
	serve    bool
	httpPort int
}

func parseFlags() flags {
	var f flags
	pflag.StringVarP(&f.queue, "queue", "q", "", "queue name (overrides STATUS_QUEUE_NAME)")
	pflag.StringVarP(&f.ticket, "ticket", "t", "", "ticket id to watch (overrides STATUS_TICKET_ID)")
	pflag.BoolVar(&f.headless, "headless", false, "run without the terminal UI")
	pflag.BoolVar(&f.serve, "serve", false, "serve the HTTP control API in TUI mode")
	pflag.IntVar(&f.httpPort, "http-port", 0, "HTTP control API port (overrides SERVER_HTTP_PORT)")
	pflag.Parse()
	return f
}

func main() {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if f.queue != "" {
		cfg.Status.QueueName = f.queue
	}
	if f.ticket != "" {
		cfg.Status.TicketID = f.ticket
	}
	if f.httpPort != 0 {
		cfg.Server.HTTPPort = f.httpPort
	}

	// The terminal UI owns stdout.
	logOutput := cfg.Log.Output
	if !f.headless && logOutput == "" {
		logOutput = defaultTUILogFile
	}
	l, err := pkgLog.InitializeZapLogger(pkgLog.ZapConfig{
		Level:    cfg.Log.Level,
		Mode:     cfg.Log.Mode,
		Encoding: cfg.Log.Encoding,
		Output:   logOutput,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer l.Sync()

	if err := run(ctx, cfg, f, l); err != nil {
		l.Errorf(ctx, "queuestatus exited: %v", err)
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, f flags, l pkgLog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stateRepo, closeStore, err := newStateRepository(ctx, cfg, l)
	if err != nil {
		return err
	}
	defer closeStore()

	client, closeClient, err := newTicketClient(cfg, l)
	if err != nil {
		return err
	}
	defer closeClient()

	prod := producer.NewNoopProducer()
	if cfg.Kafka.Enabled {
		kafkaSyncProd, err := pkgKafka.NewProducer(ctx, cfg.Kafka, l)
		if err != nil {
			return fmt.Errorf("failed to initialize Kafka producer: %w", err)
		}
		prod = producer.NewProducer(kafkaSyncProd, l)
	}
	defer prod.Close()

	inbox := notifier.NewInbox()
	vis := notifier.NewVisibility()
	var n notifier.Notifier = inbox
	if f.headless {
		n = notifier.NewTerminal(os.Stdout)
	} else if cfg.Status.NotificationBell {
		n = notifier.Multi(inbox, notifier.NewBell(os.Stderr))
	}
	turn := service.NewTurnNotifier(n, vis, cfg.Status.AppTitle, cfg.Status.NotificationIcon, l)

	page := service.NewStatusPage(stateRepo, client, turn, prod, l, service.Config{
		PollInterval:            cfg.Poll.Interval,
		ResetBusyOnLeaveFailure: cfg.Status.ResetBusyOnLeaveFailure,
	})
	defer page.Unmount()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.Kafka.Enabled {
		kafkaConsGr, err := pkgKafka.NewConsumerGroup(ctx, cfg.Kafka, l)
		if err != nil {
			return fmt.Errorf("failed to initialize Kafka consumer: %w", err)
		}
		cons := consumer.NewConsumer(kafkaConsGr, page, l)
		if err := cons.Start(gctx); err != nil {
			return err
		}
		defer cons.Close()
	}

	if f.headless || f.serve {
		srv := &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Server.HTTPPort),
			Handler:      httpHandler.NewHTTPHandler(page, l).Routes(),
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		}
		g.Go(func() error {
			l.Infof(gctx, "HTTP server is listening on port: %d", cfg.Server.HTTPPort)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	if f.headless {
		g.Go(func() error {
			return runHeadless(gctx, page, l)
		})
	} else {
		g.Go(func() error {
			defer cancel()
			model := tui.NewModel(gctx, page, turn, inbox, vis, cfg.Status.AppTitle)
			prog := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(gctx))
			if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// runHeadless mounts the page and logs every change until the context ends.
func runHeadless(ctx context.Context, page service.StatusPage, l pkgLog.Logger) error {
	if err := page.Mount(ctx); err != nil {
		return err
	}
	defer page.Unmount()

	for {
		select {
		case <-ctx.Done():
			l.Info(ctx, "Status watcher shutting down...")
			return nil
		case <-page.Changes():
			v, err := page.View(ctx)
			if err != nil {
				continue
			}
			l.Infof(ctx, "Status %s: %s", v.State, v.Message)
			if v.LastError != "" {
				l.Warnf(ctx, "Last error: %s", v.LastError)
			}
		}
	}
}

func newStateRepository(ctx context.Context, cfg *config.Config, l pkgLog.Logger) (repository.AppStateRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.StoreBackendRedis:
		redisCli, err := redis.Connect(ctx, cfg.Redis, l)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		stateRepo := repo.NewRedisAppStateRepository(redisCli, cfg.Store.Namespace, l)
		if err := stateRepo.Seed(ctx, cfg.Status.QueueName, cfg.Status.TicketID); err != nil {
			redis.Disconnect(ctx, redisCli, l)
			return nil, nil, fmt.Errorf("failed to seed state: %w", err)
		}
		return stateRepo, func() { redis.Disconnect(context.Background(), redisCli, l) }, nil
	default:
		return memory.NewAppStateRepository(models.AppState{
			QueueName:  cfg.Status.QueueName,
			TicketID:   cfg.Status.TicketID,
			JoinerStep: models.JoinerStepWaiting,
		}), func() {}, nil
	}
}

func newTicketClient(cfg *config.Config, l pkgLog.Logger) (ticketapi.Client, func(), error) {
	tokens := ticketapi.NewJWTTokenSource(cfg.JWT)

	switch cfg.Service.Transport {
	case config.TransportGRPC:
		conn, closeConn, err := pkgGrpc.NewTicketServiceConn(cfg.Service.GRPCAddr, cfg.Service.RequestTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize gRPC ticket service client: %w", err)
		}
		return ticketapi.NewGRPCClient(conn, tokens, l), closeConn, nil
	default:
		client, err := ticketapi.NewHTTPClient(cfg.Service, tokens, l)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}
