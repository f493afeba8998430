package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/leshachaplin/crashlog/app/waiter"
	"github.com/leshachaplin/crashlog/internal/config"
	"github.com/leshachaplin/crashlog/internal/installer"
	appServer "github.com/leshachaplin/crashlog/internal/server/http"
	"github.com/leshachaplin/crashlog/internal/service"
	"github.com/leshachaplin/crashlog/internal/storage/report/clickhouse"
	"github.com/leshachaplin/crashlog/internal/worker"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/consumer"
	"github.com/leshachaplin/crashlog/internal/worker/redpanda/producer"
)

const memoryQueueSize = 1024

type LoadConfigFn func() (config.Config, error)

type App struct {
	cfg      config.Config
	logger   zerolog.Logger
	server   *appServer.Server
	waiter   waiter.Waiter
	ctx      context.Context
	cancelFn context.CancelFunc
	closers  []func() error
}

func New(loadConfigFn LoadConfigFn) *App {
	ctx, cancelFn := context.WithCancel(context.Background())
	cfg, err := loadConfigFn()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := NewZeroLogger(Level(cfg.LogLevel))

	w := waiter.NewWaiter(ctx, cancelFn)

	return &App{
		cfg:      cfg,
		logger:   logger,
		waiter:   w,
		ctx:      w.Context(),
		cancelFn: w.CancelFunc(),
	}
}

func (a *App) Start() {
	defer a.cancelFn()
	defer a.close()

	footer, err := a.cfg.Footer.NewFooter()
	if err != nil {
		a.logger.Fatal().Err(err).Msg("Could not setup app footer.")
	}

	reportStorage, err := clickhouse.New(a.ctx, a.cfg.Clickhouse, a.logger.With().Str("STORAGE", "REPORT").Logger())
	if err != nil {
		a.logger.Fatal().Err(err).Msg("Could not setup report storage.")
	}
	a.closers = append(a.closers, reportStorage.Close)
	if err = reportStorage.Migrate(a.ctx); err != nil {
		a.logger.Fatal().Err(err).Msg("Could not migrate report storage.")
	}

	reportQueue, errorQueue, err := a.queues()
	if err != nil {
		a.logger.Fatal().Err(err).Msg("Could not setup report queue.")
	}

	l := a.logger.With().Str("WORKER", "REPORT").Logger()
	reportWorker := worker.New(a.ctx, a.cfg.ReportWorker, reportQueue, errorQueue, l)

	reportService := service.New(
		a.ctx,
		a.cfg.Report,
		footer,
		a.installerLookup(),
		reportWorker,
		reportStorage,
		a.logger.With().Str("SERVICE", "REPORT").Logger(),
	)
	handler := appServer.NewHandler(reportService, a.logger)

	a.server = appServer.New(handler)

	a.waitForServer()
	a.waitForWorker(reportWorker)

	if err = a.waiter.Wait(); err != nil {
		a.logger.Fatal().Err(err).Msg("App crash.")
	}
}

func (a *App) Stop() {
	a.cancelFn()
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn().Err(err).Msg("error while closing")
		}
	}
}

func (a *App) installerLookup() installer.Lookup {
	lookup := installer.Chain{installer.Static(a.cfg.Installer.Static)}
	if a.cfg.Installer.URL != "" {
		l := a.logger.With().Str("CLIENT", "INSTALLER").Logger()
		lookup = append(lookup, installer.NewHTTPLookup(a.cfg.Installer, l))
	}
	return lookup
}

// queues builds the report queue and, when an error topic is configured,
// the queue that receives batches the worker failed to store.
func (a *App) queues() (worker.Queue, worker.Queue, error) {
	if a.cfg.Queue == config.QueueMemory {
		return worker.NewMemoryQueue(memoryQueueSize), nil, nil
	}

	consumerErrorChan := make(chan error, 1)
	reportConsumer, err := consumer.NewConsumer(
		a.cfg.ReportConsumer,
		consumerErrorChan,
		a.logger.With().Str("CONSUMER", "REPORT").Logger(),
	)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, reportConsumer.Close)
	a.waitForConsumerErrors(consumerErrorChan)

	reportProducer, err := producer.NewProducer(
		a.ctx,
		a.cfg.ReportProducer,
		a.logger.With().Str("PRODUCER", "REPORT").Logger(),
	)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, reportProducer.Close)

	reportQueue := worker.NewRedpandaQueue(reportProducer, reportConsumer)
	if a.cfg.ErrorProducer.Topic == "" {
		return reportQueue, nil, nil
	}

	errorProducer, err := producer.NewProducer(
		a.ctx,
		a.cfg.ErrorProducer,
		a.logger.With().Str("PRODUCER", "ERROR").Logger(),
	)
	if err != nil {
		return nil, nil, err
	}
	a.closers = append(a.closers, errorProducer.Close)

	return reportQueue, worker.NewRedpandaQueue(errorProducer, nil), nil
}

func (a *App) waitForServer() {
	a.waiter.Add(func(ctx context.Context) error {
		defer a.logger.Debug().Msg("server has been shutdown")

		group, gCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			defer a.logger.Debug().Msg("public server exited")
			a.logger.Info().Str("addr", a.cfg.Addr).Msg("starting server")
			err := a.server.ServePublic(a.cfg.Addr)
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-gCtx.Done()
			a.logger.Debug().Msg("shutting down the server")
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := a.server.ShutdownPublic(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("error while shutting down the server")
			}
			return nil
		})

		return group.Wait()
	})
}

func (a *App) waitForWorker(reportWorker worker.WorkerPool) {
	a.waiter.Add(func(ctx context.Context) error {
		<-ctx.Done()
		reportWorker.GracefulStop()
		return nil
	})
}

func (a *App) waitForConsumerErrors(errChan <-chan error) {
	a.waiter.Add(func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-errChan:
				a.logger.Error().Err(err).Msg("report consumer")
			}
		}
	})
}
