package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"studydesk/internal/config"
	"studydesk/internal/metrics"
	"studydesk/internal/monitor"
	"studydesk/internal/notify"
	"studydesk/internal/reminder"
	"studydesk/internal/secrets"
	"studydesk/internal/service"
	"studydesk/internal/skills"
	"studydesk/internal/storage"
)

// components is the wired application shared by serve and check.
type components struct {
	logger     *zap.Logger
	registry   *prometheus.Registry
	store      *storage.Store
	service    *service.Service
	dispatcher *notify.Dispatcher
	monitor    *monitor.Monitor
	closeRepo  func() error
}

func newComponents(cfg *config.Config, logger *zap.Logger, alerts io.Writer) (*components, error) {
	vocab, err := skills.LoadVocabulary(cfg.Skills.VocabularyFile)
	if err != nil {
		return nil, err
	}
	password, err := secrets.ReadFile("email password", cfg.Email.PasswordFile)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openRepository(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.MustNew(reg)

	store := storage.NewStore(repo, logger.Named("storage"))
	svc := service.New(store, logger.Named("service"),
		service.WithVocabulary(vocab),
		service.WithMetrics(m),
		service.WithExternalPassword(password != ""),
	)
	dispatcher := notify.NewDispatcher(notify.NewConsoleSink(alerts, cfg.JSON), logger.Named("notify"),
		notify.WithMetrics(m),
		notify.WithEmailTimeout(cfg.Email.Timeout),
		notify.WithPasswordOverride(password),
	)
	mon := monitor.New(store, dispatcher, logger.Named("monitor"),
		monitor.WithInterval(cfg.Monitor.Interval),
		monitor.WithEvaluator(reminder.Evaluator{Window: cfg.Monitor.TierWindow}),
		monitor.WithMetrics(m),
	)

	return &components{
		logger:     logger,
		registry:   reg,
		store:      store,
		service:    svc,
		dispatcher: dispatcher,
		monitor:    mon,
		closeRepo:  closeRepo,
	}, nil
}

// Close waits for in-flight emails and releases the storage backend.
func (c *components) Close() {
	c.dispatcher.Wait()
	if c.closeRepo != nil {
		if err := c.closeRepo(); err != nil {
			c.logger.Warn("closing storage", zap.Error(err))
		}
	}
}

func openRepository(cfg config.StorageConfig, logger *zap.Logger) (storage.Repository, func() error, error) {
	switch cfg.Type {
	case config.StorageMemory:
		logger.Info("using memory storage")
		return storage.NewMemoryStorage(), nil, nil
	case config.StorageFile:
		s := storage.NewFileStorage(cfg.File)
		logger.Info("using file storage", zap.String("path", s.Path()))
		return s, nil, nil
	case config.StorageSQLite:
		logger.Info("using SQLite storage", zap.String("path", cfg.SQLitePath))
		s, err := storage.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case config.StorageMongo:
		logger.Info("using MongoDB storage", zap.String("database", cfg.MongoDatabase))
		s, err := storage.NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return s, func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return s.Close(ctx)
		}, nil
	default:
		return nil, nil, fmt.Errorf("invalid storage type: %s", cfg.Type)
	}
}
