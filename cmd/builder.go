package cmd

import (
	"context"
	"fmt"
	"net/http"

	"servicedesk/api"
	"servicedesk/api/health"
	apimachine "servicedesk/api/machine"
	apiorganization "servicedesk/api/organization"
	apiticket "servicedesk/api/ticket"
	apiuser "servicedesk/api/user"
	"servicedesk/application"
	"servicedesk/application/behavior"
	"servicedesk/application/events"
	"servicedesk/config"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/metrics"
	"servicedesk/infrastructure/persistence/gormstore"
	"servicedesk/infrastructure/persistence/memory"
	"servicedesk/infrastructure/persistence/retry"
	"servicedesk/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppBuilder 按配置装配存储、事件总线、分发器与路由
type AppBuilder struct {
	cfg       *config.Config
	registry  *prometheus.Registry
	publisher gormstore.OutboxPublisher
}

// NewBuilder creates a new AppBuilder
func NewBuilder(cfg *config.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// WithRegistry 使用外部的指标注册表，测试中避免重复注册
func (b *AppBuilder) WithRegistry(reg *prometheus.Registry) *AppBuilder {
	b.registry = reg
	return b
}

// WithOutboxPublisher 替换 outbox 的下游发布器，默认只记录日志
func (b *AppBuilder) WithOutboxPublisher(p gormstore.OutboxPublisher) *AppBuilder {
	b.publisher = p
	return b
}

// storage 选定存储后的仓储与工作单元
type storage struct {
	repos  application.Repositories
	uow    shared.UnitOfWorkFactory
	db     *gorm.DB
	health health.Pinger
}

// Build creates the App instance
func (b *AppBuilder) Build() (*App, error) {
	log := logger.Get()
	log.Info("Starting application",
		zap.String("app", b.cfg.App.Name),
		zap.String("version", b.cfg.App.Version),
		zap.String("env", b.cfg.App.Env),
		zap.String("database", b.cfg.Database.Type))

	var m *metrics.Metrics
	if b.cfg.Metrics.Enabled {
		reg := b.registry
		if reg == nil {
			reg = prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		}
		m = metrics.New(reg, b.cfg.Metrics.Namespace)
	}

	bus := shared.NewEventBus()
	handlers := []shared.EventHandler{events.NewLoggingHandler(log)}
	if m != nil {
		handlers = append(handlers, m)
	}
	if err := events.SubscribeAll(bus, handlers...); err != nil {
		return nil, fmt.Errorf("failed to subscribe event handlers: %w", err)
	}

	store, err := b.openStorage(bus)
	if err != nil {
		return nil, err
	}

	opts := behavior.Options{
		Logger:     log,
		UnitOfWork: store.uow,
		Retry:      retry.FromAppConfig(b.cfg),
	}
	if m != nil {
		opts.Recorder = m
	}
	med := application.NewMediator(opts, store.repos)
	log.Info("Mediator ready",
		zap.Strings("behaviors", med.Behaviors()),
		zap.Int("handlers", len(med.Registered())))

	var metricsHandler http.Handler
	if m != nil {
		metricsHandler = m.Handler()
	}

	router := api.NewRouter(b.cfg, api.Controllers{
		Health:       health.NewController(b.cfg, store.health),
		Organization: apiorganization.NewController(med),
		Machine:      apimachine.NewController(med),
		Ticket:       apiticket.NewController(med),
		User:         apiuser.NewController(med),
	}, metricsHandler)
	router.SetupRoutes()

	app := &App{
		config: b.cfg,
		router: router,
		server: &http.Server{
			Addr:         ":" + b.cfg.Server.Port,
			Handler:      router.GetEngine(),
			ReadTimeout:  b.cfg.Server.ReadTimeout,
			WriteTimeout: b.cfg.Server.WriteTimeout,
		},
		db: store.db,
	}

	if b.cfg.Worker.Enabled && store.db != nil {
		var observer gormstore.OutboxObserver
		if m != nil {
			observer = m
		}
		worker, err := NewOutboxWorker(b.cfg, store.db, b.publisher, observer)
		if err != nil {
			return nil, err
		}
		app.worker = worker
	}

	return app, nil
}

func (b *AppBuilder) openStorage(publisher shared.EventPublisher) (*storage, error) {
	if b.cfg.Database.Type == config.DatabaseMemory {
		logger.Info("Using in-memory persistence layer")
		store := memory.NewStore()
		return &storage{
			repos: application.Repositories{
				Organizations: memory.NewOrganizationRepository(store),
				Machines:      memory.NewMachineRepository(store),
				Tickets:       memory.NewTicketRepository(store),
				Users:         memory.NewUserRepository(store),
			},
			uow: memory.NewUnitOfWorkFactory(store, publisher),
		}, nil
	}

	logger.Info("Using GORM persistence layer", zap.String("dialect", b.cfg.Database.Type))
	db, err := gormstore.Open(&b.cfg.Database, b.cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	return &storage{
		repos: application.Repositories{
			Organizations: gormstore.NewOrganizationRepository(db),
			Machines:      gormstore.NewMachineRepository(db),
			Tickets:       gormstore.NewTicketRepository(db),
			Users:         gormstore.NewUserRepository(db),
		},
		uow: gormstore.NewUnitOfWorkFactory(db, publisher),
		db:  db,
		health: func(ctx context.Context) error {
			return gormstore.Ping(ctx, db)
		},
	}, nil
}

// NewOutboxWorker 由 API 进程与独立 worker 共用；publisher 为 nil 时只记录日志
func NewOutboxWorker(cfg *config.Config, db *gorm.DB, publisher gormstore.OutboxPublisher, observer gormstore.OutboxObserver) (*gormstore.OutboxWorker, error) {
	if publisher == nil {
		publisher = &gormstore.LoggingOutboxPublisher{}
	}
	opts := gormstore.WorkerOptions{
		PollInterval: cfg.Worker.PollInterval,
		BatchSize:    cfg.Worker.BatchSize,
		MaxRetries:   cfg.Worker.MaxRetries,
		Retention:    cfg.Worker.Retention,
		Observer:     observer,
	}
	worker, err := gormstore.NewOutboxWorker(gormstore.NewOutboxRepository(db), publisher, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create outbox worker: %w", err)
	}
	return worker, nil
}
