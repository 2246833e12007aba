package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/eventbus"
	"dispatch/internal/adapters/out/memory"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/quote"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"
	"dispatch/internal/observability"
	"dispatch/internal/pkg/keylock"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/multierr"
)

// uowFactory is what both the memory and the GORM stores provide.
type uowFactory interface {
	Create() ports.UnitOfWork
}

type CompositionRoot struct {
	cfg      Config
	logger   *slog.Logger
	settings commands.Settings

	uowFactory uowFactory
	locker     ports.ResourceLocker
	publisher  ports.EventPublisher
	registry   *prometheus.Registry
	metrics    *observability.Metrics

	closers []io.Closer
}

func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		cfg:    cfg,
		logger: logger,
		settings: commands.Settings{
			Now:          commands.DefaultSettings().Now,
			RetryDelay:   cfg.StoreRetryDelay,
			SlotDuration: cfg.SlotDuration,
			Location:     cfg.Location(),
		},
	}

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = observability.NewMetrics(c.registry)

	if err := c.initPublisher(); err != nil {
		return nil, c.fail(err)
	}
	if err := c.initLocker(ctx); err != nil {
		return nil, c.fail(err)
	}
	if err := c.initStore(ctx); err != nil {
		return nil, c.fail(err)
	}
	return c, nil
}

func (c *CompositionRoot) initPublisher() error {
	if !c.cfg.KafkaEnabled() {
		c.publisher = eventbus.NewLogPublisher(c.logger)
		return nil
	}
	publisher, err := eventbus.NewKafkaPublisher(c.cfg.KafkaBrokers, eventbus.Routes{
		order.StatusChangedEventName:     c.cfg.KafkaOrderChangedTopic,
		order.ResourcesAssignedEventName: c.cfg.KafkaOrderChangedTopic,
		quote.DecidedEventName:           c.cfg.KafkaQuoteDecidedTopic,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("kafka publisher: %w", err)
	}
	c.publisher = publisher
	c.closers = append(c.closers, publisher)
	return nil
}

func (c *CompositionRoot) initLocker(ctx context.Context) error {
	if c.cfg.RedisURL == "" {
		c.locker = keylock.New()
		return nil
	}
	opts, err := redis.ParseURL(c.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis url: %w", err)
	}
	client := redis.NewClient(opts)
	c.closers = append(c.closers, client)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	locker, err := redislock.New(client, redislock.WithTTL(c.cfg.LockTTL))
	if err != nil {
		return err
	}
	c.locker = locker
	return nil
}

func (c *CompositionRoot) initStore(ctx context.Context) error {
	switch c.cfg.StoreDriver {
	case StoreMemory:
		c.uowFactory = memory.NewUnitOfWorkFactory(memory.NewDatabase(), c.publisher, c.logger)
		return nil
	case StorePostgres, StoreSQLite:
	default:
		return fmt.Errorf("unsupported store driver %q", c.cfg.StoreDriver)
	}

	dbCfg := postgres.Config{
		Driver:       postgres.DriverPostgres,
		DSN:          c.cfg.PostgresDSN(),
		MaxOpenConns: 20,
		MaxIdleConns: 5,
	}
	if c.cfg.StoreDriver == StoreSQLite {
		dbCfg = postgres.Config{Driver: postgres.DriverSQLite, DSN: c.cfg.SQLitePath, MaxOpenConns: 1}
	}
	db, err := postgres.Open(ctx, dbCfg, c.logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	c.closers = append(c.closers, sqlDB)

	if c.cfg.StoreDriver == StoreSQLite {
		err = postgres.AutoMigrate(db)
	} else {
		err = postgres.Migrate(ctx, sqlDB, "up")
	}
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	c.uowFactory = postgres.NewUnitOfWorkFactory(db, c.publisher, c.logger)
	return nil
}

func (c *CompositionRoot) fail(err error) error {
	return multierr.Append(err, c.Close())
}

// Close releases connections in reverse order of acquisition.
func (c *CompositionRoot) Close() error {
	var err error
	for i := len(c.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, c.closers[i].Close())
	}
	c.closers = nil
	return err
}

func (c *CompositionRoot) Logger() *slog.Logger {
	return c.logger
}

func (c *CompositionRoot) uow() commands.UoWFactoryFunc {
	return func() commands.UoW { return c.uowFactory.Create() }
}

func (c *CompositionRoot) quoteUoW() commands.QuoteUoWFactoryFunc {
	return func() commands.QuoteUoW { return c.uowFactory.Create() }
}

func (c *CompositionRoot) driverUoW() commands.DriverUoWFactoryFunc {
	return func() commands.DriverUoW { return c.uowFactory.Create() }
}

func (c *CompositionRoot) vehicleUoW() commands.VehicleUoWFactoryFunc {
	return func() commands.VehicleUoW { return c.uowFactory.Create() }
}

func (c *CompositionRoot) readers() queries.ReaderFactoryFunc {
	return func() queries.Reader { return c.uowFactory.Create() }
}

func (c *CompositionRoot) CreateSubmitQuoteCommandHandler() commands.SubmitQuoteCommandHandler {
	return commands.NewSubmitQuoteCommandHandler(c.quoteUoW(), c.settings)
}

func (c *CompositionRoot) CreateDecideQuoteCommandHandler() commands.DecideQuoteCommandHandler {
	return commands.NewDecideQuoteCommandHandler(c.quoteUoW(), c.settings)
}

func (c *CompositionRoot) CreateAnnotateQuoteCommandHandler() commands.AnnotateQuoteCommandHandler {
	return commands.NewAnnotateQuoteCommandHandler(c.quoteUoW(), c.settings)
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uow(), c.settings)
}

func (c *CompositionRoot) CreateCreateOrderFromQuoteCommandHandler() commands.CreateOrderFromQuoteCommandHandler {
	return commands.NewCreateOrderFromQuoteCommandHandler(c.uow(), c.settings)
}

func (c *CompositionRoot) CreateAssignResourcesCommandHandler() commands.AssignResourcesCommandHandler {
	return commands.NewAssignResourcesCommandHandler(c.uow(), c.locker, c.metrics, c.settings)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(c.uow(), c.locker, c.metrics, c.settings)
}

func (c *CompositionRoot) CreateRecordPaymentCommandHandler() commands.RecordPaymentCommandHandler {
	return commands.NewRecordPaymentCommandHandler(c.uow(), c.settings)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.driverUoW(), c.settings)
}

func (c *CompositionRoot) CreateChangeDriverStatusCommandHandler() commands.ChangeDriverStatusCommandHandler {
	return commands.NewChangeDriverStatusCommandHandler(c.driverUoW(), c.locker, c.settings)
}

func (c *CompositionRoot) CreateRegisterVehicleCommandHandler() commands.RegisterVehicleCommandHandler {
	return commands.NewRegisterVehicleCommandHandler(c.vehicleUoW(), c.settings)
}

func (c *CompositionRoot) CreateChangeVehicleStatusCommandHandler() commands.ChangeVehicleStatusCommandHandler {
	return commands.NewChangeVehicleStatusCommandHandler(c.vehicleUoW(), c.locker, c.settings)
}

func (c *CompositionRoot) CreateMarkDelayedEntriesCommandHandler() commands.MarkDelayedEntriesCommandHandler {
	return commands.NewMarkDelayedEntriesCommandHandler(c.uow(), c.locker, c.settings)
}

func (c *CompositionRoot) CreateGetQuoteQueryHandler() queries.GetQuoteQueryHandler {
	return queries.NewGetQuoteQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateGetResourceAvailabilityQueryHandler() queries.GetResourceAvailabilityQueryHandler {
	return queries.NewGetResourceAvailabilityQueryHandler(c.readers(), c.settings.Now)
}

func (c *CompositionRoot) CreateListScheduleQueryHandler() queries.ListScheduleQueryHandler {
	return queries.NewListScheduleQueryHandler(c.readers())
}

func (c *CompositionRoot) CreateListMaintenanceDueVehiclesQueryHandler() queries.ListMaintenanceDueVehiclesQueryHandler {
	return queries.NewListMaintenanceDueVehiclesQueryHandler(c.readers(), c.settings.Now)
}

// CreateRouter builds the HTTP facade with every use case mounted.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	server := http.NewServer(http.Handlers{
		SubmitQuote:          c.CreateSubmitQuoteCommandHandler(),
		DecideQuote:          c.CreateDecideQuoteCommandHandler(),
		AnnotateQuote:        c.CreateAnnotateQuoteCommandHandler(),
		CreateOrder:          c.CreateCreateOrderCommandHandler(),
		CreateOrderFromQuote: c.CreateCreateOrderFromQuoteCommandHandler(),
		AssignResources:      c.CreateAssignResourcesCommandHandler(),
		TransitionOrder:      c.CreateTransitionOrderCommandHandler(),
		RecordPayment:        c.CreateRecordPaymentCommandHandler(),
		RegisterDriver:       c.CreateRegisterDriverCommandHandler(),
		ChangeDriverStatus:   c.CreateChangeDriverStatusCommandHandler(),
		RegisterVehicle:      c.CreateRegisterVehicleCommandHandler(),
		ChangeVehicleStatus:  c.CreateChangeVehicleStatusCommandHandler(),

		GetQuote:                   c.CreateGetQuoteQueryHandler(),
		GetOrder:                   c.CreateGetOrderQueryHandler(),
		GetResourceAvailability:    c.CreateGetResourceAvailabilityQueryHandler(),
		ListSchedule:               c.CreateListScheduleQueryHandler(),
		ListMaintenanceDueVehicles: c.CreateListMaintenanceDueVehiclesQueryHandler(),
	}, c.logger)

	return http.NewRouter(server, http.RouterConfig{
		Logger:   c.logger,
		Observer: c.metrics,
		Gatherer: c.registry,
		LogLevel: c.cfg.LogLevel,
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewScheduleDelayJob(c.CreateMarkDelayedEntriesCommandHandler(), c.metrics, c.cfg.DelaySweepSchedule, c.logger),
		jobs.NewMaintenanceScanJob(c.CreateListMaintenanceDueVehiclesQueryHandler(), c.metrics, c.cfg.MaintenanceScanSchedule, c.logger),
	)
}
