package bootstrap

import (
	"context"
	"log"
	"time"

	"ncip-portal/internal/config"
	"ncip-portal/internal/controller"
	"ncip-portal/internal/pkg/clock"
	"ncip-portal/internal/pkg/filestore"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/pkg/mailer"
	"ncip-portal/internal/pkg/serverutils"
	"ncip-portal/internal/repository/memory"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/internal/scheduler"
	"ncip-portal/internal/service"
	pktNats "ncip-portal/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const purposeCacheTTL = 5 * time.Minute

type Container struct {
	// Controllers
	AuthController         controller.IAuthController
	PurposeController      controller.IPurposeController
	ApplicationController  controller.IApplicationController
	DocumentController     controller.IDocumentController
	NotificationController controller.INotificationController
	AdminController        controller.IAdminController
	GenealogyController    controller.IGenealogyController

	// Background services, started by main.go
	ConsumerService     service.IConsumerService
	NotificationService service.INotificationService
	Scheduler           *scheduler.Scheduler
	NatsSubscriber      *pktNats.Subscriber

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	isProd := cfg.App.Environment == "production"
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, isProd)
	jobLogger := logger.NewIsolatedLogger(cfg.App.JobLogFilePath)
	auditLogger := logger.NewIsolatedLogger("logs/notification.log")

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Printf("[WARN] Unknown timezone %q, using local time: %v", cfg.App.Timezone, err)
		loc = time.Local
	}
	clk := clock.New(loc)

	store, err := filestore.New(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
		cfg.App.ClientURL,
	)

	c := &Container{Logger: sysLogger}

	// 2. In-process event bus for status changes
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewStdLogger(false, false),
	)
	c.closers = append(c.closers, func() { _ = pubSub.Close() })

	// 3. External infrastructure, both optional
	var relay service.EventRelay
	if cfg.Nats.Enabled {
		natsPub, err := pktNats.NewPublisher(context.Background(), cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			relay = natsPub
			c.closers = append(c.closers, natsPub.Close)
		}

		natsSub, err := pktNats.NewSubscriber(cfg.Nats.URL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
		} else {
			c.NatsSubscriber = natsSub
			c.closers = append(c.closers, natsSub.Close)
		}
	}

	var locker scheduler.Locker
	if cfg.Redis.Enabled {
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{Addr: cfg.Redis.URL}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		locker = scheduler.NewRedisLocker(rdb)
		c.closers = append(c.closers, func() { _ = rdb.Close() })
	} else {
		locker = scheduler.NewLocalLocker()
	}

	// 4. Services
	publisherService := service.NewPublisherService(service.StatusChangedTopic, pubSub)
	c.ConsumerService = service.NewConsumerService(pubSub, service.StatusChangedTopic, uowFactory, sysLogger)

	ledger := service.NewLedger()
	purposeService := service.NewPurposeService(uowFactory, memory.NewPurposeCache(purposeCacheTTL), sysLogger, cfg.Lifecycle.DefaultDeadlineDays)
	authService := service.NewAuthService(uowFactory, clk, sysLogger, cfg.Auth.JwtSecret, cfg.Auth.TokenTTL)
	userService := service.NewUserService(uowFactory, clk, sysLogger)
	applicationService := service.NewApplicationService(uowFactory, purposeService, ledger, publisherService, clk, sysLogger, cfg.Lifecycle.DefaultDeadlineDays)
	documentService := service.NewDocumentService(uowFactory, purposeService, ledger, store, publisherService, clk, sysLogger, cfg.Storage.MaxUploadBytes)
	sweepService := service.NewSweepService(uowFactory, clk, jobLogger)
	c.NotificationService = service.NewNotificationService(
		uowFactory,
		emailService,
		relay,
		clk,
		jobLogger,
		auditLogger,
		cfg.Scheduler.DispatchBatchSize,
		cfg.Scheduler.DispatchMaxAttempts,
	)
	adminService := service.NewAdminService(uowFactory, sysLogger, jobLogger)
	genealogyService := service.NewGenealogyService(uowFactory, clk, sysLogger)

	// 5. Scheduled jobs
	c.Scheduler = scheduler.New(loc, locker, jobLogger, cfg.Scheduler.LockTTL)
	jobs := []scheduler.Job{
		{
			Name: scheduler.JobAutoCancel,
			Spec: cfg.Scheduler.AutoCancelSpec,
			Run: func(ctx context.Context) (interface{}, error) {
				return sweepService.AutoCancel(ctx)
			},
		},
		{
			Name: scheduler.JobWarnings,
			Spec: cfg.Scheduler.WarningSpec,
			Run: func(ctx context.Context) (interface{}, error) {
				return sweepService.SendDeadlineWarnings(ctx, cfg.Lifecycle.WarningLeadDays)
			},
		},
		{
			Name: scheduler.JobUrgentWarnings,
			Spec: cfg.Scheduler.UrgentWarningSpec,
			Run: func(ctx context.Context) (interface{}, error) {
				return sweepService.SendDeadlineWarnings(ctx, []int{1})
			},
		},
		{
			Name: scheduler.JobDispatch,
			Spec: cfg.Scheduler.DispatchSpec,
			Run: func(ctx context.Context) (interface{}, error) {
				return c.NotificationService.Dispatch(ctx)
			},
		},
	}
	for _, job := range jobs {
		if err := c.Scheduler.Register(job); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}

	// 6. Controllers
	auth := serverutils.JwtMiddleware(cfg.Auth.JwtSecret)

	c.AuthController = controller.NewAuthController(authService, userService, auth)
	c.PurposeController = controller.NewPurposeController(purposeService)
	c.ApplicationController = controller.NewApplicationController(applicationService, auth)
	c.DocumentController = controller.NewDocumentController(documentService, auth)
	c.NotificationController = controller.NewNotificationController(c.NotificationService, auth)
	c.GenealogyController = controller.NewGenealogyController(genealogyService, auth)
	c.AdminController = controller.NewAdminController(
		adminService,
		applicationService,
		documentService,
		userService,
		purposeService,
		c.Scheduler,
		auth,
	)

	return c
}

// Close releases bus and cache connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
