package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ncip-portal/internal/bootstrap"
	"ncip-portal/internal/config"
	"ncip-portal/internal/server"
	"ncip-portal/internal/tracer"
	"ncip-portal/pkg/database"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Tracing
	shutdownTracer := tracer.InitTracer(cfg.Telemetry.Enabled, cfg.Telemetry.ServiceName)

	// 3. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		LogSQL:       cfg.App.Environment == "development",
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)

	// 5. Start Background Services
	ctx, stop := context.WithCancel(context.Background())

	log.Println("Background: Starting Consumer Service...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Printf("Background Consumer Error: %v", err)
	}

	if container.NatsSubscriber != nil {
		if err := container.NotificationService.StartRelayAudit(ctx, container.NatsSubscriber); err != nil {
			log.Printf("Background Relay Audit Error: %v", err)
		}
	}

	if cfg.Scheduler.Enabled {
		container.Scheduler.Start()
	} else {
		log.Println("Scheduler disabled (SCHEDULER_ENABLED=false), jobs can still be run from the admin API")
	}

	// 6. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}()

	// 7. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	container.Scheduler.Stop(shutdownCtx)
	stop()
	container.Close()

	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Printf("Tracer shutdown error: %v", err)
	}
}
