package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"ncip-portal/internal/config"
	"ncip-portal/internal/entity"
	"ncip-portal/internal/pkg/logger"
	"ncip-portal/internal/repository/memory"
	"ncip-portal/internal/repository/specification"
	"ncip-portal/internal/repository/unitofwork"
	"ncip-portal/internal/service"
	"ncip-portal/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.PoolConfig{MaxOpenConns: 2})
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	ctx := context.Background()
	uowFactory := unitofwork.NewRepositoryFactory(db)

	color.Cyan("Seeding admin account...")
	seedAdmin(ctx, uowFactory)

	color.Cyan("Seeding purpose catalog...")
	purposes := service.NewPurposeService(uowFactory, memory.NewPurposeCache(time.Minute), logger.NewNop(), cfg.Lifecycle.DefaultDeadlineDays)
	seedPurposes(ctx, uowFactory, purposes)

	color.Green("Seeding completed!")
}

func seedAdmin(ctx context.Context, uowFactory unitofwork.RepositoryFactory) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if email == "" || password == "" {
		color.Yellow("  SEED_ADMIN_EMAIL or SEED_ADMIN_PASSWORD not set, skipping admin")
		return
	}

	uow := uowFactory.NewUnitOfWork(ctx)
	existing, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: email})
	if err != nil {
		color.Red("  lookup failed: %v", err)
		return
	}
	if existing != nil {
		color.Yellow("  admin %s already exists, skipping", email)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		color.Red("  hash failed: %v", err)
		return
	}
	hashStr := string(hash)
	now := time.Now()

	admin := &entity.User{
		Id:           uuid.New(),
		Email:        email,
		PasswordHash: &hashStr,
		FullName:     "NCIP Administrator",
		Role:         entity.UserRoleAdmin,
		Status:       entity.UserStatusActive,
		ApprovedAt:   &now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uow.UserRepository().Create(ctx, admin); err != nil {
		color.Red("  create failed: %v", err)
		return
	}
	color.Green("  created admin %s", email)
}

func seedPurposes(ctx context.Context, uowFactory unitofwork.RepositoryFactory, purposes service.IPurposeService) {
	uow := uowFactory.NewUnitOfWork(ctx)
	for i := range defaultPurposes {
		p := &defaultPurposes[i]

		existing, err := uow.PurposeRepository().FindOne(ctx, specification.Filter("name", p.Name))
		if err != nil {
			color.Red("  lookup %q failed: %v", p.Name, err)
			continue
		}
		if existing != nil {
			color.Yellow("  purpose %q already exists, skipping", p.Name)
			continue
		}

		res, err := purposes.Create(ctx, p)
		if err != nil {
			color.Red("  create %q failed: %v", p.Name, err)
			continue
		}
		color.Green("  created %s (%s) with %d requirements", res.Name, res.Code, len(res.Requirements))
	}
}
