package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/festpass/festpass-api/internal/api"
	"github.com/festpass/festpass-api/internal/config"
	"github.com/festpass/festpass-api/internal/db"
	"github.com/festpass/festpass-api/internal/events"
	"github.com/festpass/festpass-api/internal/logger"
	"github.com/festpass/festpass-api/internal/mailer"
	"github.com/festpass/festpass-api/internal/repository"
	"github.com/festpass/festpass-api/internal/repository/dao"
	"github.com/festpass/festpass-api/internal/service"
)

func Start() error {
	conf, err := config.Load("./cmd/app/config.yml")
	if err != nil {
		return fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger -> %w", err)
	}

	dbURL := os.Getenv("DATABASE_URL")
	var postgresDB *gorm.DB
	if dbURL != "" {
		postgresDB, err = db.OpenPostgresWithURL(dbURL)
	} else {
		postgresDB, err = db.OpenPostgres(conf.Postgres)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database -> %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	smtpClient, err := mailer.NewClient(conf.SMTP)
	if err != nil {
		return fmt.Errorf("failed to initialize mail client -> %w", err)
	}

	dispatcher, err := events.NewMailDispatcher(smtpClient)
	if err != nil {
		return fmt.Errorf("failed to initialize mail dispatcher -> %w", err)
	}
	go func() {
		if err := dispatcher.Run(ctx); err != nil {
			zap.L().Error("mail dispatcher stopped", zap.Error(err))
		}
	}()

	outboxRepo := repository.NewOutboxRepository(dao.NewOutboxDAO(postgresDB))
	reconciler := service.NewOutboxReconciler(outboxRepo, conf.API.OutboxPollInterval)
	go reconciler.Run(ctx)

	s := api.NewServer(conf, postgresDB, dispatcher)

	addr := ":" + s.Config.API.Port
	zap.L().Info(fmt.Sprintf("starting server at %v", addr))
	if err = s.Router.Run(addr); err != nil {
		return fmt.Errorf("failed to start the server -> %w", err)
	}

	return nil
}
