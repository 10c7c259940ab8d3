// Package scheduler содержит сборку приложения планировщика алертов.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/sunsetfitness/gym-desk/internal/config"
	"github.com/sunsetfitness/gym-desk/internal/lib/rabbitmq"
	alertsservice "github.com/sunsetfitness/gym-desk/internal/services/alerts"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// App представляет приложение планировщика.
type App struct {
	schedulerService *alertsservice.SchedulerService
	conn             *amqp.Connection
	ch               *amqp.Channel
	cfg              *config.Config
	logger           *slog.Logger
}

// New создает новый экземпляр приложения планировщика.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to connect RabbitMQ: %w", err)
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAlertQueues())
	if err != nil {
		closeResources(nil, conn, logger)
		return nil, fmt.Errorf("failed to setup RabbitMQ channel: %w", err)
	}

	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		closeResources(ch, conn, logger)
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	schedulerService := alertsservice.NewSchedulerService(db, cfg.Billing, logger)

	return &App{
		schedulerService: schedulerService,
		conn:             conn,
		ch:               ch,
		cfg:              cfg,
		logger:           logger,
	}, nil
}

func closeResources(ch *amqp.Channel, conn *amqp.Connection, logger *slog.Logger) {
	if ch != nil {
		if err := ch.Close(); err != nil {
			logger.Error("failed to close channel", "error", err)
		}
	}
	if conn != nil {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close connection", "error", err)
		}
	}
}

// Run запускает планировщик до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.schedulerService.Run(ctx, a.ch, a.cfg.AlertInterval)

	<-ctx.Done()

	a.logger.Info("shutting down scheduler service")
	closeResources(a.ch, a.conn, a.logger)
	return nil
}
