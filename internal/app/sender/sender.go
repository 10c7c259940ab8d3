package sender

import (
	"context"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/sunsetfitness/gym-desk/internal/config"
	"github.com/sunsetfitness/gym-desk/internal/lib/rabbitmq"
	"github.com/sunsetfitness/gym-desk/internal/lib/smtp"
	senderservice "github.com/sunsetfitness/gym-desk/internal/services/sender"
)

type App struct {
	conn          *amqp.Connection
	ch            *amqp.Channel
	senderService *senderservice.SenderService
	logger        *slog.Logger
}

func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetAlertQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}

	transport := smtp.NewTransport(cfg, logger)
	senderService := senderservice.NewSenderService(transport, cfg.AlertEmail, logger)

	return &App{
		conn:          conn,
		ch:            ch,
		senderService: senderService,
		logger:        logger,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	err := rabbitmq.ConsumeMessages(ctx, a.ch, "alerts.upcoming", a.senderService.SendUpcomingAlert)
	if err != nil {
		a.logger.Error("failed to start alerts.upcoming consumer", slog.Any("err", err))
		return err
	}

	err = rabbitmq.ConsumeMessages(ctx, a.ch, "alerts.overdue", a.senderService.SendOverdueAlert)
	if err != nil {
		a.logger.Error("failed to start alerts.overdue consumer", slog.Any("err", err))
		return err
	}

	<-ctx.Done()
	a.logger.Info("sender service shutting down gracefully")

	if err := a.ch.Close(); err != nil {
		a.logger.Error("failed to close channel", slog.Any("err", err))
	}

	if err := a.conn.Close(); err != nil {
		a.logger.Error("failed to close connection", slog.Any("err", err))
	}

	return nil
}
