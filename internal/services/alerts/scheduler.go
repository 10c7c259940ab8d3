// Package services содержит планировщик платёжных алертов: периодический
// обход картотеки, перенос протухших дат платежа и публикацию алертов
// в очередь для рассылки.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/lib/rabbitmq"
	"github.com/sunsetfitness/gym-desk/internal/lib/sl"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// MemberRepository определяет выборки картотеки для алертов.
type MemberRepository interface {
	FindMembersDueWithin(ctx context.Context, today time.Time, days int) ([]*models.Member, error)
	FindMembersOverdue(ctx context.Context, today time.Time) ([]*models.Member, error)
	UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error
}

// SchedulerService периодически публикует платёжные алерты.
type SchedulerService struct {
	repo    MemberRepository
	cfg     billing.Config
	log     *slog.Logger
	now     func() time.Time
	publish func(ch *amqp.Channel, exchange, routingkey string, message any) error
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(repo MemberRepository, cfg billing.Config, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		repo:    repo,
		cfg:     cfg,
		log:     log,
		now:     time.Now,
		publish: rabbitmq.PublishMessage,
	}
}

// Run запускает обход картотеки раз в interval до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context, channel *amqp.Channel, interval time.Duration) {
	s.runOnce(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runOnce(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SchedulerService) runOnce(ctx context.Context, channel *amqp.Channel) {
	today := calendar.Truncate(s.now())
	s.publishOverdue(ctx, channel, today)
	s.publishUpcoming(ctx, channel, today)
}

// publishOverdue рассылает алерты о просрочках и переносит протухшие даты
// на следующий цикл — так же, как это делает проходная при попытке входа.
// Дни просрочки в алерте считаются по дате до переноса.
func (s *SchedulerService) publishOverdue(ctx context.Context, channel *amqp.Channel, today time.Time) {
	members, err := s.repo.FindMembersOverdue(ctx, today)
	if err != nil {
		s.log.Error("failed to find overdue members", sl.Err(err))
		return
	}
	if len(members) == 0 {
		s.log.Info("no overdue members found")
		return
	}
	s.log.Info("found overdue members", "count", len(members))

	for _, m := range members {
		status := billing.Classify(s.cfg, m.DueDate, today)
		alert := models.Alert{
			Kind:       models.AlertOverdue,
			MemberUID:  m.UID,
			MemberName: m.Name,
			DueDate:    m.DueDate,
			DaysLate:   status.DaysLate,
		}
		if err := s.publish(channel, rabbitmq.AlertsExchange, models.AlertOverdue, alert); err != nil {
			s.log.Error("failed to publish overdue alert", sl.Err(err))
			continue
		}

		newDue := billing.Rollover(m.BillingDay, today)
		if err := s.repo.UpdateMemberDueDate(ctx, m.UID, newDue); err != nil {
			s.log.Error("failed to roll over due date", slog.String("uid", m.UID), sl.Err(err))
		}
	}
}

func (s *SchedulerService) publishUpcoming(ctx context.Context, channel *amqp.Channel, today time.Time) {
	members, err := s.repo.FindMembersDueWithin(ctx, today, s.cfg.WarningWindowDays)
	if err != nil {
		s.log.Error("failed to find members due soon", sl.Err(err))
		return
	}
	if len(members) == 0 {
		s.log.Info("no members due soon")
		return
	}
	s.log.Info("found members due soon", "count", len(members))

	for _, m := range members {
		status := billing.Classify(s.cfg, m.DueDate, today)
		alert := models.Alert{
			Kind:       models.AlertUpcoming,
			MemberUID:  m.UID,
			MemberName: m.Name,
			DueDate:    m.DueDate,
			DaysLeft:   status.DaysLeft,
		}
		if err := s.publish(channel, rabbitmq.AlertsExchange, models.AlertUpcoming, alert); err != nil {
			s.log.Error("failed to publish upcoming alert", sl.Err(err))
		}
	}
}
