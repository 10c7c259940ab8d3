// Package services содержит логику фиксации оплаты абонемента.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/metrics"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

func memberCacheKey(credential string) string {
	return "member:credential:" + credential
}

// MemberRepository определяет доступ к картотеке.
type MemberRepository interface {
	FindMemberByUID(ctx context.Context, uid string) (*models.Member, error)
	UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Invalidate(key string) error
}

// Result — итог фиксации оплаты: прежняя и новая даты платежа.
type Result struct {
	Member     *models.Member `json:"member"`
	OldDueDate time.Time      `json:"old_due_date"`
	NewDueDate time.Time      `json:"new_due_date"`
}

// PaymentService фиксирует оплату и продлевает платёжный цикл.
type PaymentService struct {
	repo  MemberRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo MemberRepository, cache Cache, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// RecordPayment фиксирует оплату клиента uid и персистит новую дату платежа.
// Оплата в срок продлевает текущую дату на месяц, оплата после просрочки
// пересинхронизирует цикл от сегодняшнего дня.
func (s *PaymentService) RecordPayment(ctx context.Context, uid string) (*Result, error) {
	member, err := s.repo.FindMemberByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	today := calendar.Truncate(s.now())
	oldDue := member.DueDate
	if oldDue.IsZero() {
		oldDue = calendar.NextOccurrenceOfDay(member.BillingDay, today)
	}

	newDue := billing.RecordPayment(member.BillingDay, oldDue, today)
	if err := s.repo.UpdateMemberDueDate(ctx, uid, newDue); err != nil {
		return nil, err
	}
	member.DueDate = newDue

	if err := s.cache.Invalidate(memberCacheKey(member.Credential)); err != nil {
		s.log.Warn("failed to invalidate member cache", slog.String("uid", uid), slog.Any("err", err))
	}

	metrics.PaymentsRecorded.Inc()
	s.log.Info("recorded payment",
		slog.String("uid", uid),
		slog.String("old_due", oldDue.Format(time.DateOnly)),
		slog.String("new_due", newDue.Format(time.DateOnly)))

	return &Result{
		Member:     member,
		OldDueDate: oldDue,
		NewDueDate: newDue,
	}, nil
}
