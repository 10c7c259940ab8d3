// Package services содержит логику допуска на проходной: поиск клиента по
// коду пропуска, классификацию статуса оплаты, перенос протухшей даты
// платежа и запись решения в журнал доступа.
package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sunsetfitness/gym-desk/internal/access"
	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/metrics"
	"github.com/sunsetfitness/gym-desk/internal/models"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

func memberCacheKey(credential string) string {
	return "member:credential:" + credential
}

// MemberRepository определяет доступ к картотеке и журналу.
type MemberRepository interface {
	FindMemberByCredential(ctx context.Context, credential string) (*models.Member, error)
	UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error
	AppendAccessLog(ctx context.Context, entry models.AccessLogEntry) (int64, error)
	RecentAccessLog(ctx context.Context, n int) ([]*models.AccessLogEntry, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Result — итог обработки попытки входа, отображаемый оператору.
type Result struct {
	Decision access.Result
	Member   *models.Member // nil, если пропуск не распознан
	Status   billing.Status // пусто, если клиента нет
}

// CheckinService обрабатывает попытки входа через турникет.
type CheckinService struct {
	repo  MemberRepository
	cache Cache
	cfg   billing.Config
	log   *slog.Logger
	now   func() time.Time
}

// NewCheckinService создает новый экземпляр CheckinService.
func NewCheckinService(repo MemberRepository, cache Cache, cfg billing.Config, log *slog.Logger) *CheckinService {
	return &CheckinService{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// Checkin решает, пропускать ли предъявителя кода credential.
//
// Дата "сегодня" снимается один раз на операцию: классификация и возможный
// перенос даты платежа атомарны относительно неё. Нераспознанный пропуск и
// недоступное хранилище дают отказ, а не ошибку: худший исход операции —
// запертый турникет. Просрочка влечёт перенос даты на следующий цикл,
// но дни опоздания в решении считаются по дате до переноса.
func (s *CheckinService) Checkin(ctx context.Context, credential string) (*Result, error) {
	today := calendar.Truncate(s.now())

	member, err := s.lookup(ctx, credential)
	if err != nil {
		if !errors.Is(err, repository.ErrMemberNotFound) {
			// Хранилище недоступно: для этого вызова все клиенты "не найдены".
			s.log.Error("member lookup failed, denying entry", slog.Any("err", err))
		}
		result := &Result{Decision: access.DecideUnknown()}
		s.appendLog(ctx, credential, "", result.Decision)
		return result, nil
	}

	if member.DueDate.IsZero() {
		member.DueDate = calendar.NextOccurrenceOfDay(member.BillingDay, today)
		if err := s.repo.UpdateMemberDueDate(ctx, member.UID, member.DueDate); err != nil {
			s.log.Warn("failed to persist regenerated due date", slog.Any("err", err))
		} else if err := s.cache.Invalidate(memberCacheKey(credential)); err != nil {
			// Иначе запись с пустой датой живёт в кэше до часа
			// и чинится заново на каждом проходе.
			s.log.Warn("failed to invalidate member cache", slog.Any("err", err))
		}
	}

	status := billing.Classify(s.cfg, member.DueDate, today)
	decision := access.Decide(status)

	// Автоперенос при просрочке: дата не должна замерзнуть в прошлом.
	// Решение уже принято по старой дате, поэтому долг не прощается.
	if status.Status == billing.StatusOverdue {
		newDue := billing.Rollover(member.BillingDay, today)
		if err := s.repo.UpdateMemberDueDate(ctx, member.UID, newDue); err != nil {
			s.log.Error("failed to persist due date rollover",
				slog.String("uid", member.UID), slog.Any("err", err))
		} else {
			s.log.Info("rolled over stale due date",
				slog.String("uid", member.UID),
				slog.String("old", member.DueDate.Format(time.DateOnly)),
				slog.String("new", newDue.Format(time.DateOnly)))
			if err := s.cache.Invalidate(memberCacheKey(credential)); err != nil {
				s.log.Warn("failed to invalidate member cache", slog.Any("err", err))
			}
		}
	}

	s.appendLog(ctx, credential, member.UID, decision)

	return &Result{
		Decision: decision,
		Member:   member,
		Status:   status.Status,
	}, nil
}

// lookup ищет клиента в кэше, затем в картотеке; попадание кэшируется на час.
func (s *CheckinService) lookup(ctx context.Context, credential string) (*models.Member, error) {
	var member *models.Member
	key := memberCacheKey(credential)
	found, err := s.cache.Get(key, &member)
	if err != nil {
		s.log.Warn("member cache read failed", slog.Any("err", err))
	}
	if found && member != nil {
		return member, nil
	}

	member, err = s.repo.FindMemberByCredential(ctx, credential)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(key, member, time.Hour); err != nil {
		s.log.Warn("failed to cache member", slog.String("key", key), slog.Any("err", err))
	}
	return member, nil
}

// appendLog пишет решение в журнал доступа и метрику; сбой журнала не
// отменяет уже принятое решение.
func (s *CheckinService) appendLog(ctx context.Context, credential, memberUID string, decision access.Result) {
	metrics.CheckinDecisions.WithLabelValues(string(decision.Decision), decision.Reason).Inc()

	_, err := s.repo.AppendAccessLog(ctx, models.AccessLogEntry{
		Credential: credential,
		MemberUID:  memberUID,
		Decision:   string(decision.Decision),
		Reason:     decision.Reason,
	})
	if err != nil {
		s.log.Error("failed to append access log", slog.Any("err", err))
	}
}

// RecentLog возвращает n последних записей журнала, самые свежие первыми.
func (s *CheckinService) RecentLog(ctx context.Context, n int) ([]*models.AccessLogEntry, error) {
	return s.repo.RecentAccessLog(ctx, n)
}
