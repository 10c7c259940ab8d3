// Package services содержит бизнес-логику картотеки клиентов:
// регистрацию, обновление, поиск и сводку по статусам оплаты.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

// memberCacheKey — ключ кэша записи клиента по коду пропуска.
func memberCacheKey(credential string) string {
	return "member:credential:" + credential
}

// MemberRepository определяет методы для работы с картотекой в хранилище.
type MemberRepository interface {
	// CreateMember добавляет клиента и возвращает его UID.
	CreateMember(ctx context.Context, member models.Member) (string, error)
	// FindMemberByUID возвращает клиента по UID.
	FindMemberByUID(ctx context.Context, uid string) (*models.Member, error)
	// UpdateMember обновляет данные клиента.
	UpdateMember(ctx context.Context, member models.Member) (int, error)
	// UpdateMemberDueDate персистит новую дату платежа.
	UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error
	// RemoveMember удаляет клиента по UID.
	RemoveMember(ctx context.Context, uid string) (int, error)
	// ListMembers возвращает клиентов по имени с пагинацией.
	ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error)
	// SearchMembers ищет клиентов по фрагменту имени.
	SearchMembers(ctx context.Context, nameFragment string, limit, offset int) ([]*models.Member, error)
	// CountMembersSummary считает сводку по статусам оплаты.
	CountMembersSummary(ctx context.Context, today time.Time, windowDays int) (models.MemberSummary, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// MemberService реализует бизнес-логику картотеки клиентов.
type MemberService struct {
	repo  MemberRepository
	cache Cache
	cfg   billing.Config
	log   *slog.Logger
	now   func() time.Time
}

// NewMemberService создает новый экземпляр MemberService.
func NewMemberService(repo MemberRepository, cache Cache, cfg billing.Config, log *slog.Logger) *MemberService {
	return &MemberService{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}
}

// parseBillingDay принимает день платежа числом либо свободной формой
// ("dia 10", "5-10"). Числовая форма ограничена cfg.MaxBillingDay,
// свободная — диапазоном 1-28.
func (s *MemberService) parseBillingDay(raw string) (int, error) {
	if day, err := strconv.Atoi(raw); err == nil {
		if day < 1 || day > s.cfg.MaxBillingDay {
			return 0, calendar.ErrInvalidBillingDay
		}
		return day, nil
	}
	return calendar.ParseBillingDay(raw)
}

// Register регистрирует клиента: разбирает день платежа, выдаёт код пропуска
// и назначает первую дату платежа на ближайшее наступление якорного дня.
func (s *MemberService) Register(ctx context.Context, req models.DummyMember) (*models.Member, error) {
	day, err := s.parseBillingDay(req.BillingDay)
	if err != nil {
		return nil, fmt.Errorf("invalid billing day %q: %w", req.BillingDay, err)
	}

	today := calendar.Truncate(s.now())
	member := models.Member{
		Name:       req.Name,
		BillingDay: day,
		DueDate:    calendar.NextOccurrenceOfDay(day, today),
		// Симуляция биометрического пропуска: случайный код вместо отпечатка.
		Credential: uuid.NewString(),
	}

	uid, err := s.repo.CreateMember(ctx, member)
	if err != nil {
		return nil, err
	}
	member.UID = uid

	s.log.Info("registered new member",
		slog.String("uid", uid),
		slog.Int("billing_day", day),
		slog.String("due_date", member.DueDate.Format(time.DateOnly)))

	return &member, nil
}

// Read возвращает клиента по UID. Отсутствующая дата платежа
// восстанавливается по якорному дню и тут же персистится.
func (s *MemberService) Read(ctx context.Context, uid string) (*models.Member, error) {
	member, err := s.repo.FindMemberByUID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.ensureDueDate(ctx, member)
}

// ensureDueDate чинит запись с пустой или потерянной датой платежа:
// дата пересоздаётся от якорного дня, а не роняет операцию.
func (s *MemberService) ensureDueDate(ctx context.Context, member *models.Member) (*models.Member, error) {
	if !member.DueDate.IsZero() {
		return member, nil
	}
	member.DueDate = calendar.NextOccurrenceOfDay(member.BillingDay, calendar.Truncate(s.now()))
	if err := s.repo.UpdateMemberDueDate(ctx, member.UID, member.DueDate); err != nil {
		return nil, err
	}
	s.log.Warn("regenerated missing due date",
		slog.String("uid", member.UID),
		slog.String("due_date", member.DueDate.Format(time.DateOnly)))
	return member, nil
}

// Update обновляет имя и день платежа. Дата платежа пересчитывается только
// при смене якорного дня: правка имени не должна ни списывать просрочку,
// ни сжигать оплаченный вперёд период.
func (s *MemberService) Update(ctx context.Context, uid string, req models.DummyMember) (*models.Member, error) {
	day, err := s.parseBillingDay(req.BillingDay)
	if err != nil {
		return nil, fmt.Errorf("invalid billing day %q: %w", req.BillingDay, err)
	}

	current, err := s.repo.FindMemberByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	dueDate := current.DueDate
	if day != current.BillingDay || dueDate.IsZero() {
		dueDate = calendar.NextOccurrenceOfDay(day, calendar.Truncate(s.now()))
	}

	updated := models.Member{
		UID:        uid,
		Name:       req.Name,
		BillingDay: day,
		DueDate:    dueDate,
		Credential: current.Credential,
	}
	if _, err := s.repo.UpdateMember(ctx, updated); err != nil {
		return nil, err
	}

	if err := s.cache.Invalidate(memberCacheKey(current.Credential)); err != nil {
		s.log.Warn("failed to invalidate member cache", slog.String("uid", uid), slog.Any("err", err))
	}
	return &updated, nil
}

// Remove удаляет клиента и возвращает количество удалённых записей.
func (s *MemberService) Remove(ctx context.Context, uid string) (int, error) {
	member, err := s.repo.FindMemberByUID(ctx, uid)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(memberCacheKey(member.Credential)); err != nil {
		s.log.Warn("failed to invalidate member cache", slog.String("uid", uid), slog.Any("err", err))
	}
	return s.repo.RemoveMember(ctx, uid)
}

// List возвращает клиентов, упорядоченных по имени.
func (s *MemberService) List(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	return s.repo.ListMembers(ctx, limit, offset)
}

// Search ищет клиентов по фрагменту имени.
func (s *MemberService) Search(ctx context.Context, nameFragment string, limit, offset int) ([]*models.Member, error) {
	return s.repo.SearchMembers(ctx, nameFragment, limit, offset)
}

// Summary возвращает сводку по статусам оплаты для дашборда стойки.
func (s *MemberService) Summary(ctx context.Context) (models.MemberSummary, error) {
	return s.repo.CountMembersSummary(ctx, calendar.Truncate(s.now()), s.cfg.WarningWindowDays)
}
