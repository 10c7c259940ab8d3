package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindMembersDueWithin(ctx context.Context, today time.Time, days int) ([]*models.Member, error) {
	args := m.Called(ctx, today, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockRepository) FindMembersOverdue(ctx context.Context, today time.Time) ([]*models.Member, error) {
	args := m.Called(ctx, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockRepository) UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error {
	return m.Called(ctx, uid, dueDate).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newTestScheduler(repo *MockRepository, today time.Time, published *[]models.Alert) *SchedulerService {
	svc := NewSchedulerService(repo, billing.DefaultConfig(), newNoopLogger())
	svc.now = func() time.Time { return today }
	svc.publish = func(_ *amqp.Channel, _, _ string, message any) error {
		*published = append(*published, message.(models.Alert))
		return nil
	}
	return svc
}

func TestSchedulerService_PublishesOverdueAndRollsOver(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(MockRepository)
	var published []models.Alert

	member := &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 5,
		DueDate: calendar.Date(2024, time.March, 5)}

	repo.On("FindMembersOverdue", mock.Anything, today).Return([]*models.Member{member}, nil).Once()
	repo.On("UpdateMemberDueDate", mock.Anything, "uid-1", calendar.Date(2024, time.April, 5)).Return(nil).Once()
	repo.On("FindMembersDueWithin", mock.Anything, today, 3).Return([]*models.Member{}, nil).Once()

	svc := newTestScheduler(repo, today, &published)
	svc.runOnce(context.Background(), nil)

	assert.Len(t, published, 1)
	assert.Equal(t, models.AlertOverdue, published[0].Kind)
	assert.Equal(t, "uid-1", published[0].MemberUID)
	assert.Equal(t, 5, published[0].DaysLate)
	// В алерте остаётся дата до переноса.
	assert.Equal(t, calendar.Date(2024, time.March, 5), published[0].DueDate)
	repo.AssertExpectations(t)
}

func TestSchedulerService_PublishesUpcoming(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(MockRepository)
	var published []models.Alert

	member := &models.Member{UID: "uid-2", Name: "Maria", BillingDay: 12,
		DueDate: calendar.Date(2024, time.March, 12)}

	repo.On("FindMembersOverdue", mock.Anything, today).Return([]*models.Member{}, nil).Once()
	repo.On("FindMembersDueWithin", mock.Anything, today, 3).Return([]*models.Member{member}, nil).Once()

	svc := newTestScheduler(repo, today, &published)
	svc.runOnce(context.Background(), nil)

	assert.Len(t, published, 1)
	assert.Equal(t, models.AlertUpcoming, published[0].Kind)
	assert.Equal(t, 2, published[0].DaysLeft)
	repo.AssertNotCalled(t, "UpdateMemberDueDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestSchedulerService_RepositoryErrorOnlyLogs(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(MockRepository)
	var published []models.Alert

	repo.On("FindMembersOverdue", mock.Anything, today).Return(nil, errors.New("db error")).Once()
	repo.On("FindMembersDueWithin", mock.Anything, today, 3).Return(nil, errors.New("db error")).Once()

	svc := newTestScheduler(repo, today, &published)
	svc.runOnce(context.Background(), nil)

	assert.Empty(t, published)
	repo.AssertExpectations(t)
}

func TestSchedulerService_PublishFailureSkipsRollover(t *testing.T) {
	// Если алерт не ушёл, дата не переносится: клиент попадёт в следующий обход.
	today := calendar.Date(2024, time.March, 10)
	repo := new(MockRepository)

	member := &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 5,
		DueDate: calendar.Date(2024, time.March, 5)}

	repo.On("FindMembersOverdue", mock.Anything, today).Return([]*models.Member{member}, nil).Once()
	repo.On("FindMembersDueWithin", mock.Anything, today, 3).Return([]*models.Member{}, nil).Once()

	svc := NewSchedulerService(repo, billing.DefaultConfig(), newNoopLogger())
	svc.now = func() time.Time { return today }
	svc.publish = func(_ *amqp.Channel, _, _ string, _ any) error {
		return errors.New("broker unavailable")
	}

	svc.runOnce(context.Background(), nil)

	repo.AssertNotCalled(t, "UpdateMemberDueDate", mock.Anything, mock.Anything, mock.Anything)
}
