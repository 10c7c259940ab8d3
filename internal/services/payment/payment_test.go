package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) FindMemberByUID(ctx context.Context, uid string) (*models.Member, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *RepoMock) UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error {
	return m.Called(ctx, uid, dueDate).Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestPaymentService_RecordPayment(t *testing.T) {
	tests := []struct {
		name    string
		today   time.Time
		member  models.Member
		wantDue time.Time
	}{
		{
			// Оплата до срока продлевает текущую дату на месяц.
			name:    "early payment extends from due date",
			today:   calendar.Date(2024, time.March, 1),
			member:  models.Member{UID: "uid-1", BillingDay: 5, DueDate: calendar.Date(2024, time.March, 5), Credential: "card-1"},
			wantDue: calendar.Date(2024, time.April, 5),
		},
		{
			name:    "payment on due date extends from due date",
			today:   calendar.Date(2024, time.March, 5),
			member:  models.Member{UID: "uid-1", BillingDay: 5, DueDate: calendar.Date(2024, time.March, 5), Credential: "card-1"},
			wantDue: calendar.Date(2024, time.April, 5),
		},
		{
			// Оплата после просрочки пересинхронизирует цикл от сегодня.
			name:    "late payment resyncs from today",
			today:   calendar.Date(2024, time.March, 20),
			member:  models.Member{UID: "uid-1", BillingDay: 5, DueDate: calendar.Date(2024, time.March, 5), Credential: "card-1"},
			wantDue: calendar.Date(2024, time.April, 5),
		},
		{
			name:    "late payment before anchor day lands same month",
			today:   calendar.Date(2024, time.April, 2),
			member:  models.Member{UID: "uid-1", BillingDay: 5, DueDate: calendar.Date(2024, time.March, 5), Credential: "card-1"},
			wantDue: calendar.Date(2024, time.April, 5),
		},
		{
			// Якорный день 31 ужимается до конца короткого месяца.
			name:    "extension clamps to end of short month",
			today:   calendar.Date(2024, time.January, 30),
			member:  models.Member{UID: "uid-1", BillingDay: 31, DueDate: calendar.Date(2024, time.January, 31), Credential: "card-1"},
			wantDue: calendar.Date(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)

			member := tt.member
			repo.On("FindMemberByUID", mock.Anything, "uid-1").Return(&member, nil).Once()
			repo.On("UpdateMemberDueDate", mock.Anything, "uid-1", tt.wantDue).Return(nil).Once()
			cache.On("Invalidate", "member:credential:card-1").Return(nil).Once()

			svc := NewPaymentService(repo, cache, newNoopLogger())
			svc.now = func() time.Time { return tt.today }

			res, err := svc.RecordPayment(context.Background(), "uid-1")

			assert.NoError(t, err)
			assert.Equal(t, tt.wantDue, res.NewDueDate)
			assert.Equal(t, tt.member.DueDate, res.OldDueDate)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestPaymentService_RecordPayment_MemberNotFound(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)

	repo.On("FindMemberByUID", mock.Anything, "ghost").
		Return(nil, repository.ErrMemberNotFound).Once()

	svc := NewPaymentService(repo, cache, newNoopLogger())
	_, err := svc.RecordPayment(context.Background(), "ghost")

	assert.ErrorIs(t, err, repository.ErrMemberNotFound)
	repo.AssertExpectations(t)
}
