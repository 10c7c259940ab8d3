package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunsetfitness/gym-desk/internal/billing"
	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateMember(ctx context.Context, member models.Member) (string, error) {
	args := m.Called(ctx, member)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) FindMemberByUID(ctx context.Context, uid string) (*models.Member, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}
func (m *RepoMock) UpdateMember(ctx context.Context, member models.Member) (int, error) {
	args := m.Called(ctx, member)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateMemberDueDate(ctx context.Context, uid string, dueDate time.Time) error {
	return m.Called(ctx, uid, dueDate).Error(0)
}
func (m *RepoMock) RemoveMember(ctx context.Context, uid string) (int, error) {
	args := m.Called(ctx, uid)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListMembers(ctx context.Context, limit, offset int) ([]*models.Member, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}
func (m *RepoMock) SearchMembers(ctx context.Context, nameFragment string, limit, offset int) ([]*models.Member, error) {
	args := m.Called(ctx, nameFragment, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}
func (m *RepoMock) CountMembersSummary(ctx context.Context, today time.Time, windowDays int) (models.MemberSummary, error) {
	args := m.Called(ctx, today, windowDays)
	return args.Get(0).(models.MemberSummary), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestService(repo *RepoMock, cache *CacheMock, today time.Time) *MemberService {
	svc := NewMemberService(repo, cache, billing.DefaultConfig(), newNoopLogger())
	svc.now = func() time.Time { return today }
	return svc
}

func TestMemberService_Register(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)

	tests := []struct {
		name        string
		req         models.DummyMember
		setupMocks  func(r *RepoMock)
		wantDue     time.Time
		wantDay     int
		wantErr     bool
		wantInvalid bool
	}{
		{
			name: "numeric day still ahead this month",
			req:  models.DummyMember{Name: "Joao Silva", BillingDay: "15"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
					return m.Name == "Joao Silva" && m.BillingDay == 15 && m.Credential != ""
				})).Return("uid-1", nil).Once()
			},
			wantDue: calendar.Date(2024, time.March, 15),
			wantDay: 15,
		},
		{
			name: "numeric day already passed rolls to next month",
			req:  models.DummyMember{Name: "Maria Souza", BillingDay: "5"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.Anything).Return("uid-2", nil).Once()
			},
			wantDue: calendar.Date(2024, time.April, 5),
			wantDay: 5,
		},
		{
			name: "freeform day is parsed",
			req:  models.DummyMember{Name: "Carlos Lima", BillingDay: "todo dia 20"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.Anything).Return("uid-3", nil).Once()
			},
			wantDue: calendar.Date(2024, time.March, 20),
			wantDay: 20,
		},
		{
			name:        "day out of range is rejected",
			req:         models.DummyMember{Name: "Ana", BillingDay: "32"},
			setupMocks:  func(_ *RepoMock) {},
			wantErr:     true,
			wantInvalid: true,
		},
		{
			name: "storage error is propagated",
			req:  models.DummyMember{Name: "Pedro", BillingDay: "10"},
			setupMocks: func(r *RepoMock) {
				r.On("CreateMember", mock.Anything, mock.Anything).
					Return("", errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			tt.setupMocks(repo)

			svc := newTestService(repo, cache, today)
			member, err := svc.Register(context.Background(), tt.req)

			if tt.wantErr {
				assert.Error(t, err)
				if tt.wantInvalid {
					assert.ErrorIs(t, err, calendar.ErrInvalidBillingDay)
				}
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantDay, member.BillingDay)
				assert.Equal(t, tt.wantDue, member.DueDate)
				assert.NotEmpty(t, member.UID)
				assert.NotEmpty(t, member.Credential)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestMemberService_Read_RegeneratesMissingDueDate(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(RepoMock)
	cache := new(CacheMock)

	stored := &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 5, Credential: "card-1"}
	wantDue := calendar.Date(2024, time.April, 5)

	repo.On("FindMemberByUID", mock.Anything, "uid-1").Return(stored, nil).Once()
	repo.On("UpdateMemberDueDate", mock.Anything, "uid-1", wantDue).Return(nil).Once()

	svc := newTestService(repo, cache, today)
	member, err := svc.Read(context.Background(), "uid-1")

	assert.NoError(t, err)
	assert.Equal(t, wantDue, member.DueDate)
	repo.AssertExpectations(t)
}

func TestMemberService_Read_KeepsExistingDueDate(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(RepoMock)
	cache := new(CacheMock)

	due := calendar.Date(2024, time.March, 25)
	stored := &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 25, DueDate: due, Credential: "card-1"}

	repo.On("FindMemberByUID", mock.Anything, "uid-1").Return(stored, nil).Once()

	svc := newTestService(repo, cache, today)
	member, err := svc.Read(context.Background(), "uid-1")

	assert.NoError(t, err)
	assert.Equal(t, due, member.DueDate)
	repo.AssertNotCalled(t, "UpdateMemberDueDate", mock.Anything, mock.Anything, mock.Anything)
}

func TestMemberService_Update(t *testing.T) {
	today := calendar.Date(2024, time.June, 15)

	tests := []struct {
		name    string
		stored  *models.Member
		req     models.DummyMember
		wantDay int
		wantDue time.Time
	}{
		{
			name: "NewBillingDayRecomputesDueDate",
			stored: &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 5,
				DueDate: calendar.Date(2024, time.July, 5), Credential: "card-1"},
			req:     models.DummyMember{Name: "Joao", BillingDay: "20"},
			wantDay: 20,
			wantDue: calendar.Date(2024, time.June, 20),
		},
		{
			// Правка имени у должника не списывает просрочку.
			name: "SameBillingDayKeepsOverdueDueDate",
			stored: &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 1,
				DueDate: calendar.Date(2024, time.June, 1), Credential: "card-1"},
			req:     models.DummyMember{Name: "Joao Silva", BillingDay: "1"},
			wantDay: 1,
			wantDue: calendar.Date(2024, time.June, 1),
		},
		{
			// И не сжигает оплаченный вперёд период.
			name: "SameBillingDayKeepsPaidAheadDueDate",
			stored: &models.Member{UID: "uid-1", Name: "Ana", BillingDay: 10,
				DueDate: calendar.Date(2024, time.August, 10), Credential: "card-1"},
			req:     models.DummyMember{Name: "Ana Costa", BillingDay: "10"},
			wantDay: 10,
			wantDue: calendar.Date(2024, time.August, 10),
		},
		{
			name: "SameBillingDayZeroDueDateRegenerated",
			stored: &models.Member{UID: "uid-1", Name: "Joao", BillingDay: 20,
				Credential: "card-1"},
			req:     models.DummyMember{Name: "Joao", BillingDay: "20"},
			wantDay: 20,
			wantDue: calendar.Date(2024, time.June, 20),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)

			repo.On("FindMemberByUID", mock.Anything, "uid-1").Return(tt.stored, nil).Once()
			repo.On("UpdateMember", mock.Anything, mock.MatchedBy(func(m models.Member) bool {
				return m.UID == "uid-1" && m.Name == tt.req.Name &&
					m.BillingDay == tt.wantDay && m.DueDate.Equal(tt.wantDue) &&
					m.Credential == "card-1"
			})).Return(1, nil).Once()
			cache.On("Invalidate", "member:credential:card-1").Return(nil).Once()

			svc := newTestService(repo, cache, today)
			member, err := svc.Update(context.Background(), "uid-1", tt.req)

			assert.NoError(t, err)
			assert.Equal(t, tt.wantDue, member.DueDate)
			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestMemberService_Remove(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(RepoMock)
	cache := new(CacheMock)

	stored := &models.Member{UID: "uid-1", Credential: "card-1"}
	repo.On("FindMemberByUID", mock.Anything, "uid-1").Return(stored, nil).Once()
	cache.On("Invalidate", "member:credential:card-1").Return(nil).Once()
	repo.On("RemoveMember", mock.Anything, "uid-1").Return(1, nil).Once()

	svc := newTestService(repo, cache, today)
	removed, err := svc.Remove(context.Background(), "uid-1")

	assert.NoError(t, err)
	assert.Equal(t, 1, removed)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestMemberService_Summary(t *testing.T) {
	today := calendar.Date(2024, time.March, 10)
	repo := new(RepoMock)
	cache := new(CacheMock)

	want := models.MemberSummary{Total: 10, Current: 6, DueSoon: 3, Overdue: 1}
	repo.On("CountMembersSummary", mock.Anything, today, 3).Return(want, nil).Once()

	svc := newTestService(repo, cache, today)
	got, err := svc.Summary(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, want, got)
	repo.AssertExpectations(t)
}
