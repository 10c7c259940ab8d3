package pay

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/sunsetfitness/gym-desk/internal/lib/calendar"
	"github.com/sunsetfitness/gym-desk/internal/models"
	paymentsrv "github.com/sunsetfitness/gym-desk/internal/services/payment"
	"github.com/sunsetfitness/gym-desk/internal/storage/repository"
)

// MockService реализует интерфейс pay.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RecordPayment(ctx context.Context, uid string) (*paymentsrv.Result, error) {
	args := m.Called(ctx, uid)
	if res := args.Get(0); res != nil {
		return res.(*paymentsrv.Result), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestPayHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		uid            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "payment recorded",
			uid:  "uid-1",
			setupMock: func(m *MockService) {
				res := &paymentsrv.Result{
					Member:     &models.Member{UID: "uid-1", Name: "Joao Silva"},
					OldDueDate: calendar.Date(2024, time.March, 5),
					NewDueDate: calendar.Date(2024, time.April, 5),
				}
				m.On("RecordPayment", mock.Anything, "uid-1").Return(res, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"new_due_date"`,
		},
		{
			name: "member not found",
			uid:  "ghost",
			setupMock: func(m *MockService) {
				m.On("RecordPayment", mock.Anything, "ghost").Return(nil, repository.ErrMemberNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"member not found"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/members/"+tt.uid+"/payment", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
