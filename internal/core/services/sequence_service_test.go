package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/acctcore/move_accounting_app/internal/core/domain"
	"github.com/acctcore/move_accounting_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextReference(ctx context.Context, journalID string, year int) (int64, error) {
	args := m.Called(ctx, journalID, year)
	return args.Get(0).(int64), args.Error(1)
}

func TestAssignReference_FormatsJournalYearNumber(t *testing.T) {
	mockRepo := new(MockSequenceRepository)
	service := services.NewSequenceService(mockRepo)
	move := &domain.Move{
		MoveID:  "m1",
		Date:    time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Journal: &domain.Journal{JournalID: "j1", Code: "SAL"},
	}
	mockRepo.On("NextReference", mock.Anything, "j1", 2026).Return(int64(42), nil)

	err := service.AssignReference(context.Background(), move)

	assert.NoError(t, err)
	assert.Equal(t, "SAL-2026-00042", move.Reference)
}

func TestAssignReference_KeepsExistingReference(t *testing.T) {
	mockRepo := new(MockSequenceRepository)
	service := services.NewSequenceService(mockRepo)
	move := &domain.Move{
		MoveID:    "m1",
		Reference: "SAL-2026-00007",
		Date:      time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Journal:   &domain.Journal{JournalID: "j1", Code: "SAL"},
	}

	err := service.AssignReference(context.Background(), move)

	assert.NoError(t, err)
	assert.Equal(t, "SAL-2026-00007", move.Reference)
	mockRepo.AssertNotCalled(t, "NextReference", mock.Anything, mock.Anything, mock.Anything)
}
