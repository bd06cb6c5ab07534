package dispatch

import (
	"context"

	"github.com/jimdaga/team-pulse/internal/digest"
	"github.com/jimdaga/team-pulse/internal/schedule"
	"github.com/stretchr/testify/mock"
)

// MockDataStore is a mock implementation of DataStore for testing.
type MockDataStore struct {
	mock.Mock
}

var _ DataStore = &MockDataStore{} // Compile-time check

// Teams implements the DataStore interface.
func (m *MockDataStore) Teams(ctx context.Context) ([]Team, error) {
	args := m.Called(ctx)
	teams, _ := args.Get(0).([]Team)
	return teams, args.Error(1)
}

// Reports implements the DataStore interface.
func (m *MockDataStore) Reports(ctx context.Context, teamID uint, window schedule.Window) ([]digest.Record, error) {
	args := m.Called(ctx, teamID, window)
	records, _ := args.Get(0).([]digest.Record)
	return records, args.Error(1)
}

// MockRecorder is a mock implementation of Recorder for testing.
type MockRecorder struct {
	mock.Mock
}

var _ Recorder = &MockRecorder{} // Compile-time check

// RecordBriefing implements the Recorder interface.
func (m *MockRecorder) RecordBriefing(ctx context.Context, result Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}
