package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"gametracker/library-service/internal/app/library/entity"
)

// MockPreferenceRepository мок для PreferenceRepository
type MockPreferenceRepository struct {
	mock.Mock
}

func (m *MockPreferenceRepository) GetTheme(ctx context.Context, userID string) (entity.Theme, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(entity.Theme), args.Error(1)
}

func (m *MockPreferenceRepository) SetTheme(ctx context.Context, userID string, theme entity.Theme) error {
	args := m.Called(ctx, userID, theme)
	return args.Error(0)
}

func (m *MockPreferenceRepository) DeleteTheme(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockReportRepository мок для ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) SaveLatest(ctx context.Context, report *entity.LibraryReport) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockReportRepository) GetLatest(ctx context.Context) (*entity.LibraryReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LibraryReport), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
// Сообщения публикуются из фоновой горутины, поэтому список защищен мьютексом
type MockMessagePublisher struct {
	mock.Mock

	mu       sync.Mutex
	messages [][]byte
	keys     []string
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	m.messages = append(m.messages, value)
	m.keys = append(m.keys, key)
	m.mu.Unlock()

	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Messages возвращает копию опубликованных сообщений
func (m *MockMessagePublisher) Messages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.messages))
	copy(out, m.messages)
	return out
}

// Keys возвращает ключи опубликованных сообщений
func (m *MockMessagePublisher) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}
