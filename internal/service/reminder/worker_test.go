package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/marketwatch-ai/alert-engine/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockReminderRepo struct {
	mock.Mock
}

func (m *MockReminderRepo) Create(ctx context.Context, reminder entity.Reminder) (int64, error) {
	args := m.Called(ctx, reminder)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReminderRepo) FindDue(ctx context.Context, now time.Time) ([]entity.Reminder, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Reminder), args.Error(1)
}

func (m *MockReminderRepo) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReminderRepo) Reschedule(ctx context.Context, id int64, next time.Time) error {
	args := m.Called(ctx, id, next)
	return args.Error(0)
}

type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) Create(ctx context.Context, profile entity.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepo) FindByUserId(ctx context.Context, userId int64) (entity.Profile, error) {
	args := m.Called(ctx, userId)
	return args.Get(0).(entity.Profile), args.Error(1)
}

type recordingSender struct {
	chatIds []string
	texts   []string
}

func (s *recordingSender) SendText(ctx context.Context, chatId, text string) error {
	s.chatIds = append(s.chatIds, chatId)
	s.texts = append(s.texts, text)
	return nil
}

func TestWorker_OneShotMarkedSent(t *testing.T) {
	reminders := new(MockReminderRepo)
	reminders.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Reminder{
		{Id: 1, UserId: 42, Message: "check the NFP release"},
	}, nil)
	reminders.On("MarkSent", mock.Anything, int64(1)).Return(nil)

	profiles := new(MockProfileRepo)
	profiles.On("FindByUserId", mock.Anything, int64(42)).
		Return(entity.Profile{UserId: 42, TelegramId: "tg-42"}, nil)

	sender := &recordingSender{}
	w := NewWorker(reminders, profiles, sender)

	require.NoError(t, w.Run(context.Background()))
	require.Len(t, sender.texts, 1)
	assert.Equal(t, "tg-42", sender.chatIds[0])
	assert.Equal(t, "⏰ *Reminder*\n\ncheck the NFP release", sender.texts[0])
	reminders.AssertCalled(t, "MarkSent", mock.Anything, int64(1))
	reminders.AssertNotCalled(t, "Reschedule", mock.Anything, mock.Anything, mock.Anything)
}

func TestWorker_SessionReminderRescheduledNextDay(t *testing.T) {
	reminders := new(MockReminderRepo)
	reminders.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Reminder{
		{Id: 2, UserId: 42, Message: "volatility picks up", SessionType: entity.SessionLondon, Recurring: true},
	}, nil)

	var next time.Time
	reminders.On("Reschedule", mock.Anything, int64(2), mock.Anything).
		Run(func(args mock.Arguments) {
			next = args.Get(2).(time.Time)
		}).Return(nil)

	profiles := new(MockProfileRepo)
	profiles.On("FindByUserId", mock.Anything, int64(42)).
		Return(entity.Profile{UserId: 42, TelegramId: "tg-42"}, nil)

	sender := &recordingSender{}
	w := NewWorker(reminders, profiles, sender)

	require.NoError(t, w.Run(context.Background()))
	require.Len(t, sender.texts, 1)
	assert.Contains(t, sender.texts[0], "London Session")

	// 顺延到次日伦敦开盘 08:00 UTC
	reminders.AssertCalled(t, "Reschedule", mock.Anything, int64(2), mock.Anything)
	reminders.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)
	assert.Equal(t, 8, next.UTC().Hour())
	assert.Equal(t, 0, next.UTC().Minute())
	assert.True(t, next.After(time.Now()))
}

func TestWorker_NoTelegramIdSkipsSend(t *testing.T) {
	reminders := new(MockReminderRepo)
	reminders.On("FindDue", mock.Anything, mock.Anything).Return([]entity.Reminder{
		{Id: 3, UserId: 7, Message: "hello"},
	}, nil)
	reminders.On("MarkSent", mock.Anything, int64(3)).Return(nil)

	profiles := new(MockProfileRepo)
	profiles.On("FindByUserId", mock.Anything, int64(7)).
		Return(entity.Profile{UserId: 7, Email: "a@b.c"}, nil)

	sender := &recordingSender{}
	w := NewWorker(reminders, profiles, sender)

	require.NoError(t, w.Run(context.Background()))
	assert.Empty(t, sender.texts)
	// 没有可达渠道也不反复打扰, 照样标记已发
	reminders.AssertCalled(t, "MarkSent", mock.Anything, int64(3))
}

func TestNextSessionOpen(t *testing.T) {
	now := time.Date(2025, 6, 1, 13, 5, 0, 0, time.UTC)
	next := nextSessionOpen(entity.SessionNewYork, now)
	assert.Equal(t, time.Date(2025, 6, 2, 13, 0, 0, 0, time.UTC), next)
}
