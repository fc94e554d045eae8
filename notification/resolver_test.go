package notification

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "calendario.app/errors"
	"calendario.app/models"
)

// fixedClock pins Now to one instant for deterministic window checks
type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

type mockPreferenceStore struct {
	mock.Mock
}

func (m *mockPreferenceStore) GetAll() ([]models.NotificationPreferences, error) {
	args := m.Called()
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.NotificationPreferences), nil
}

type mockSubscriptionStore struct {
	mock.Mock
}

func (m *mockSubscriptionStore) GetByUserID(userID uint) ([]models.PushSubscription, error) {
	args := m.Called(userID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PushSubscription), nil
}

func prefsFor(userID uint) models.NotificationPreferences {
	return *models.DefaultNotificationPreferences(userID)
}

func subscriptionFor(userID uint) []models.PushSubscription {
	return []models.PushSubscription{{
		ID:       userID * 100,
		UserID:   userID,
		Endpoint: "https://push.example.com/reg",
		P256dh:   "p256dh-key",
		Auth:     "auth-secret",
	}}
}

func TestResolver_ExcludesUsersInQuietHours(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	// Default quiet hours are 22:00-08:00; 23:30 is inside them.
	prefStore.On("GetAll").Return([]models.NotificationPreferences{prefsFor(1)}, nil)

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(23, 30)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	require.NoError(t, err)
	assert.Empty(t, contexts)
	subStore.AssertNotCalled(t, "GetByUserID", mock.Anything)
}

func TestResolver_IncludesUsersOutsideQuietHours(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	prefStore.On("GetAll").Return([]models.NotificationPreferences{prefsFor(1)}, nil)
	subStore.On("GetByUserID", uint(1)).Return(subscriptionFor(1), nil)

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(9, 0)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, uint(1), contexts[0].UserID)
	assert.Len(t, contexts[0].Subscriptions, 1)
}

func TestResolver_SkipsUsersWithoutDevices(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	prefStore.On("GetAll").Return([]models.NotificationPreferences{prefsFor(1)}, nil)
	subStore.On("GetByUserID", uint(1)).Return([]models.PushSubscription{}, nil)

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(9, 0)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	require.NoError(t, err)
	assert.Empty(t, contexts)
}

func TestResolver_MalformedQuietHoursFailClosed(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	broken := prefsFor(1)
	broken.QuietHoursStart = "not-a-time"
	healthy := prefsFor(2)

	prefStore.On("GetAll").Return([]models.NotificationPreferences{broken, healthy}, nil)
	subStore.On("GetByUserID", uint(2)).Return(subscriptionFor(2), nil)

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(9, 0)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, uint(2), contexts[0].UserID)
	subStore.AssertNotCalled(t, "GetByUserID", uint(1))
}

func TestResolver_SubscriptionLoadFailureIsolatedPerUser(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	prefStore.On("GetAll").Return([]models.NotificationPreferences{prefsFor(1), prefsFor(2)}, nil)
	subStore.On("GetByUserID", uint(1)).Return(nil, apperrors.NewDatabaseError("connection reset", nil))
	subStore.On("GetByUserID", uint(2)).Return(subscriptionFor(2), nil)

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(9, 0)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	require.NoError(t, err)
	require.Len(t, contexts, 1)
	assert.Equal(t, uint(2), contexts[0].UserID)
}

func TestResolver_PreferenceLoadFailureAbortsTick(t *testing.T) {
	prefStore := new(mockPreferenceStore)
	subStore := new(mockSubscriptionStore)

	prefStore.On("GetAll").Return(nil, apperrors.NewDatabaseError("connection reset", nil))

	resolver := NewResolver(prefStore, subStore, fixedClock{clockAt(9, 0)})
	contexts, err := resolver.ResolveDeliveryCandidates()

	assert.Error(t, err)
	assert.Nil(t, contexts)
}
