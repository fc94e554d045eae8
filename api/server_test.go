package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"calendario.app/config"
	apperrors "calendario.app/errors"
	"calendario.app/models"
	"calendario.app/notification"
)

type mockPreferenceService struct {
	mock.Mock
}

func (m *mockPreferenceService) GetPreferences(userID uint) (*models.NotificationPreferences, error) {
	args := m.Called(userID)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreferences), nil
}

func (m *mockPreferenceService) UpdatePreferences(userID uint, req *models.PreferencesRequest) (*models.NotificationPreferences, error) {
	args := m.Called(userID, req)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.NotificationPreferences), nil
}

type mockSubscriptionService struct {
	mock.Mock
}

func (m *mockSubscriptionService) Subscribe(req *models.PushSubscribeRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *mockSubscriptionService) Unsubscribe(endpoint string) error {
	args := m.Called(endpoint)
	return args.Error(0)
}

type mockEventService struct {
	mock.Mock
}

func (m *mockEventService) UpcomingEvents(types []string, horizon time.Duration, limit int) ([]models.Event, error) {
	args := m.Called(types, horizon, limit)
	if args.Error(1) != nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), nil
}

func (m *mockEventService) ImportAstronomyEvents() error { return m.Called().Error(0) }
func (m *mockEventService) ImportTideEvents() error      { return m.Called().Error(0) }
func (m *mockEventService) ImportFixtureEvents() error   { return m.Called().Error(0) }
func (m *mockEventService) CleanupPastEvents() error     { return m.Called().Error(0) }

type mockPushService struct {
	mock.Mock
}

func (m *mockPushService) SendToUser(userID uint, payload notification.PushPayload) error {
	args := m.Called(userID, payload)
	return args.Error(0)
}

func (m *mockPushService) PublicKey() string {
	return m.Called().String(0)
}

type serverMocks struct {
	preferences   *mockPreferenceService
	subscriptions *mockSubscriptionService
	events        *mockEventService
	push          *mockPushService
}

func setupTestServer(t *testing.T, pushEnabled bool) (*Server, *serverMocks) {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	mocks := &serverMocks{
		preferences:   new(mockPreferenceService),
		subscriptions: new(mockSubscriptionService),
		events:        new(mockEventService),
		push:          new(mockPushService),
	}

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080},
		Location: config.LocationConfig{Name: "Lisboa"},
	}

	server := NewServer(db, cfg, mocks.preferences, mocks.subscriptions, mocks.events, nil)
	if pushEnabled {
		server = NewServer(db, cfg, mocks.preferences, mocks.subscriptions, mocks.events, mocks.push)
	}

	return server, mocks
}

func performRequest(server *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Buffer
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.GetRouter().ServeHTTP(w, req)
	return w
}

func TestServer_GetPreferences(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	expected := models.DefaultNotificationPreferences(7)
	mocks.preferences.On("GetPreferences", uint(7)).Return(expected, nil)

	w := performRequest(server, http.MethodGet, "/api/preferences/7", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var got models.NotificationPreferences
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint(7), got.UserID)
	assert.Equal(t, "09:00", got.PreferredNotificationTime)
}

func TestServer_GetPreferences_InvalidUserID(t *testing.T) {
	server, _ := setupTestServer(t, true)

	for _, path := range []string{"/api/preferences/abc", "/api/preferences/0", "/api/preferences/-3"} {
		w := performRequest(server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestServer_UpdatePreferences(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	updated := models.DefaultNotificationPreferences(7)
	updated.TidesFrequency = models.FrequencyImmediate
	mocks.preferences.On("UpdatePreferences", uint(7), mock.AnythingOfType("*models.PreferencesRequest")).
		Return(updated, nil)

	w := performRequest(server, http.MethodPut, "/api/preferences/7", gin.H{
		"tides_frequency": "immediate",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mocks.preferences.AssertExpectations(t)
}

func TestServer_UpdatePreferences_InvalidFrequencyRejectedByBinding(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	w := performRequest(server, http.MethodPut, "/api/preferences/7", gin.H{
		"tides_frequency": "hourly",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mocks.preferences.AssertNotCalled(t, "UpdatePreferences", mock.Anything, mock.Anything)
}

func TestServer_UpdatePreferences_InvalidTimeRejectedByBinding(t *testing.T) {
	server, _ := setupTestServer(t, true)

	w := performRequest(server, http.MethodPut, "/api/preferences/7", gin.H{
		"quiet_hours_start": "25:99",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_PushSubscribe(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	mocks.subscriptions.On("Subscribe", mock.AnythingOfType("*models.PushSubscribeRequest")).Return(nil)

	w := performRequest(server, http.MethodPost, "/api/push/subscribe", gin.H{
		"user_id":  1,
		"endpoint": "https://push.example.com/a",
		"keys":     gin.H{"p256dh": "key", "auth": "auth"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mocks.subscriptions.AssertExpectations(t)
}

func TestServer_PushSubscribe_MissingKeys(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	w := performRequest(server, http.MethodPost, "/api/push/subscribe", gin.H{
		"user_id":  1,
		"endpoint": "https://push.example.com/a",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mocks.subscriptions.AssertNotCalled(t, "Subscribe", mock.Anything)
}

func TestServer_PushUnsubscribe(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	mocks.subscriptions.On("Unsubscribe", "https://push.example.com/a").Return(nil)

	w := performRequest(server, http.MethodPost, "/api/push/unsubscribe", gin.H{
		"endpoint": "https://push.example.com/a",
	})

	assert.Equal(t, http.StatusOK, w.Code)
	mocks.subscriptions.AssertExpectations(t)
}

func TestServer_GetVAPIDKey(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	mocks.push.On("PublicKey").Return("test-public-key")

	w := performRequest(server, http.MethodGet, "/api/push/vapid-key", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test-public-key")
}

func TestServer_GetVAPIDKey_PushDisabled(t *testing.T) {
	server, _ := setupTestServer(t, false)

	w := performRequest(server, http.MethodGet, "/api/push/vapid-key", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestServer_GetEvents(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	events := []models.Event{
		{ID: 1, Title: "Maré alta (3.1m)", Type: models.EventTypeTide, StartAt: time.Now().Add(time.Hour)},
	}
	mocks.events.On("UpcomingEvents", []string{"tide", "astronomy"}, 48*time.Hour, 50).Return(events, nil)

	w := performRequest(server, http.MethodGet, "/api/events?types=tide,astronomy&hours=48", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Maré alta (3.1m)")
	mocks.events.AssertExpectations(t)
}

func TestServer_GetEvents_InvalidParams(t *testing.T) {
	server, _ := setupTestServer(t, true)

	for _, path := range []string{
		"/api/events?hours=abc",
		"/api/events?hours=0",
		"/api/events?hours=100000",
		"/api/events?limit=0",
		"/api/events?limit=5000",
	} {
		w := performRequest(server, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, "path %s", path)
	}
}

func TestServer_GetEvents_ServiceError(t *testing.T) {
	server, mocks := setupTestServer(t, true)

	mocks.events.On("UpcomingEvents", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperrors.NewDatabaseError("query failed", nil))

	w := performRequest(server, http.MethodGet, "/api/events", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Internal server error")
}

func TestServer_Health(t *testing.T) {
	server, _ := setupTestServer(t, true)

	w := performRequest(server, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"up"`)
	assert.Contains(t, w.Body.String(), "Lisboa")
}

func TestServer_Metrics(t *testing.T) {
	server, _ := setupTestServer(t, true)

	w := performRequest(server, http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
