package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
	"calendario.app/config"
	calerr "calendario.app/errors"
	"calendario.app/models"
	"calendario.app/service"
)

// Server represents the HTTP server and API handler
type Server struct {
	router              *gin.Engine
	db                  *gorm.DB
	config              *config.Config
	preferenceService   service.PreferenceServiceInterface
	subscriptionService service.SubscriptionServiceInterface
	eventService        service.EventServiceInterface
	pushService         service.PushServiceInterface
}

// NewServer creates and configures a new HTTP server. The push service may be
// nil when VAPID keys are not configured; the push endpoints then report the
// subsystem as unavailable while the rest of the API keeps working.
func NewServer(
	db *gorm.DB,
	config *config.Config,
	preferenceService service.PreferenceServiceInterface,
	subscriptionService service.SubscriptionServiceInterface,
	eventService service.EventServiceInterface,
	pushService service.PushServiceInterface,
) *Server {
	router := gin.Default()

	server := &Server{
		router:              router,
		db:                  db,
		config:              config,
		preferenceService:   preferenceService,
		subscriptionService: subscriptionService,
		eventService:        eventService,
		pushService:         pushService,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	{
		api.GET("/preferences/:userId", s.getPreferences)
		api.PUT("/preferences/:userId", s.updatePreferences)
		api.POST("/push/subscribe", s.pushSubscribe)
		api.POST("/push/unsubscribe", s.pushUnsubscribe)
		api.GET("/push/vapid-key", s.getVAPIDKey)
		api.GET("/events", s.getEvents)
		api.GET("/health", s.health)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// Start begins the HTTP server
func (s *Server) Start() error {
	return s.router.Run(fmt.Sprintf(":%d", s.config.Server.Port))
}

// GetRouter returns the router for testing purposes
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

func (s *Server) getPreferences(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	slog.Debug("Getting preferences", "userID", userID)
	preferences, err := s.preferenceService.GetPreferences(userID)
	if err != nil {
		slog.Error("Preference service error", "error", err, "userID", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (s *Server) updatePreferences(c *gin.Context) {
	userID, err := parseUserID(c.Param("userId"))
	if err != nil {
		s.handleError(c, err)
		return
	}

	var req models.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, calerr.NewValidationError("invalid request format"))
		return
	}

	slog.Debug("Updating preferences", "userID", userID)
	preferences, err := s.preferenceService.UpdatePreferences(userID, &req)
	if err != nil {
		slog.Error("Preference update error", "error", err, "userID", userID)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, preferences)
}

func (s *Server) pushSubscribe(c *gin.Context) {
	var req models.PushSubscribeRequest
	slog.Debug("Handling push subscribe request")

	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, calerr.NewValidationError("invalid request format"))
		return
	}

	if err := s.subscriptionService.Subscribe(&req); err != nil {
		slog.Error("Push subscribe error", "error", err, "userID", req.UserID)
		s.handleError(c, err)
		return
	}

	slog.Debug("Push registration stored", "userID", req.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Subscription registered successfully"})
}

func (s *Server) pushUnsubscribe(c *gin.Context) {
	var req models.PushUnsubscribeRequest
	slog.Debug("Handling push unsubscribe request")

	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Error("Request binding error", "error", err)
		s.handleError(c, calerr.NewValidationError("invalid request format"))
		return
	}

	if err := s.subscriptionService.Unsubscribe(req.Endpoint); err != nil {
		slog.Error("Push unsubscribe error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Unsubscribed successfully"})
}

func (s *Server) getVAPIDKey(c *gin.Context) {
	if s.pushService == nil {
		s.handleError(c, calerr.NewPushError("push notifications are not configured", nil))
		return
	}

	c.JSON(http.StatusOK, gin.H{"publicKey": s.pushService.PublicKey()})
}

func (s *Server) getEvents(c *gin.Context) {
	var types []string
	if raw := c.Query("types"); raw != "" {
		types = strings.Split(raw, ",")
	}

	horizon := 24 * time.Hour
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil || hours < 1 || hours > 24*30 {
			s.handleError(c, calerr.NewValidationError("hours must be a number between 1 and 720"))
			return
		}
		horizon = time.Duration(hours) * time.Hour
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 200 {
			s.handleError(c, calerr.NewValidationError("limit must be a number between 1 and 200"))
			return
		}
		limit = parsed
	}

	events, err := s.eventService.UpcomingEvents(types, horizon, limit)
	if err != nil {
		slog.Error("Event service error", "error", err)
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

func (s *Server) health(c *gin.Context) {
	status := http.StatusOK
	dbStatus := "up"

	if sqlDB, err := s.db.DB(); err != nil || sqlDB.Ping() != nil {
		status = http.StatusServiceUnavailable
		dbStatus = "down"
	}

	c.JSON(status, gin.H{
		"database":     dbStatus,
		"pushEnabled":  s.pushService != nil,
		"locationName": s.config.Location.Name,
	})
}

func parseUserID(raw string) (uint, error) {
	userID, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || userID == 0 {
		return 0, calerr.NewValidationError("userId must be a positive integer")
	}
	return uint(userID), nil
}

// handleError handles different types of application errors
func (s *Server) handleError(c *gin.Context, err error) {
	var appErr *calerr.AppError
	var statusCode int
	var message string

	if errors.As(err, &appErr) {
		switch appErr.Type {
		case calerr.ValidationError:
			statusCode = http.StatusBadRequest
			message = appErr.Message
		case calerr.NotFoundError:
			statusCode = http.StatusNotFound
			message = appErr.Message
		case calerr.AlreadyExistsError:
			statusCode = http.StatusConflict
			message = appErr.Message
		case calerr.ExternalAPIError:
			statusCode = http.StatusServiceUnavailable
			message = "External service unavailable"
		case calerr.DatabaseError:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		case calerr.PushError:
			statusCode = http.StatusServiceUnavailable
			message = appErr.Message
		case calerr.ConfigurationError:
			statusCode = http.StatusServiceUnavailable
			message = appErr.Message
		default:
			statusCode = http.StatusInternalServerError
			message = "Internal server error"
		}
	} else {
		statusCode = http.StatusInternalServerError
		message = "Internal server error"
	}

	c.JSON(statusCode, models.ErrorResponse{Error: message})
}
