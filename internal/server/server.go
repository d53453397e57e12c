package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/hearthhq/hearth/internal/auth"
	"github.com/hearthhq/hearth/internal/backup"
	"github.com/hearthhq/hearth/internal/handler"
	"github.com/hearthhq/hearth/internal/middleware"
	"github.com/hearthhq/hearth/internal/push"
	"github.com/hearthhq/hearth/internal/schedule"
	"github.com/hearthhq/hearth/internal/store"
	ws "github.com/hearthhq/hearth/internal/websocket"
)

// Config holds everything the server needs beyond the database handle.
type Config struct {
	JWTSecret string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	VAPIDPublicKey  string
	VAPIDPrivateKey string

	Backup backup.Config
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	tokens        *auth.TokenService
	authH         *handler.AuthHandler
	userH         *handler.UserHandler
	householdH    *handler.HouseholdHandler
	choreH        *handler.ChoreHandler
	eventH        *handler.CalendarEventHandler
	medicationH   *handler.MedicationHandler
	groceryH      *handler.GroceryHandler
	notificationH *handler.NotificationHandler
	scheduleH     *handler.ScheduleHandler
	backupH       *handler.BackupHandler
	backupManager *backup.Manager
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, cfg Config, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	householdStore := store.NewHouseholdStore(db)
	choreStore := store.NewChoreStore(db)
	eventStore := store.NewEventStore(db)
	medicationStore := store.NewMedicationStore(db)
	groceryStore := store.NewGroceryStore(db)
	deviceStore := store.NewDeviceStore(db)

	tokens := auth.NewTokenService(cfg.JWTSecret)

	// Schedule interpreter. Without an API key the service stays up but
	// reports the feature as unavailable.
	var scheduleClient *schedule.Client
	if cfg.OpenAIAPIKey != "" {
		scheduleClient = schedule.NewClient(schedule.ClientConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
		})
	}
	scheduleSvc := schedule.NewService(scheduleClient, choreStore, eventStore,
		medicationStore, groceryStore, logger.With("component", "schedule"))

	var pushSvc *push.Service
	if cfg.VAPIDPublicKey != "" && cfg.VAPIDPrivateKey != "" {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey)
	}

	backupMgr := backup.NewManager(cfg.Backup, db, logger.With("component", "backup"))

	return &Server{
		db:            db,
		hub:           hub,
		tokens:        tokens,
		authH:         handler.NewAuthHandler(userStore, householdStore, tokens, logger.With("component", "auth")),
		userH:         handler.NewUserHandler(userStore, logger.With("component", "user")),
		householdH:    handler.NewHouseholdHandler(householdStore, userStore, logger.With("component", "household")),
		choreH:        handler.NewChoreHandler(choreStore, userStore, hub, logger.With("component", "chore")),
		eventH:        handler.NewCalendarEventHandler(eventStore, hub, logger.With("component", "calendar")),
		medicationH:   handler.NewMedicationHandler(medicationStore, hub, logger.With("component", "medication")),
		groceryH:      handler.NewGroceryHandler(groceryStore, hub, logger.With("component", "grocery")),
		notificationH: handler.NewNotificationHandler(deviceStore, pushSvc, logger.With("component", "notification")),
		scheduleH:     handler.NewScheduleHandler(scheduleSvc, hub, logger.With("component", "schedule")),
		backupH:       handler.NewBackupHandler(backupMgr, logger.With("component", "backup")),
		backupManager: backupMgr,
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager so main can run its loop.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /api/auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /api/auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /api/auth/refresh", s.rateLimitedHandler(s.authH.Refresh))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes, wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Profile and household
	mux.HandleFunc("GET /api/users/me", s.userH.Me)
	mux.HandleFunc("PUT /api/users/me", s.userH.UpdateMe)
	mux.HandleFunc("GET /api/users", s.userH.List)
	mux.Handle("DELETE /api/users/{id}", middleware.RequireGuardian(http.HandlerFunc(s.userH.Delete)))
	mux.HandleFunc("GET /api/households/current", s.householdH.Get)
	mux.Handle("PUT /api/households/current", middleware.RequireGuardian(http.HandlerFunc(s.householdH.Update)))

	// Chores
	mux.HandleFunc("GET /api/chores", s.choreH.List)
	mux.HandleFunc("GET /api/chores/pending", s.choreH.Pending)
	mux.HandleFunc("POST /api/chores", s.choreH.Create)
	mux.HandleFunc("PATCH /api/chores/{id}/complete", s.choreH.Complete)
	mux.HandleFunc("DELETE /api/chores/{id}", s.choreH.Delete)
	mux.HandleFunc("GET /api/chores/leaderboard", s.choreH.Leaderboard)

	// Calendar events
	mux.HandleFunc("GET /api/events", s.eventH.List)
	mux.HandleFunc("POST /api/events", s.eventH.Create)
	mux.HandleFunc("GET /api/events/{id}", s.eventH.Get)
	mux.HandleFunc("PUT /api/events/{id}", s.eventH.Update)
	mux.HandleFunc("DELETE /api/events/{id}", s.eventH.Delete)

	// Medications
	mux.HandleFunc("GET /api/medications", s.medicationH.List)
	mux.HandleFunc("POST /api/medications", s.medicationH.Create)
	mux.HandleFunc("POST /api/medications/log", s.medicationH.Log)
	mux.HandleFunc("GET /api/medications/{id}/logs", s.medicationH.Logs)
	mux.HandleFunc("PATCH /api/medications/{id}/inventory", s.medicationH.UpdateInventory)
	mux.HandleFunc("DELETE /api/medications/{id}", s.medicationH.Delete)

	// Groceries
	mux.HandleFunc("GET /api/groceries", s.groceryH.List)
	mux.HandleFunc("POST /api/groceries", s.groceryH.Create)
	mux.HandleFunc("PATCH /api/groceries/{id}/check", s.groceryH.ToggleChecked)
	mux.HandleFunc("DELETE /api/groceries/{id}", s.groceryH.Delete)
	mux.HandleFunc("POST /api/groceries/clear-checked", s.groceryH.ClearChecked)

	// Devices and web push
	mux.HandleFunc("POST /api/notifications/register", s.notificationH.RegisterDevice)
	mux.HandleFunc("GET /api/notifications/devices", s.notificationH.ListDevices)
	mux.HandleFunc("DELETE /api/notifications/devices/{id}", s.notificationH.DeleteDevice)
	mux.HandleFunc("POST /api/notifications/subscribe", s.notificationH.Subscribe)
	mux.HandleFunc("DELETE /api/notifications/subscriptions/{id}", s.notificationH.Unsubscribe)
	mux.HandleFunc("GET /api/notifications/vapid-key", s.notificationH.GetVAPIDKey)
	mux.HandleFunc("POST /api/notifications/test", s.notificationH.TestNotification)

	// Schedule interpretation is guardian-only
	mux.Handle("POST /api/ai/schedule", middleware.RequireGuardian(http.HandlerFunc(s.scheduleH.Process)))

	// Backup administration
	mux.Handle("GET /api/admin/backup/status", middleware.RequireGuardian(http.HandlerFunc(s.backupH.Status)))
	mux.Handle("POST /api/admin/backup/run", middleware.RequireGuardian(http.HandlerFunc(s.backupH.RunNow)))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
