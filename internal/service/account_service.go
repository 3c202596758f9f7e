package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
)

// Notification is a feed entry shown in the navigation bar.
type Notification struct {
	ID        int    `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	Read      bool   `json:"read"`
	Icon      string `json:"icon"`
}

// Settings is a free-form settings document keyed by section.
type Settings map[string]interface{}

// SettingsStore is the read/write contract for user settings. There is no
// durable backing yet; implementations may hold state in memory.
type SettingsStore interface {
	Get(userID string) (Settings, bool)
	Put(userID string, settings Settings)
}

// MemorySettingsStore keeps settings per user in process memory.
type MemorySettingsStore struct {
	mu   sync.RWMutex
	data map[string]Settings
}

// NewMemorySettingsStore constructs an empty store.
func NewMemorySettingsStore() *MemorySettingsStore {
	return &MemorySettingsStore{data: make(map[string]Settings)}
}

func (s *MemorySettingsStore) Get(userID string) (Settings, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.data[userID]
	return settings, ok
}

func (s *MemorySettingsStore) Put(userID string, settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = settings
}

// AccountService serves the notification feed and user settings.
type AccountService struct {
	users  chatUserRepository
	store  SettingsStore
	logger *zap.Logger
}

// NewAccountService constructs the service.
func NewAccountService(users chatUserRepository, store SettingsStore, logger *zap.Logger) *AccountService {
	if store == nil {
		store = NewMemorySettingsStore()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{users: users, store: store, logger: logger}
}

// Notifications returns the sample notification feed and its unread count.
func (s *AccountService) Notifications(ctx context.Context, userID string) ([]Notification, int, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, 0, err
	}

	notifications := []Notification{
		{ID: 1, Type: "event", Title: "New Event: Tech Fest 2025", Message: "Annual Tech & Culture Fest is coming up on Jan 15, 2025", Timestamp: "2 hours ago", Read: false, Icon: "fa-calendar"},
		{ID: 2, Type: "assignment", Title: "Assignment Due", Message: "Data Structures assignment due in 3 days", Timestamp: "5 hours ago", Read: false, Icon: "fa-file-alt"},
		{ID: 3, Type: "message", Title: "New Message from Dr. Smith", Message: "Please check your email for project feedback", Timestamp: "1 day ago", Read: true, Icon: "fa-envelope"},
		{ID: 4, Type: "announcement", Title: "Campus Update", Message: "Library hours extended during exam week", Timestamp: "2 days ago", Read: true, Icon: "fa-bullhorn"},
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}
	return notifications, unread, nil
}

// GetSettings returns the caller's settings, falling back to a default
// snapshot assembled from the user record.
func (s *AccountService) GetSettings(ctx context.Context, userID string) (Settings, error) {
	user, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if settings, ok := s.store.Get(userID); ok {
		return settings, nil
	}
	return defaultSettings(user), nil
}

// UpdateSettings stores the caller's settings document as given.
func (s *AccountService) UpdateSettings(ctx context.Context, userID string, settings Settings) (Settings, error) {
	if _, err := s.resolveUser(ctx, userID); err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "No data provided")
	}
	s.store.Put(userID, settings)
	return settings, nil
}

func (s *AccountService) resolveUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}
	return user, nil
}

func defaultSettings(user *models.User) Settings {
	return Settings{
		"profile": map[string]interface{}{
			"email": user.Email,
			"name":  user.Name,
			"role":  user.Role,
		},
		"notifications": map[string]interface{}{
			"email_notifications": true,
			"push_notifications":  true,
			"event_reminders":     true,
			"assignment_alerts":   true,
		},
		"privacy": map[string]interface{}{
			"profile_visibility": "public",
			"show_email":         false,
		},
		"appearance": map[string]interface{}{
			"theme":    "light",
			"language": "en",
		},
	}
}
