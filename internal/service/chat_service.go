package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/iomp-platform/iomp-api/internal/models"
	appErrors "github.com/iomp-platform/iomp-api/pkg/errors"
	"github.com/iomp-platform/iomp-api/pkg/llm"
)

const (
	chatHistoryLimit     = 20
	upcomingEventsLimit  = 5
	recentAnnouncesLimit = 3
	classroomSampleLimit = 5
	attendanceThreshold  = 75.0

	offlineReply = "I am currently in offline mode, but I'm here to help! " +
		"Ask me about your attendance, classrooms, upcoming events or announcements."
	apologyReply = "Sorry, I'm having trouble thinking right now. Please try again."
)

type chatRepository interface {
	Create(ctx context.Context, turn *models.ChatMessage) error
	ListRecent(ctx context.Context, userID string, limit int) ([]models.ChatMessage, error)
}

type chatUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

type chatAttendanceRepository interface {
	SummaryForUser(ctx context.Context, userID string) (*models.AttendanceSummary, error)
}

type chatClassroomRepository interface {
	ListByStudent(ctx context.Context, userID string, limit int) ([]models.Classroom, error)
}

type chatEventRepository interface {
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.Event, error)
	ListRegisteredEvents(ctx context.Context, userID string) ([]models.Event, error)
}

type chatAnnouncementRepository interface {
	ListRecent(ctx context.Context, limit int) ([]models.Announcement, error)
}

type contextCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// ChatService produces conversational replies grounded in the caller's own
// academic data. Deterministic keyword answers are tried first; everything
// else goes to the language model when one is configured.
type ChatService struct {
	repo          chatRepository
	users         chatUserRepository
	attendance    chatAttendanceRepository
	classrooms    chatClassroomRepository
	events        chatEventRepository
	announcements chatAnnouncementRepository
	cache         contextCache
	client        llm.Client
	contextTTL    time.Duration
	metrics       *MetricsService
	logger        *zap.Logger
}

// NewChatService constructs the service. The cache and the language-model
// client are both optional: without a cache context is assembled per request,
// without a client the chatbot answers in offline mode.
func NewChatService(
	repo chatRepository,
	users chatUserRepository,
	attendance chatAttendanceRepository,
	classrooms chatClassroomRepository,
	events chatEventRepository,
	announcements chatAnnouncementRepository,
	cache contextCache,
	client llm.Client,
	contextTTL time.Duration,
	metrics *MetricsService,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if contextTTL <= 0 {
		contextTTL = 2 * time.Minute
	}
	return &ChatService{
		repo:          repo,
		users:         users,
		attendance:    attendance,
		classrooms:    classrooms,
		events:        events,
		announcements: announcements,
		cache:         cache,
		client:        client,
		contextTTL:    contextTTL,
		metrics:       metrics,
		logger:        logger,
	}
}

// Ask handles one chatbot turn and persists it. A language-model failure
// returns the fixed apology without persisting the turn.
func (s *ChatService) Ask(ctx context.Context, userID, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", appErrors.Clone(appErrors.ErrValidation, "Message is required")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "User not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load user")
	}

	chatCtx := s.assembleContext(ctx, user)

	reply, matched := s.routeKeyword(message, chatCtx)
	turnPath := "keyword"
	if !matched {
		turnPath = "llm"
		if s.client == nil {
			turnPath = "offline"
		}
		reply, err = s.generate(ctx, user, chatCtx, message)
		if err != nil {
			s.logger.Error("chat generation failed", zap.String("user_id", user.ID), zap.Error(err))
			return "", appErrors.Wrap(err, "CHATBOT_ERROR", appErrors.ErrInternal.Status, apologyReply)
		}
	}

	turn := &models.ChatMessage{UserID: user.ID, Message: message, Response: reply}
	if err := s.repo.Create(ctx, turn); err != nil {
		s.logger.Error("failed to persist chat turn", zap.String("user_id", user.ID), zap.Error(err))
		return "", appErrors.Wrap(err, "CHATBOT_ERROR", appErrors.ErrInternal.Status, apologyReply)
	}
	s.metrics.ObserveChatTurn(turnPath)
	return reply, nil
}

// History returns the caller's last turns, most recent first.
func (s *ChatService) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	turns, err := s.repo.ListRecent(ctx, userID, chatHistoryLimit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chat history")
	}
	return turns, nil
}

// assembleContext gathers the caller's academic context. Every sub-query is
// independently fault-tolerant: a failed lookup degrades that section to its
// empty default instead of aborting the turn.
func (s *ChatService) assembleContext(ctx context.Context, user *models.User) *models.ChatContext {
	cacheKey := "chat:ctx:" + user.ID
	if s.cache != nil {
		var cached models.ChatContext
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			return &cached
		}
	}

	chatCtx := &models.ChatContext{}

	if user.Role == models.RoleStudent {
		if summary, err := s.attendance.SummaryForUser(ctx, user.ID); err != nil {
			s.logger.Warn("attendance context unavailable", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			chatCtx.Attendance = summary
		}
		if classrooms, err := s.classrooms.ListByStudent(ctx, user.ID, classroomSampleLimit); err != nil {
			s.logger.Warn("classroom context unavailable", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			chatCtx.Classrooms = classrooms
		}
		if registered, err := s.events.ListRegisteredEvents(ctx, user.ID); err != nil {
			s.logger.Warn("registration context unavailable", zap.String("user_id", user.ID), zap.Error(err))
		} else {
			chatCtx.RegisteredEvents = registered
		}
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if upcoming, err := s.events.ListUpcoming(ctx, today, upcomingEventsLimit); err != nil {
		s.logger.Warn("event context unavailable", zap.Error(err))
	} else {
		chatCtx.UpcomingEvents = upcoming
	}
	if announcements, err := s.announcements.ListRecent(ctx, recentAnnouncesLimit); err != nil {
		s.logger.Warn("announcement context unavailable", zap.Error(err))
	} else {
		chatCtx.Announcements = announcements
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, chatCtx, s.contextTTL); err != nil {
			s.logger.Warn("failed to cache chat context", zap.Error(err))
		}
	}
	return chatCtx
}

// routeKeyword answers deterministically when the message names a known
// topic. Precedence is attendance, then events, then announcements, then
// classrooms; the first match wins.
func (s *ChatService) routeKeyword(message string, chatCtx *models.ChatContext) (string, bool) {
	lowered := strings.ToLower(message)
	switch {
	case strings.Contains(lowered, "attendance"):
		return attendanceAnswer(chatCtx.Attendance), true
	case strings.Contains(lowered, "event"):
		return eventsAnswer(chatCtx), true
	case strings.Contains(lowered, "announcement"):
		return announcementsAnswer(chatCtx.Announcements), true
	case strings.Contains(lowered, "classroom"), strings.Contains(lowered, "class"):
		return classroomsAnswer(chatCtx.Classrooms), true
	default:
		return "", false
	}
}

func attendanceAnswer(summary *models.AttendanceSummary) string {
	if summary == nil || summary.Total == 0 {
		return "I couldn't find any attendance records for you yet."
	}
	base := fmt.Sprintf("You have attended %d of %d classes (%.0f%%).", summary.Present, summary.Total, summary.Percent)
	if summary.Percent >= attendanceThreshold {
		return base + " Great job, keep it up!"
	}
	return base + " Your attendance is below 75%, please try to attend more classes."
}

func eventsAnswer(chatCtx *models.ChatContext) string {
	if len(chatCtx.UpcomingEvents) == 0 {
		return "There are no upcoming events right now."
	}
	var b strings.Builder
	b.WriteString("Here are the upcoming events:\n")
	for _, event := range chatCtx.UpcomingEvents {
		fmt.Fprintf(&b, "- %s on %s", event.Title, event.Date.Format("Jan 2, 2006"))
		if event.Location != "" {
			fmt.Fprintf(&b, " at %s", event.Location)
		}
		b.WriteString("\n")
	}
	if n := len(chatCtx.RegisteredEvents); n > 0 {
		fmt.Fprintf(&b, "You are registered for %d event(s).", n)
	}
	return strings.TrimSpace(b.String())
}

func announcementsAnswer(announcements []models.Announcement) string {
	if len(announcements) == 0 {
		return "There are no recent announcements."
	}
	var b strings.Builder
	b.WriteString("Latest announcements:\n")
	for _, a := range announcements {
		fmt.Fprintf(&b, "- %s: %s\n", a.Title, a.Content)
	}
	return strings.TrimSpace(b.String())
}

func classroomsAnswer(classrooms []models.Classroom) string {
	if len(classrooms) == 0 {
		return "You are not enrolled in any classrooms yet."
	}
	var b strings.Builder
	b.WriteString("Your classrooms:\n")
	for _, c := range classrooms {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Code)
	}
	return strings.TrimSpace(b.String())
}

func (s *ChatService) generate(ctx context.Context, user *models.User, chatCtx *models.ChatContext, message string) (string, error) {
	if s.client == nil {
		return offlineReply, nil
	}
	reply, err := s.client.Complete(ctx, systemPrompt(user, chatCtx), message)
	if err != nil {
		return "", fmt.Errorf("language model call: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func systemPrompt(user *models.User, chatCtx *models.ChatContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are IOMP's helpful teaching assistant.\n")
	fmt.Fprintf(&b, "The user is a %s named %s.\n", user.Role, user.Name)
	b.WriteString("Answer concisely (max 60 words) and educationally.\n")
	b.WriteString("Never reveal confidential data and respect role-based access.\n")
	b.WriteString("If unsure, say \"Please ask your teacher for clarification.\"\n")

	if chatCtx.Attendance != nil && chatCtx.Attendance.Total > 0 {
		fmt.Fprintf(&b, "The user's attendance is %.0f%% (%d of %d classes).\n",
			chatCtx.Attendance.Percent, chatCtx.Attendance.Present, chatCtx.Attendance.Total)
	}
	if len(chatCtx.Classrooms) > 0 {
		names := make([]string, 0, len(chatCtx.Classrooms))
		for _, c := range chatCtx.Classrooms {
			names = append(names, c.Name)
		}
		fmt.Fprintf(&b, "The user's classrooms: %s.\n", strings.Join(names, ", "))
	}
	if len(chatCtx.UpcomingEvents) > 0 {
		titles := make([]string, 0, len(chatCtx.UpcomingEvents))
		for _, e := range chatCtx.UpcomingEvents {
			titles = append(titles, fmt.Sprintf("%s (%s)", e.Title, e.Date.Format("Jan 2")))
		}
		fmt.Fprintf(&b, "Upcoming events: %s.\n", strings.Join(titles, ", "))
	}
	if len(chatCtx.Announcements) > 0 {
		titles := make([]string, 0, len(chatCtx.Announcements))
		for _, a := range chatCtx.Announcements {
			titles = append(titles, a.Title)
		}
		fmt.Fprintf(&b, "Recent announcements: %s.\n", strings.Join(titles, ", "))
	}
	return b.String()
}
