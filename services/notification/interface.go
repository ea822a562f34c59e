package notification

import (
	"context"
	"time"

	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/models"
)

// LangContent is the title/body pair supplied for one language.
type LangContent struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// CreateRequest carries everything needed to create and dispatch one
// notification to a set of recipients.
type CreateRequest struct {
	Type      int
	Meta      map[string]any
	StartedOn time.Time
	EndedOn   *time.Time
	Silent    bool
	Contents  map[string]LangContent
	UserIDs   []int64
	Image     string
}

// InboxQuery is the filtered, paginated read over one user's inbox.
type InboxQuery struct {
	UserID   int64
	Offset   int64
	PerPage  int64
	Status   *int
	Type     *int
	Category string
}

// InboxPage is one page of inbox results.
type InboxPage struct {
	TotalCount    int64              `json:"total_count"`
	NextOffset    *int64             `json:"next_offset"`
	Notifications []models.InboxItem `json:"notifications"`
}

// NotificationService is the pipeline facade: create+dispatch, the client
// acknowledgement transition, and the inbox read path.
type NotificationService interface {
	Create(ctx context.Context, req CreateRequest) (int64, error)
	UpdateStatus(ctx context.Context, notificationID, userID int64, status int) error
	Inbox(ctx context.Context, q InboxQuery) (*InboxPage, error)
}

// UserDirectory resolves device language and push tokens per recipient.
type UserDirectory interface {
	DeviceInfo(ctx context.Context, userIDs []int64) (map[int64]models.DeviceInfo, error)
}

// ProfileDirectory resolves the public profile embedded by the enricher.
type ProfileDirectory interface {
	PublicProfile(ctx context.Context, userID int64) (*models.PublicProfile, error)
}

// Enqueuer is the durable queue client used by the dispatcher.
type Enqueuer interface {
	Enqueue(ctx context.Context, topic string, payload []byte) error
}

// DefaultNotificationService is the production implementation.
type DefaultNotificationService struct {
	Repo      notificationRepo.Repository
	Directory UserDirectory
	Profiles  ProfileDirectory
	Queue     Enqueuer
}
