package notificationRepo

import (
	"context"
	"errors"
	"time"

	"notifyhub/models"
)

// ErrNoDocuments is returned by lookups when the requested row is missing.
var ErrNoDocuments = errors.New("no matching documents")

// InboxFilter is the shared predicate for the inbox count and page queries.
type InboxFilter struct {
	UserID       int64
	Status       *int
	Types        []int // include-only set; empty means all
	ExcludeTypes []int
	Now          time.Time // expiry cutoff: endedOn, when set, must be after Now
}

// Repository owns all writes to the notification hierarchy.
type Repository interface {
	// CreateCascade atomically inserts the notification, one message per
	// non-empty bucket and one per-recipient row (sendStatus QUEUED), and
	// returns the new notification id.
	CreateCascade(ctx context.Context, n *models.Notification, buckets []models.MessageBucket) (int64, error)

	GetNotification(ctx context.Context, id int64) (*models.Notification, error)
	GetMessage(ctx context.Context, id int64) (*models.NotificationMessage, error)
	GetUserRow(ctx context.Context, notificationID, userID int64) (*models.NotificationUser, error)

	// MessageForUser resolves the language-bucket content assigned to one
	// recipient of a notification; used by the push gateway at send time.
	MessageForUser(ctx context.Context, notificationID, userID int64) (*models.NotificationMessage, error)

	// BulkSetSendStatus updates sendStatus for the given recipients of one
	// notification in a single update.
	BulkSetSendStatus(ctx context.Context, notificationID int64, userIDs []int64, status int) error

	// SetSendStatus updates sendStatus on a single per-recipient row.
	SetSendStatus(ctx context.Context, rowID int64, status int) error

	CountInbox(ctx context.Context, f InboxFilter) (int64, error)
	ListInbox(ctx context.Context, f InboxFilter, skip, limit int64) ([]models.InboxItem, error)
}
