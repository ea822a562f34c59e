package models

import "time"

// Send status lifecycle for a NotificationUser row.
// QUEUED -> SENT -> (RECEIVED | REPLIED); SEND_FAILED is terminal from QUEUED.
const (
	SendStatusQueued     = 0
	SendStatusSendFailed = 1
	SendStatusSent       = 2
	SendStatusReceived   = 3
	SendStatusReplied    = 4
)

// Static notification type catalog. Seeded once at startup, never mutated
// by the pipeline.
const (
	TypeGeneral            = 1
	TypeCarpoolGroup       = 2
	TypeCarpoolMatching    = 3 // matching offer, payload carries the counterpart profile
	TypeCarpoolRideRequest = 4 // broadcast; client ack counts as a reply
	TypeMicrosurvey        = 5 // system-only, never shown in the inbox
	TypeIncentive          = 6
	TypeIncentiveBonus     = 7
)

// IncentiveTypes is the fixed set selected by the "incentive" inbox category
// and excluded from the default inbox view.
var IncentiveTypes = []int{TypeIncentive, TypeIncentiveBonus}

// SystemOnlyTypes never appear in the inbox regardless of filters.
var SystemOnlyTypes = []int{TypeMicrosurvey}

// NotificationType is a catalog entry.
type NotificationType struct {
	ID   int    `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Notification is one logical event fanned out to many recipients.
type Notification struct {
	ID        int64          `bson:"id" json:"id"`
	Type      int            `bson:"type" json:"type"`
	Meta      map[string]any `bson:"meta" json:"meta"`
	StartedOn time.Time      `bson:"startedOn" json:"started_on"`
	EndedOn   *time.Time     `bson:"endedOn,omitempty" json:"ended_on,omitempty"`
	Silent    bool           `bson:"silent" json:"silent"`
}

// NotificationMessage holds the rendered content for one language of a
// notification. Lang values are unique per notification.
type NotificationMessage struct {
	ID             int64  `bson:"id" json:"id"`
	NotificationID int64  `bson:"notificationId" json:"notification_id"`
	Lang           string `bson:"lang" json:"lang"`
	Title          string `bson:"title" json:"title"`
	Body           string `bson:"body" json:"body"`
}

// NotificationUser is the per-recipient delivery record. NotificationID is
// denormalized from the message so the (notificationId, userId) uniqueness
// invariant can be indexed directly.
type NotificationUser struct {
	ID                    int64 `bson:"id" json:"id"`
	NotificationID        int64 `bson:"notificationId" json:"notification_id"`
	NotificationMessageID int64 `bson:"notificationMessageId" json:"notification_message_id"`
	UserID                int64 `bson:"userId" json:"user_id"`
	SendStatus            int   `bson:"sendStatus" json:"send_status"`
}

// Recipient is a routed recipient inside one language bucket: the resolved
// device token travels with the user id so the gateway does not re-resolve it.
type Recipient struct {
	UserID      int64  `json:"user_id"`
	Token       string `json:"token,omitempty"`
	TokenType   string `json:"token_type,omitempty"` // "apns" or "fcm"
	Deliverable bool   `json:"deliverable"`
}

// MessageBucket groups the recipients that share one resolved language.
type MessageBucket struct {
	Lang       string
	Title      string
	Body       string
	Recipients []Recipient
}

// PushFanoutPayload is the queue message produced once per notification.
// The gateway consumer resolves per-recipient content at send time.
type PushFanoutPayload struct {
	Silent           bool           `json:"silent"`
	UserList         []int64        `json:"user_list"`
	NotificationType int            `json:"notification_type"`
	EndedOn          string         `json:"ended_on,omitempty"` // "YYYY-MM-DD HH:MM:SS"
	Title            string         `json:"title"`
	Body             string         `json:"body"`
	NotificationID   int64          `json:"notification_id"`
	Meta             map[string]any `json:"meta"`
	Image            string         `json:"image,omitempty"`
}

// InboxItem is one row of the joined inbox view.
type InboxItem struct {
	ID         int64          `bson:"id" json:"id"`
	Type       int            `bson:"type" json:"type"`
	Title      string         `bson:"title" json:"title"`
	Body       string         `bson:"body" json:"body"`
	Meta       map[string]any `bson:"meta" json:"meta"`
	StartedOn  time.Time      `bson:"startedOn" json:"started_on"`
	EndedOn    *time.Time     `bson:"endedOn,omitempty" json:"ended_on,omitempty"`
	SendStatus int            `bson:"sendStatus" json:"send_status"`
}
