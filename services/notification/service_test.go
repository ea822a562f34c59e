package notification

import (
	"context"
	"errors"

	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/models"
)

// In-memory fakes of the repository and collaborator interfaces.

type bulkCall struct {
	notificationID int64
	userIDs        []int64
	status         int
}

type fakeRepo struct {
	notifications map[int64]*models.Notification
	messages      map[int64]*models.NotificationMessage
	rows          []*models.NotificationUser

	nextID      int64
	failCascade bool
	failBulk    bool

	bulkCalls []bulkCall

	countResult int64
	listResult  []models.InboxItem
	lastFilter  notificationRepo.InboxFilter
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		notifications: map[int64]*models.Notification{},
		messages:      map[int64]*models.NotificationMessage{},
	}
}

func (f *fakeRepo) CreateCascade(ctx context.Context, n *models.Notification, buckets []models.MessageBucket) (int64, error) {
	if f.failCascade {
		return 0, errors.New("cascade aborted")
	}
	f.nextID++
	id := f.nextID
	n.ID = id
	f.notifications[id] = n
	for _, bucket := range buckets {
		if len(bucket.Recipients) == 0 {
			continue
		}
		f.nextID++
		msg := &models.NotificationMessage{
			ID:             f.nextID,
			NotificationID: id,
			Lang:           bucket.Lang,
			Title:          bucket.Title,
			Body:           bucket.Body,
		}
		f.messages[msg.ID] = msg
		for _, r := range bucket.Recipients {
			f.nextID++
			f.rows = append(f.rows, &models.NotificationUser{
				ID:                    f.nextID,
				NotificationID:        id,
				NotificationMessageID: msg.ID,
				UserID:                r.UserID,
				SendStatus:            models.SendStatusQueued,
			})
		}
	}
	return id, nil
}

func (f *fakeRepo) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return nil, notificationRepo.ErrNoDocuments
	}
	return n, nil
}

func (f *fakeRepo) GetMessage(ctx context.Context, id int64) (*models.NotificationMessage, error) {
	msg, ok := f.messages[id]
	if !ok {
		return nil, notificationRepo.ErrNoDocuments
	}
	return msg, nil
}

func (f *fakeRepo) GetUserRow(ctx context.Context, notificationID, userID int64) (*models.NotificationUser, error) {
	for _, row := range f.rows {
		if row.NotificationID == notificationID && row.UserID == userID {
			return row, nil
		}
	}
	return nil, notificationRepo.ErrNoDocuments
}

func (f *fakeRepo) MessageForUser(ctx context.Context, notificationID, userID int64) (*models.NotificationMessage, error) {
	row, err := f.GetUserRow(ctx, notificationID, userID)
	if err != nil {
		return nil, err
	}
	return f.GetMessage(ctx, row.NotificationMessageID)
}

func (f *fakeRepo) BulkSetSendStatus(ctx context.Context, notificationID int64, userIDs []int64, status int) error {
	if f.failBulk {
		return errors.New("bulk update failed")
	}
	f.bulkCalls = append(f.bulkCalls, bulkCall{notificationID: notificationID, userIDs: userIDs, status: status})
	for _, row := range f.rows {
		if row.NotificationID != notificationID {
			continue
		}
		for _, id := range userIDs {
			if row.UserID == id {
				row.SendStatus = status
			}
		}
	}
	return nil
}

func (f *fakeRepo) SetSendStatus(ctx context.Context, rowID int64, status int) error {
	for _, row := range f.rows {
		if row.ID == rowID {
			row.SendStatus = status
			return nil
		}
	}
	return notificationRepo.ErrNoDocuments
}

func (f *fakeRepo) CountInbox(ctx context.Context, filter notificationRepo.InboxFilter) (int64, error) {
	f.lastFilter = filter
	return f.countResult, nil
}

func (f *fakeRepo) ListInbox(ctx context.Context, filter notificationRepo.InboxFilter, skip, limit int64) ([]models.InboxItem, error) {
	f.lastFilter = filter
	start := skip
	if start > int64(len(f.listResult)) {
		start = int64(len(f.listResult))
	}
	end := start + limit
	if end > int64(len(f.listResult)) {
		end = int64(len(f.listResult))
	}
	return f.listResult[start:end], nil
}

type fakeDirectory struct {
	devices map[int64]models.DeviceInfo
	err     error
}

func (f *fakeDirectory) DeviceInfo(ctx context.Context, userIDs []int64) (map[int64]models.DeviceInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	result := map[int64]models.DeviceInfo{}
	for _, id := range userIDs {
		if info, ok := f.devices[id]; ok {
			result[id] = info
		}
	}
	return result, nil
}

type fakeProfiles struct {
	profiles map[int64]*models.PublicProfile
	err      error
}

func (f *fakeProfiles) PublicProfile(ctx context.Context, userID int64) (*models.PublicProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profiles[userID], nil
}

type enqueued struct {
	topic   string
	payload []byte
}

type fakeQueue struct {
	calls []enqueued
	err   error
}

func (f *fakeQueue) Enqueue(ctx context.Context, topic string, payload []byte) error {
	if f.err != nil {
		return f.err
	}
	f.calls = append(f.calls, enqueued{topic: topic, payload: payload})
	return nil
}

func newTestService(repo *fakeRepo, dir *fakeDirectory, profiles *fakeProfiles, queue *fakeQueue) *DefaultNotificationService {
	if repo == nil {
		repo = newFakeRepo()
	}
	if dir == nil {
		dir = &fakeDirectory{devices: map[int64]models.DeviceInfo{}}
	}
	if profiles == nil {
		profiles = &fakeProfiles{profiles: map[int64]*models.PublicProfile{}}
	}
	if queue == nil {
		queue = &fakeQueue{}
	}
	return &DefaultNotificationService{
		Repo:      repo,
		Directory: dir,
		Profiles:  profiles,
		Queue:     queue,
	}
}
