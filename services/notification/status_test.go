package notification

import (
	"context"
	"testing"

	"notifyhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedDelivered stores one delivered notification with a single recipient
// row and returns the notification id.
func seedDelivered(repo *fakeRepo, notifType int, userID int64) int64 {
	id, _ := repo.CreateCascade(context.Background(), &models.Notification{Type: notifType}, []models.MessageBucket{
		{Lang: "en", Title: "t", Body: "b", Recipients: []models.Recipient{{UserID: userID, Deliverable: true}}},
	})
	for _, row := range repo.rows {
		if row.NotificationID == id {
			row.SendStatus = models.SendStatusSent
		}
	}
	return id
}

func TestUpdateStatusPersistsReceived(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeGeneral, 5)
	svc := newTestService(repo, nil, nil, nil)

	err := svc.UpdateStatus(context.Background(), id, 5, models.SendStatusReceived)
	require.NoError(t, err)

	row, err := repo.GetUserRow(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SendStatusReceived, row.SendStatus)
}

func TestUpdateStatusRideRequestPromotesReceivedToReplied(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeCarpoolRideRequest, 5)
	svc := newTestService(repo, nil, nil, nil)

	err := svc.UpdateStatus(context.Background(), id, 5, models.SendStatusReceived)
	require.NoError(t, err)

	row, err := repo.GetUserRow(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SendStatusReplied, row.SendStatus)
}

func TestUpdateStatusRideRequestKeepsExplicitReplied(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeCarpoolRideRequest, 5)
	svc := newTestService(repo, nil, nil, nil)

	err := svc.UpdateStatus(context.Background(), id, 5, models.SendStatusReplied)
	require.NoError(t, err)

	row, err := repo.GetUserRow(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SendStatusReplied, row.SendStatus)
}

func TestUpdateStatusRegressionIsLastWriteWins(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeGeneral, 5)
	svc := newTestService(repo, nil, nil, nil)

	require.NoError(t, svc.UpdateStatus(context.Background(), id, 5, models.SendStatusReplied))
	// Out-of-order client call regressing REPLIED -> RECEIVED is accepted.
	require.NoError(t, svc.UpdateStatus(context.Background(), id, 5, models.SendStatusReceived))

	row, err := repo.GetUserRow(context.Background(), id, 5)
	require.NoError(t, err)
	assert.Equal(t, models.SendStatusReceived, row.SendStatus)
}

func TestUpdateStatusNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeGeneral, 5)
	svc := newTestService(repo, nil, nil, nil)

	tests := []struct {
		name           string
		notificationID int64
		userID         int64
	}{
		{name: "unknown notification", notificationID: id + 100, userID: 5},
		{name: "user not targeted", notificationID: id, userID: 6},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := svc.UpdateStatus(context.Background(), tc.notificationID, tc.userID, models.SendStatusReceived)
			require.Error(t, err)
			assert.IsType(t, NotFoundError{}, err)
		})
	}
}

func TestUpdateStatusRejectsNonAckStatuses(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	id := seedDelivered(repo, models.TypeGeneral, 5)
	svc := newTestService(repo, nil, nil, nil)

	for _, status := range []int{models.SendStatusQueued, models.SendStatusSendFailed, models.SendStatusSent, 99} {
		err := svc.UpdateStatus(context.Background(), id, 5, status)
		require.Error(t, err)
		assert.IsType(t, ValidationError{}, err)
	}
}
