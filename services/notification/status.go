package notification

import (
	"context"
	"errors"

	notificationRepo "notifyhub/database/repository/notification"
	"notifyhub/models"
	"notifyhub/utils"

	"go.uber.org/zap"
)

// UpdateStatus applies the client acknowledgement transition to one
// recipient's row. For the carpool ride-request broadcast type a RECEIVED
// acknowledgement counts as an affirmative response and is promoted to
// REPLIED before persisting. Writes are last-write-wins; a regression
// (e.g. REPLIED back to RECEIVED) is logged but still persisted.
func (s *DefaultNotificationService) UpdateStatus(ctx context.Context, notificationID, userID int64, newStatus int) error {
	logger := utils.GetLogger()

	if newStatus != models.SendStatusReceived && newStatus != models.SendStatusReplied {
		return ValidationError{Reason: "status must be RECEIVED or REPLIED"}
	}

	n, err := s.Repo.GetNotification(ctx, notificationID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNoDocuments) {
			return NotFoundError{Resource: "notification"}
		}
		return StorageError{Err: err}
	}

	row, err := s.Repo.GetUserRow(ctx, notificationID, userID)
	if err != nil {
		if errors.Is(err, notificationRepo.ErrNoDocuments) {
			return NotFoundError{Resource: "notification user"}
		}
		return StorageError{Err: err}
	}

	if _, err := s.Repo.GetMessage(ctx, row.NotificationMessageID); err != nil {
		if errors.Is(err, notificationRepo.ErrNoDocuments) {
			return NotFoundError{Resource: "notification message"}
		}
		return StorageError{Err: err}
	}

	if n.Type == models.TypeCarpoolRideRequest && newStatus == models.SendStatusReceived {
		newStatus = models.SendStatusReplied
	}

	if row.SendStatus > newStatus {
		logger.Warn("send status regression",
			zap.Int64("notificationId", notificationID),
			zap.Int64("userId", userID),
			zap.Int("from", row.SendStatus),
			zap.Int("to", newStatus),
		)
	}

	if err := s.Repo.SetSendStatus(ctx, row.ID, newStatus); err != nil {
		if errors.Is(err, notificationRepo.ErrNoDocuments) {
			return NotFoundError{Resource: "notification user"}
		}
		return StorageError{Err: err}
	}
	return nil
}
