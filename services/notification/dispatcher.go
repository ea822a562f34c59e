package notification

import (
	"context"
	"encoding/json"
	"time"

	"notifyhub/config"
	"notifyhub/models"
	"notifyhub/utils"

	"go.uber.org/zap"
)

// TopicPushFanout is the durable queue topic consumed by the push gateway.
const TopicPushFanout = "push:fanout"

// endedOnFormat is the queue contract's timestamp layout.
const endedOnFormat = "2006-01-02 15:04:05"

// Dispatch serializes exactly one queue message for the notification and,
// once the enqueue has durably succeeded, bulk-updates the per-recipient
// rows QUEUED -> SENT. Recipients with no push token can never be sent and
// are marked SEND_FAILED instead. An enqueue failure leaves every row
// QUEUED for retry. The representative title/body in the payload is the
// default-language bucket; the gateway resolves per-recipient content at
// send time.
func (s *DefaultNotificationService) Dispatch(
	ctx context.Context,
	notificationID int64,
	buckets []models.MessageBucket,
	req CreateRequest,
	meta map[string]any,
) error {
	logger := utils.GetLogger()

	var deliverable, undeliverable []int64
	for _, bucket := range buckets {
		for _, r := range bucket.Recipients {
			if r.Deliverable {
				deliverable = append(deliverable, r.UserID)
			} else {
				undeliverable = append(undeliverable, r.UserID)
			}
		}
	}

	representative := req.Contents[DefaultLang]
	payload := models.PushFanoutPayload{
		Silent:           req.Silent,
		UserList:         append(append([]int64{}, deliverable...), undeliverable...),
		NotificationType: req.Type,
		Title:            representative.Title,
		Body:             representative.Body,
		NotificationID:   notificationID,
		Meta:             meta,
		Image:            req.Image,
	}
	if req.EndedOn != nil {
		payload.EndedOn = req.EndedOn.UTC().Format(endedOnFormat)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return DispatchError{Err: err}
	}

	timeout := time.Duration(config.AppConfig.EnqueueTimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	enqueueCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Queue.Enqueue(enqueueCtx, TopicPushFanout, body); err != nil {
		logger.Error("fan-out enqueue failed, recipients remain queued",
			zap.Int64("notificationId", notificationID),
			zap.Error(err),
		)
		return DispatchError{Err: err}
	}

	if err := s.Repo.BulkSetSendStatus(ctx, notificationID, deliverable, models.SendStatusSent); err != nil {
		// Enqueue already succeeded; delivery wins over bookkeeping.
		logger.Error("sent-status bookkeeping failed after enqueue",
			zap.Int64("notificationId", notificationID),
			zap.Error(err),
		)
		return StorageError{Err: err}
	}
	if err := s.Repo.BulkSetSendStatus(ctx, notificationID, undeliverable, models.SendStatusSendFailed); err != nil {
		return StorageError{Err: err}
	}

	logger.Info("notification dispatched",
		zap.Int64("notificationId", notificationID),
		zap.Int("sent", len(deliverable)),
		zap.Int("undeliverable", len(undeliverable)),
	)
	return nil
}
