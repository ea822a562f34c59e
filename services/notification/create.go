package notification

import (
	"context"
	"time"

	"notifyhub/models"
	"notifyhub/utils"

	"go.uber.org/zap"
)

// Create runs the whole pipeline for one notification: route recipients
// into language buckets, enrich the payload, persist the cascade, then
// dispatch the fan-out message. The cascade is all-or-nothing; a dispatch
// failure after the commit leaves the per-recipient rows QUEUED so the
// dispatch can be retried without re-creating anything.
func (s *DefaultNotificationService) Create(ctx context.Context, req CreateRequest) (int64, error) {
	logger := utils.GetLogger()

	if len(req.UserIDs) == 0 {
		return 0, ValidationError{Reason: "recipient list is empty"}
	}
	if len(req.Contents) == 0 {
		return 0, ValidationError{Reason: "per-language content map is empty"}
	}
	for lang, content := range req.Contents {
		if !req.Silent && content.Title == "" && content.Body == "" {
			return 0, ValidationError{Reason: "content for language " + lang + " is empty"}
		}
	}

	buckets, err := s.BucketRecipients(ctx, req.Contents, req.UserIDs, req.Silent)
	if err != nil {
		return 0, err
	}

	meta, err := s.Enrich(ctx, req.Type, req.Meta)
	if err != nil {
		return 0, err
	}

	startedOn := req.StartedOn
	if startedOn.IsZero() {
		startedOn = time.Now().UTC()
	}

	n := &models.Notification{
		Type:      req.Type,
		Meta:      meta,
		StartedOn: startedOn,
		EndedOn:   req.EndedOn,
		Silent:    req.Silent,
	}

	notificationID, err := s.Repo.CreateCascade(ctx, n, buckets)
	if err != nil {
		return 0, StorageError{Err: err}
	}

	logger.Info("notification created",
		zap.Int64("notificationId", notificationID),
		zap.Int("type", req.Type),
		zap.Int("buckets", len(buckets)),
		zap.Int("recipients", len(req.UserIDs)),
	)

	if err := s.Dispatch(ctx, notificationID, buckets, req, meta); err != nil {
		// The cascade is committed; the caller may retry the dispatch.
		return notificationID, err
	}
	return notificationID, nil
}
